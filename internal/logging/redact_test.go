package logging

import (
	"context"
	"testing"

	"github.com/fyrsmithlabs/braindump/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSecretField(t *testing.T) {
	logger := NewTestLogger()
	logger.Info(context.Background(), "key loaded", Secret("api_key", config.Secret("super-secret-value")))

	logs := logger.All()
	require.Len(t, logs, 1)

	obj, ok := logs[0].ContextMap()["api_key"].(map[string]interface{})
	require.True(t, ok, "api_key should be logged as an object")
	assert.Equal(t, true, obj["set"])
	assert.Equal(t, "[REDACTED:18]", obj["value"])
}

func TestRedactedString(t *testing.T) {
	logger := NewTestLogger()
	logger.Info(context.Background(), "test", RedactedString("text", "call mom tomorrow"))

	logger.AssertField(t, "test", "text", "[REDACTED:17]")
	logger.AssertNoSecrets(t, "call mom tomorrow")
}

func TestRedactingEncoder_Keys(t *testing.T) {
	enc, err := NewRedactingEncoder(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), NewDefaultConfig().Redaction)
	require.NoError(t, err)

	buf, err := enc.EncodeEntry(zapcore.Entry{Message: "m"}, []zapcore.Field{
		zap.String("Authorization", "Bearer abc"),
		zap.String("backend", "openai"),
		zap.ByteString("token", []byte("t0k3n")),
		zap.Any("credential", map[string]string{"k": "v"}),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "Bearer abc")
	assert.NotContains(t, out, "t0k3n")
	assert.NotContains(t, out, `"k":"v"`)
	assert.Contains(t, out, `"backend":"openai"`)
}

func TestRedactingEncoder_Disabled(t *testing.T) {
	enc, err := NewRedactingEncoder(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), RedactionConfig{})
	require.NoError(t, err)

	buf, err := enc.EncodeEntry(zapcore.Entry{Message: "m"}, []zapcore.Field{zap.String("api_key", "visible")})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "visible")
}

func TestRedactingEncoder_InvalidPattern(t *testing.T) {
	_, err := NewRedactingEncoder(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), RedactionConfig{
		Enabled:  true,
		Patterns: []string{"[unclosed"},
	})
	assert.Error(t, err)
}

func TestAssertNoSecrets_CatchesLeaks(t *testing.T) {
	logger := NewTestLogger()
	logger.Info(context.Background(), "oops", zap.String("api_key", "sk-raw"))

	rec := &recordingTB{TB: t}
	logger.AssertNoSecrets(rec)
	assert.True(t, rec.failed)
}

// recordingTB captures failures instead of failing the enclosing test.
type recordingTB struct {
	testing.TB
	failed bool
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(string, ...any) { r.failed = true }
