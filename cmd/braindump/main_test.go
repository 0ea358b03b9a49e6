package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fyrsmithlabs/braindump/internal/extraction"
	"github.com/fyrsmithlabs/braindump/internal/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

const notesReply = `{"tasks": [{"title": "Call mom", "priority": "medium", "category": "personal",
 "timeEstimate": "15min", "energyLevel": "low"}],
 "habits": [{"title": "Exercise", "frequency": "daily", "scheduledTime": "07:00"}],
 "events": [], "sleep": []}`

type upstream struct {
	*httptest.Server
	requests atomic.Int32
	apiKey   atomic.Value
	body     atomic.Value
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.requests.Add(1)
		u.apiKey.Store(r.Header.Get("X-API-Key"))
		raw, _ := io.ReadAll(r.Body)
		u.body.Store(string(raw))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":    "message",
			"content": []map[string]string{{"type": "text", "text": notesReply}},
			"usage":   map[string]int{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	t.Cleanup(u.Close)
	return u
}

// setupEnv points configuration at an empty temp dir and the backend at u.
func setupEnv(t *testing.T, u *upstream) string {
	t.Helper()
	gokeyring.MockInit()
	t.Setenv("BRAINDUMP_LOGGING_LEVEL", "error")
	t.Setenv("BRAINDUMP_AI_BACKEND", "anthropic")
	t.Setenv("BRAINDUMP_AI_API_KEY", "sk-ant-from-env")
	if u != nil {
		t.Setenv("BRAINDUMP_AI_BASE_URL", u.URL)
	}
	return filepath.Join(t.TempDir(), "config.yaml")
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProcess_Stdin(t *testing.T) {
	u := newUpstream(t)
	cfgPath := setupEnv(t, u)

	out, err := run(t, "Call mom tomorrow. Exercise daily at 7am.", "--config", cfgPath, "process", "-")
	require.NoError(t, err)

	var res extraction.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, "Call mom", res.Tasks[0].Title)
	require.Len(t, res.Habits, 1)
	assert.Equal(t, "Exercise", res.Habits[0].Title)
	assert.Empty(t, res.RawResponse, "raw reply is omitted unless --raw")
	assert.Equal(t, "sk-ant-from-env", u.apiKey.Load())
}

func TestProcess_File(t *testing.T) {
	u := newUpstream(t)
	cfgPath := setupEnv(t, u)

	notes := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("Call mom\n"), 0o600))

	out, err := run(t, "", "--config", cfgPath, "process", "--raw", notes)
	require.NoError(t, err)
	assert.Contains(t, out, `"Call mom"`)
	assert.Contains(t, out, "rawResponse")
}

func TestProcess_Errors(t *testing.T) {
	u := newUpstream(t)

	t.Run("empty input", func(t *testing.T) {
		cfgPath := setupEnv(t, u)
		_, err := run(t, "   \n", "--config", cfgPath, "process")
		assert.EqualError(t, err, "no text to process")
	})

	t.Run("missing file", func(t *testing.T) {
		cfgPath := setupEnv(t, u)
		_, err := run(t, "", "--config", cfgPath, "process", filepath.Join(t.TempDir(), "nope.txt"))
		assert.ErrorContains(t, err, "failed to read file")
	})

	t.Run("unknown backend flag", func(t *testing.T) {
		cfgPath := setupEnv(t, u)
		_, err := run(t, "Call mom", "--config", cfgPath, "process", "--backend", "gemini")
		assert.ErrorContains(t, err, `unknown backend "gemini"`)
	})

	t.Run("unknown category", func(t *testing.T) {
		cfgPath := setupEnv(t, u)
		_, err := run(t, "Call mom", "--config", cfgPath, "process", "--categories", "chores")
		assert.ErrorContains(t, err, `unknown category "chores"`)
	})

	t.Run("backend none", func(t *testing.T) {
		cfgPath := setupEnv(t, u)
		t.Setenv("BRAINDUMP_AI_BACKEND", "none")
		_, err := run(t, "Call mom", "--config", cfgPath, "process")
		assert.True(t, extraction.IsKind(err, extraction.KindConfiguration))
	})

	assert.Zero(t, u.requests.Load())
}

func TestProcess_KeyringFallback(t *testing.T) {
	u := newUpstream(t)
	cfgPath := setupEnv(t, u)
	t.Setenv("BRAINDUMP_AI_API_KEY", "")
	require.NoError(t, keyring.SetAPIKey(extraction.BackendAnthropic, "sk-ant-from-keyring"))

	_, err := run(t, "Call mom", "--config", cfgPath, "process")
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-from-keyring", u.apiKey.Load())
}

func TestProcess_Categories(t *testing.T) {
	u := newUpstream(t)
	cfgPath := setupEnv(t, u)

	_, err := run(t, "Call mom", "--config", cfgPath, "process", "--categories", "tasks,sleep")
	require.NoError(t, err)

	body, _ := u.body.Load().(string)
	assert.Contains(t, body, "- tasks: yes")
	assert.Contains(t, body, "- sleep: yes")
	assert.Contains(t, body, "- habits: no")
}

func TestProcess_SecretsScrubbed(t *testing.T) {
	u := newUpstream(t)
	cfgPath := setupEnv(t, u)

	_, err := run(t, "Call mom. wifi password: hunter22", "--config", cfgPath, "process")
	require.NoError(t, err)

	body, _ := u.body.Load().(string)
	assert.NotContains(t, body, "hunter22")
}

func TestParseCategories(t *testing.T) {
	c, err := parseCategories([]string{"Tasks", " events "})
	require.NoError(t, err)
	assert.True(t, c.Tasks)
	assert.True(t, c.Events)
	assert.False(t, c.Habits)
	assert.False(t, c.Sleep)
}

func TestModels(t *testing.T) {
	cfgPath := setupEnv(t, nil)

	out, err := run(t, "", "--config", cfgPath, "models", "groq")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ID"))
	assert.Contains(t, out, "NAME")

	out, err = run(t, "", "--config", cfgPath, "models")
	require.NoError(t, err)
	assert.Contains(t, out, "claude-3-5-sonnet-20241022")

	_, err = run(t, "", "--config", cfgPath, "models", "none")
	assert.Error(t, err)
}

func TestAuth(t *testing.T) {
	cfgPath := setupEnv(t, nil)

	out, err := run(t, "", "--config", cfgPath, "auth", "set", "groq", "--key", "gsk_test")
	require.NoError(t, err)
	assert.Equal(t, "Stored API key for groq\n", out)

	key, err := keyring.GetAPIKey(extraction.BackendGroq)
	require.NoError(t, err)
	assert.Equal(t, "gsk_test", key)

	_, err = run(t, "sk-openai-from-stdin\n", "--config", cfgPath, "auth", "set", "openai")
	require.NoError(t, err)
	key, err = keyring.GetAPIKey(extraction.BackendOpenAI)
	require.NoError(t, err)
	assert.Equal(t, "sk-openai-from-stdin", key)

	out, err = run(t, "", "--config", cfgPath, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "groq       stored")
	assert.Contains(t, out, "openai     stored")

	_, err = run(t, "", "--config", cfgPath, "auth", "delete", "groq")
	require.NoError(t, err)
	_, err = keyring.GetAPIKey(extraction.BackendGroq)
	assert.ErrorIs(t, err, keyring.ErrNotFound)

	_, err = run(t, "", "--config", cfgPath, "auth", "delete", "groq")
	assert.ErrorContains(t, err, "no API key stored for groq")

	_, err = run(t, "", "--config", cfgPath, "auth", "set", "groq")
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	cfgPath := setupEnv(t, nil)
	t.Setenv("BRAINDUMP_SERVER_PORT", "0")

	_, err := run(t, "", "--config", cfgPath, "models", "groq")
	assert.ErrorContains(t, err, "config validation failed")
}
