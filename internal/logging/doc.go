// Package logging provides structured logging for braindump.
//
// # Overview
//
// The package wraps Zap with:
//   - A Trace level (-2, below Debug)
//   - Context field injection (OpenTelemetry trace_id/span_id, request.id)
//   - Key and pattern based secret redaction in the encoder
//   - Level-aware sampling (errors are never sampled)
//
// Logs go to stderr so command output on stdout stays machine-readable.
//
// # Usage
//
//	cfg, err := logging.ConfigFrom(appCfg.Logging)
//	if err != nil {
//	    return err
//	}
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRequestID(ctx, "req_42")
//	logger.Info(ctx, "extraction finished", zap.String("backend", "openai"))
//
// # Secrets
//
// Use Secret for config.Secret values and RedactedString for raw strings.
// Fields named api_key, credential, authorization and the like are masked by
// the encoder even when logged with zap.String.
//
// # Testing
//
//	logger := logging.NewTestLogger()
//	svc := braindump.NewService(reg, c, braindump.WithLogger(logger.Logger))
//	...
//	logger.AssertLogged(t, zapcore.DebugLevel, "cache hit")
//	logger.AssertNoSecrets(t)
package logging
