package http_test

import (
	"context"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/braindump/internal/braindump"
	"github.com/fyrsmithlabs/braindump/internal/cache"
	"github.com/fyrsmithlabs/braindump/internal/extraction"
	httpserver "github.com/fyrsmithlabs/braindump/internal/http"
	"github.com/fyrsmithlabs/braindump/internal/logging"
	"github.com/fyrsmithlabs/braindump/internal/secrets"
	"go.uber.org/zap"
)

// ExampleServer demonstrates how to create and start the HTTP server.
func ExampleServer() {
	scrubber := secrets.MustNew(nil)
	logger := logging.NewNop()

	svc := braindump.NewService(
		extraction.DefaultRegistry(nil),
		cache.New(cache.Config{TTL: 30 * time.Minute, MaxEntries: 100}),
		braindump.WithScrubber(scrubber),
		braindump.WithLogger(logger),
	)

	server, err := httpserver.NewServer(svc, scrubber, logger, &httpserver.Config{
		Host: "localhost",
		Port: 0,
	})
	if err != nil {
		panic(err)
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Underlying().Debug("server stopped", zap.Error(err))
		}
	}()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		fmt.Println("shutdown error:", err)
	}

	fmt.Println("Server started and stopped successfully")
	// Output: Server started and stopped successfully
}
