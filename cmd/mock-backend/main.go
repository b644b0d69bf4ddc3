// Command mock-backend runs the in-memory 1min.ai fake as a standalone
// server, so the CLI can be exercised without a real account:
//
//	MOCK_API_KEY=dev go run ./cmd/mock-backend &
//	ONEMIN_BASE_URL=http://localhost:9090 ONEMIN_API_KEY=dev llm-1min prompt -m gpt-4o hi
//
// Configuration:
//
//	MOCK_PORT        - Listen port (default: 9090)
//	MOCK_API_KEY     - Required API-KEY header value (default: accept any)
//	MOCK_REPLY_SHAPE - Reply body shape: airecord, result, data or text (default: airecord)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rhuss/llm-1min/pkg/provider"
	"github.com/rhuss/llm-1min/pkg/provider/onemin/oneminttest"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	reply, err := replyFor(os.Getenv("MOCK_REPLY_SHAPE"))
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	fake := oneminttest.New(os.Getenv("MOCK_API_KEY"))
	fake.SetReply(reply)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           fake.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port, "auth", os.Getenv("MOCK_API_KEY") != "")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// replyFor returns a reply builder for one of the body shapes the real API
// has been seen to answer with.
func replyFor(shape string) (oneminttest.ReplyFunc, error) {
	echo := func(req provider.FeatureRequest) string {
		return "You said: " + req.PromptObject.Prompt
	}

	switch shape {
	case "", "airecord":
		return oneminttest.DefaultReply, nil
	case "result":
		return func(req provider.FeatureRequest) any {
			return map[string]any{"result": map[string]any{"response": echo(req)}}
		}, nil
	case "data":
		return func(req provider.FeatureRequest) any {
			return map[string]any{"data": echo(req)}
		}, nil
	case "text":
		return func(req provider.FeatureRequest) any {
			return echo(req)
		}, nil
	default:
		return nil, fmt.Errorf("MOCK_REPLY_SHAPE must be airecord, result, data or text, got %q", shape)
	}
}
