package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/rhuss/llm-1min/pkg/api"
	"github.com/rhuss/llm-1min/pkg/auth/apikey"
	"github.com/rhuss/llm-1min/pkg/config"
	"github.com/rhuss/llm-1min/pkg/debug"
	"github.com/rhuss/llm-1min/pkg/engine"
	"github.com/rhuss/llm-1min/pkg/models"
	"github.com/rhuss/llm-1min/pkg/observability"
	"github.com/rhuss/llm-1min/pkg/provider/onemin"
	"github.com/rhuss/llm-1min/pkg/storage/file"
)

// app carries the state shared by all commands of one invocation. The
// provider client, option store and engine are built on first use so
// commands that do not talk to the API work without a key.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	apiKey     string

	cfg    *config.Config
	store  *file.Store
	client *onemin.Client
	eng    *engine.Engine

	stopMetrics func()
}

// init loads the configuration, sets up logging and starts the metrics
// endpoint when enabled.
func (a *app) init(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	debug.Init(a.errOut, cfg.Logging.Debug, cfg.Logging.Level)

	if cfg.Observability.Metrics.Enabled {
		metricsCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := observability.Serve(metricsCtx, cfg.Observability.Metrics.Addr); err != nil {
				slog.Warn("metrics endpoint failed", "addr", cfg.Observability.Metrics.Addr, "error", err)
			}
		}()
		a.stopMetrics = func() {
			cancel()
			<-done
		}
	}
	return nil
}

func (a *app) close() {
	if a.client != nil {
		a.client.Close()
	}
	if a.stopMetrics != nil {
		a.stopMetrics()
	}
}

// optionStore returns the options document store.
func (a *app) optionStore() *file.Store {
	if a.store == nil {
		path := a.cfg.Options.Path
		if path == "" {
			path = file.DefaultPath()
		}
		a.store = file.New(path)
	}
	return a.store
}

// provider returns the 1min.ai client, resolving the API key on first use.
func (a *app) provider() (*onemin.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	resolver := apikey.Resolver{
		Flag:       a.apiKey,
		Configured: a.cfg.Provider.APIKey,
		KeysFile:   a.cfg.Credentials.KeysFile,
		KeyName:    a.cfg.Credentials.KeyName,
	}
	key, _, err := resolver.Resolve()
	if err != nil {
		return nil, err
	}

	client, err := onemin.New(onemin.Config{
		BaseURL:        a.cfg.Provider.BaseURL,
		APIKey:         key,
		CreateTimeout:  a.cfg.Provider.CreateTimeout,
		PromptTimeout:  a.cfg.Provider.PromptTimeout,
		RequestTimeout: a.cfg.Provider.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}
	a.client = client
	return client, nil
}

// engine returns the prompt engine.
func (a *app) engine() (*engine.Engine, error) {
	if a.eng != nil {
		return a.eng, nil
	}
	client, err := a.provider()
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(client, a.optionStore(), nil, engine.Config{
		DefaultModel: a.cfg.Engine.DefaultModel,
		TitlePrefix:  a.cfg.Engine.TitlePrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	a.eng = eng
	return eng, nil
}

// interactive reports whether input comes from a terminal.
func (a *app) interactive() bool {
	f, ok := a.in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeOutput runs write against stdout, or against the file output when
// it is set and not "-". It reports whether a file was written.
func (a *app) writeOutput(output string, write func(io.Writer) error) (bool, error) {
	if output == "" || output == "-" {
		return false, write(a.out)
	}
	f, err := os.Create(output)
	if err != nil {
		return false, fmt.Errorf("creating %s: %w", output, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return false, err
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("writing %s: %w", output, err)
	}
	return true, nil
}

// resolveModel maps a model argument to its catalog entry.
func resolveModel(id string) (models.Model, error) {
	m, ok := models.Lookup(id)
	if !ok {
		return models.Model{}, api.NewValidationError("model", fmt.Sprintf("unknown model %q (see 'llm-1min models')", id))
	}
	return m, nil
}
