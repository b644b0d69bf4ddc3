// Command llm-1min talks to the 1min.ai API: it runs prompts against the
// model catalog, manages persistent per-model options and inspects remote
// conversations.
//
// Configuration via settings file (--config, ONEMIN_CONFIG or
// <user config dir>/llm-1min/settings.yaml) and environment variables:
//
//	ONEMIN_API_KEY       - 1min.ai API key (falls back to llm's keys.json)
//	ONEMIN_BASE_URL      - API endpoint (default: https://api.1min.ai)
//	ONEMIN_MODEL         - Default model for prompt and chat
//	ONEMIN_OPTIONS_FILE  - Options document location
//	ONEMIN_LOG_LEVEL     - TRACE, DEBUG, INFO, WARN, ERROR
//	ONEMIN_DEBUG         - Debug categories (providers, engine, storage, config, all)
//	ONEMIN_METRICS_ADDR  - Serve Prometheus metrics on this address
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rhuss/llm-1min/pkg/api"
)

var version = "0.3.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	a := &app{in: in, out: out, errOut: errOut}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "Error: %s\n", userMessage(err))
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "llm-1min",
		Short: "1min.ai models from the command line",
		Long: `llm-1min runs prompts against the 1min.ai API.

Conversations are created on demand and reused for follow-up prompts.
Options such as web search are stored per model or globally and can be
overridden per call with -o key=value.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			return a.init(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Settings file (YAML)")
	rootCmd.PersistentFlags().StringVar(&a.apiKey, "api-key", "", "1min.ai API key")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "prompt", Title: "Prompting:"},
		&cobra.Group{ID: "manage", Title: "Management:"},
	)

	for _, c := range []*cobra.Command{modelsCmd(a), promptCmd(a), chatCmd(a)} {
		c.GroupID = "prompt"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{optionsCmd(a), conversationsCmd(a), clearCmd(a), remoteCmd(a)} {
		c.GroupID = "manage"
		rootCmd.AddCommand(c)
	}

	return rootCmd
}

// userMessage renders err as one line. Typed errors print their message
// and the message of a typed cause instead of the internal type prefix.
func userMessage(err error) string {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	msg := apiErr.Message
	if apiErr.Cause != nil {
		var inner *api.Error
		if errors.As(apiErr.Cause, &inner) {
			msg += ": " + inner.Message
		} else {
			msg += ": " + apiErr.Cause.Error()
		}
	}
	return msg
}
