package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rhuss/llm-1min/pkg/api"
	"github.com/rhuss/llm-1min/pkg/engine"
	"github.com/rhuss/llm-1min/pkg/options"
)

func promptCmd(a *app) *cobra.Command {
	var model, cid string
	var opts []string
	var info bool

	cmd := &cobra.Command{
		Use:   "prompt [TEXT|-]",
		Short: "Send a single prompt",
		Long: `Send a single prompt to a 1min.ai model and print the reply.

The prompt is read from stdin when TEXT is "-" or omitted. Prompts without
--cid share one remote conversation per model within this process; pass
--cid to keep separate threads apart.`,
		Example: `  llm-1min prompt -m 1min/gpt-4o "Explain goroutines"
  llm-1min prompt -m sonar -o web_search=true -o num_of_site=5 "Go 1.25 release notes"
  git diff | llm-1min prompt -m 1min/claude-4-sonnet -o conversation_type=CODE_GENERATOR -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.promptText(args)
			if err != nil {
				return err
			}
			overrides, err := options.ParseAssignments(opts)
			if err != nil {
				return err
			}
			eng, err := a.engine()
			if err != nil {
				return err
			}

			res, err := eng.Prompt(cmd.Context(), engine.Request{
				Model:          model,
				ConversationID: cid,
				Prompt:         text,
				Overrides:      overrides,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, res.Text)
			if info {
				fmt.Fprintln(a.errOut, color.HiBlackString("%s conversation %s (%s)",
					res.Model.ID, res.ConversationUUID, res.Duration.Round(time.Millisecond)))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to use (see 'llm-1min models')")
	cmd.Flags().StringVar(&cid, "cid", "", "Conversation ID to continue")
	cmd.Flags().StringArrayVarP(&opts, "option", "o", nil, "Option override key=value (repeatable)")
	cmd.Flags().BoolVar(&info, "info", false, "Print model, conversation and duration to stderr")
	return cmd
}

// promptText returns the prompt from args or stdin.
func (a *app) promptText(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	if len(args) == 0 && a.interactive() {
		return "", api.NewValidationError("prompt", "prompt text is required")
	}
	data, err := io.ReadAll(a.in)
	if err != nil {
		return "", fmt.Errorf("reading prompt: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func chatCmd(a *app) *cobra.Command {
	var model, cid string
	var opts []string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat interactively with a model",
		Long: `Start an interactive chat. Every line is sent as a prompt in the same
remote conversation.

Commands:
  /conversations  list the conversations of this session
  /clear          delete the conversation and start a new one
  /exit           quit (also: exit, quit)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := options.ParseAssignments(opts)
			if err != nil {
				return err
			}
			if model == "" {
				model = a.cfg.Engine.DefaultModel
			}
			if model == "" {
				return api.NewValidationError("model", "model is required")
			}
			m, err := resolveModel(model)
			if err != nil {
				return err
			}
			eng, err := a.engine()
			if err != nil {
				return err
			}
			if cid == "" {
				cid = uuid.NewString()
			}
			return a.chatLoop(cmd.Context(), eng, engine.Request{
				Model:          m.ID,
				ConversationID: cid,
				Overrides:      overrides,
			}, m.Name)
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to use (see 'llm-1min models')")
	cmd.Flags().StringVar(&cid, "cid", "", "Conversation ID (default: new per session)")
	cmd.Flags().StringArrayVarP(&opts, "option", "o", nil, "Option override key=value (repeatable)")
	return cmd
}

// chatLoop reads prompts line by line until EOF or /exit. Prompt failures
// are reported and the loop continues.
func (a *app) chatLoop(ctx context.Context, eng *engine.Engine, base engine.Request, name string) error {
	interactive := a.interactive()
	if interactive {
		fmt.Fprintf(a.out, "Chatting with %s (%s)\n", color.CyanString(name), base.Model)
		fmt.Fprintln(a.out, "Type /exit to quit, /clear to start over, /conversations to list conversations.")
	}

	scanner := bufio.NewScanner(a.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		if interactive {
			fmt.Fprint(a.out, color.GreenString("> "))
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/exit", "exit", "quit":
			return nil
		case "/conversations":
			a.printConversations(eng)
			continue
		case "/clear":
			cleared, err := eng.ClearConversation(ctx, base.ConversationID, base.Model)
			if err != nil {
				fmt.Fprintf(a.errOut, "Error: %s\n", userMessage(err))
				continue
			}
			n := 0
			if cleared {
				n = 1
			}
			fmt.Fprintf(a.out, "Cleared %d conversation(s)\n", n)
			continue
		}

		req := base
		req.Prompt = line
		res, err := eng.Prompt(ctx, req)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintf(a.errOut, "Error: %s\n", userMessage(err))
			continue
		}
		fmt.Fprintln(a.out, res.Text)
	}
	return scanner.Err()
}
