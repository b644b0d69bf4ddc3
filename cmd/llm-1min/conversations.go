package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rhuss/llm-1min/pkg/engine"
)

func conversationsCmd(a *app) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "conversations",
		Short: "List conversations created by this process",
		Long: `List the conversations held in the local registry. The registry lives
in memory, so outside of chat it only holds what the current invocation
created. Use 'llm-1min remote list' to see conversations stored at 1min.ai.

With --model only the earliest conversation of that model is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			if model == "" {
				a.printConversations(eng)
				return nil
			}

			m, err := resolveModel(model)
			if err != nil {
				return err
			}
			e, ok := eng.ConversationFor(m.ID)
			if !ok {
				fmt.Fprintf(a.out, "No active conversation for %s\n", m.ID)
				return nil
			}
			fmt.Fprintf(a.out, "%s: %s\n", e.Key, e.UUID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "Show the conversation of this model")
	return cmd
}

func clearCmd(a *app) *cobra.Command {
	var model string
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete registered conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if model == "" && !all {
				return errors.New("either --model or --all is required")
			}
			if model != "" && all {
				return errors.New("--model and --all are mutually exclusive")
			}
			eng, err := a.engine()
			if err != nil {
				return err
			}

			var n int
			if all {
				n = eng.ClearAll(cmd.Context())
				fmt.Fprintf(a.out, "Cleared %d conversation(s)\n", n)
				return nil
			}
			m, err := resolveModel(model)
			if err != nil {
				return err
			}
			n = eng.ClearModel(cmd.Context(), m.ID)
			fmt.Fprintf(a.out, "Cleared %d conversation(s) for %s\n", n, m.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "Clear conversations of this model")
	cmd.Flags().BoolVar(&all, "all", false, "Clear all conversations")
	return cmd
}

func (a *app) printConversations(eng *engine.Engine) {
	entries := eng.Conversations()
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No active conversations")
		return
	}
	fmt.Fprintln(a.out, "Active conversations:")
	for _, e := range entries {
		fmt.Fprintf(a.out, "  %s: %s\n", e.Key, e.UUID)
	}
}
