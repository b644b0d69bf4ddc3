package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rhuss/llm-1min/pkg/provider"
)

func remoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage conversations stored at 1min.ai",
	}
	cmd.AddCommand(remoteListCmd(a), remoteGetCmd(a), remoteDeleteCmd(a), remoteClearCmd(a), remoteExportCmd(a))
	return cmd
}

func remoteListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List remote conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.provider()
			if err != nil {
				return err
			}
			convs, err := client.ListConversations(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(convs)
			}
			if len(convs) == 0 {
				fmt.Fprintln(a.out, "No remote conversations")
				return nil
			}
			for _, c := range convs {
				fmt.Fprintf(a.out, "%s  %s  %s\n", color.CyanString(c.UUID), c.Model, c.Title)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func remoteGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get UUID",
		Short: "Show a remote conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.provider()
			if err != nil {
				return err
			}
			doc, err := client.GetConversation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := json.Indent(&buf, doc, "", "  "); err != nil {
				return fmt.Errorf("formatting conversation: %w", err)
			}
			buf.WriteByte('\n')
			_, err = buf.WriteTo(a.out)
			return err
		},
	}
}

func remoteDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete UUID",
		Short: "Delete a remote conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.provider()
			if err != nil {
				return err
			}
			ok, err := client.DeleteConversation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("conversation %s was not deleted", args[0])
			}
			fmt.Fprintf(a.out, "Deleted %s\n", args[0])
			return nil
		},
	}
}

func remoteClearCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all remote conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all {
				return errors.New("--all is required to delete every remote conversation")
			}
			client, err := a.provider()
			if err != nil {
				return err
			}
			convs, err := client.ListConversations(cmd.Context())
			if err != nil {
				return err
			}

			deleted := 0
			var errs []error
			for _, c := range convs {
				ok, err := client.DeleteConversation(cmd.Context(), c.UUID)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %s", c.UUID, userMessage(err)))
					continue
				}
				if ok {
					deleted++
				}
			}
			fmt.Fprintf(a.out, "Deleted %d of %d conversation(s)\n", deleted, len(convs))
			if len(errs) > 0 {
				return fmt.Errorf("failed to delete %d conversation(s): %w", len(errs), errs[0])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Confirm deleting all conversations")
	return cmd
}

func remoteExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all remote conversations as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.provider()
			if err != nil {
				return err
			}
			convs, err := client.ListConversations(cmd.Context())
			if err != nil {
				return err
			}
			if convs == nil {
				convs = []provider.Conversation{}
			}

			toFile, err := a.writeOutput(output, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(convs)
			})
			if err != nil {
				return err
			}
			if toFile {
				fmt.Fprintf(a.errOut, "Exported %d conversation(s) to %s\n", len(convs), output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
