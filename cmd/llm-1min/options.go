package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rhuss/llm-1min/pkg/api"
	"github.com/rhuss/llm-1min/pkg/options"
)

func optionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Manage stored prompt options",
		Long: `Manage the options applied to every prompt. Options are stored globally
or per model; per-model values win over global ones and -o on the command
line wins over both.

Known options:
  conversation_type  CHAT_WITH_AI or CODE_GENERATOR (default CHAT_WITH_AI)
  web_search         true or false (default false)
  num_of_site        1-10, sites searched with web_search (default 3)
  max_word           words taken from web results (default 500)
  is_mixed           mix context between models (default false)`,
	}
	cmd.AddCommand(
		optionsSetCmd(a),
		optionsGetCmd(a),
		optionsUnsetCmd(a),
		optionsListCmd(a),
		optionsResetCmd(a),
		optionsExportCmd(a),
		optionsImportCmd(a),
		optionsPathCmd(a),
	)
	return cmd
}

// scopeFlag adds -m to cmd and returns a resolver for the store key it
// selects. Options are keyed by the provider model id; empty means global.
func scopeFlag(cmd *cobra.Command) func() (string, string, error) {
	var model string
	cmd.Flags().StringVarP(&model, "model", "m", "", "Apply to this model instead of globally")
	return func() (string, string, error) {
		if model == "" {
			return "", "globally", nil
		}
		m, err := resolveModel(model)
		if err != nil {
			return "", "", err
		}
		return m.APIModel, "for " + m.ID, nil
	}
}

func optionsSetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "set KEY VALUE",
		Short:   "Set an option",
		Example: "  llm-1min options set web_search true\n  llm-1min options set num_of_site 5 -m 1min/sonar",
		Args:    cobra.ExactArgs(2),
	}
	scope := scopeFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		modelKey, label, err := scope()
		if err != nil {
			return err
		}
		value, err := options.Parse(args[0], args[1])
		if err != nil {
			return err
		}
		if err := a.optionStore().SetOption(args[0], value, modelKey); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Set %s = %v %s\n", args[0], value, label)
		return nil
	}
	return cmd
}

func optionsGetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Show the value an option resolves to",
		Args:  cobra.ExactArgs(1),
	}
	scope := scopeFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		spec, ok := options.Lookup(args[0])
		if !ok {
			return api.NewValidationError(args[0], fmt.Sprintf("unknown option %q (known: %s)", args[0], strings.Join(options.Names(), ", ")))
		}
		modelKey, _, err := scope()
		if err != nil {
			return err
		}
		store := a.optionStore()
		value, source := resolveValue(spec, store.Defaults(), modelOptionsOrNil(store.ModelOptions, modelKey))
		fmt.Fprintf(a.out, "%s = %v (%s)\n", spec.Name, value, source)
		return nil
	}
	return cmd
}

func optionsUnsetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unset KEY",
		Short: "Remove a stored option",
		Args:  cobra.ExactArgs(1),
	}
	scope := scopeFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		modelKey, label, err := scope()
		if err != nil {
			return err
		}
		removed, err := a.optionStore().UnsetOption(args[0], modelKey)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintf(a.out, "%s is not set %s\n", args[0], label)
			return nil
		}
		fmt.Fprintf(a.out, "Unset %s %s\n", args[0], label)
		return nil
	}
	return cmd
}

func optionsListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored options, or the effective options of one model",
		Args:  cobra.NoArgs,
	}
	scope := scopeFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		modelKey, label, err := scope()
		if err != nil {
			return err
		}
		store := a.optionStore()

		if modelKey != "" {
			fmt.Fprintf(a.out, "Effective options %s:\n", label)
			defaults, modelOpts := store.Defaults(), store.ModelOptions(modelKey)
			for _, spec := range options.Schema() {
				value, source := resolveValue(spec, defaults, modelOpts)
				fmt.Fprintf(a.out, "  %s = %v %s\n", spec.Name, value, color.HiBlackString("(%s)", source))
			}
			return nil
		}

		doc := store.Load()
		fmt.Fprintln(a.out, "Global defaults:")
		printOptionMap(a.out, doc.Defaults)

		fmt.Fprintln(a.out, "Model options:")
		if len(doc.Models) == 0 {
			fmt.Fprintln(a.out, "  (none)")
			return nil
		}
		for _, name := range sortedKeys(doc.Models) {
			fmt.Fprintf(a.out, "  %s:\n", color.CyanString(name))
			for _, k := range sortedKeys(doc.Models[name]) {
				fmt.Fprintf(a.out, "    %s = %v\n", k, doc.Models[name][k])
			}
		}
		return nil
	}
	return cmd
}

func optionsResetCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove all stored options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(a.out, "Remove all global and per-model options? [y/N] ")
				answer, err := bufio.NewReader(a.in).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("reading confirmation: %w", err)
				}
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(a.out, "Aborted")
					return nil
				}
			}
			if err := a.optionStore().Reset(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "All options reset")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func optionsExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the options document as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			toFile, err := a.writeOutput(output, a.optionStore().Export)
			if err != nil {
				return err
			}
			if toFile {
				fmt.Fprintf(a.errOut, "Exported options to %s\n", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func optionsImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the options document with FILE (\"-\" for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = a.in
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}
			if err := a.optionStore().Import(r); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Imported options from %s\n", args[0])
			return nil
		},
	}
}

func optionsPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the location of the options document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(a.out, a.optionStore().Path())
			return nil
		},
	}
}

// resolveValue returns the value spec resolves to and where it came from.
func resolveValue(spec options.Spec, defaults, modelOpts map[string]any) (any, string) {
	if v, ok := modelOpts[spec.Name]; ok {
		return v, "model"
	}
	if v, ok := defaults[spec.Name]; ok {
		return v, "global"
	}
	return spec.Default, "default"
}

func modelOptionsOrNil(lookup func(string) map[string]any, modelKey string) map[string]any {
	if modelKey == "" {
		return nil
	}
	return lookup(modelKey)
}

func printOptionMap(w io.Writer, m map[string]any) {
	if len(m) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, k := range sortedKeys(m) {
		fmt.Fprintf(w, "  %s = %v\n", k, m[k])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
