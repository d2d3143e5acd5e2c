package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamancini/tlaplus-cli/internal/invoke"
	"github.com/adamancini/tlaplus-cli/internal/logging"
)

// translatorClass is the PlusCal translator entry point in tla2tools.jar.
const translatorClass = "pcal.trans"

// fairnessFlags maps --fairness values to translator options.
var fairnessFlags = map[string]string{
	"wf":     "-wf",
	"sf":     "-sf",
	"wfnext": "-wfNext",
	"nof":    "-nof",
}

// translateOptions holds the translate command flags.
type translateOptions struct {
	fairness    string
	termination bool
	noCfg       bool
	label       bool
	specOnly    bool
	lineWidth   int
}

var translateOpts translateOptions

func newTranslateCmd() *cobra.Command {
	translateOpts = translateOptions{}

	cmd := &cobra.Command{
		Use:     "translate [flags] FILE [-- TRANSLATOR_ARGS...]",
		Aliases: []string{"t"},
		Short:   "Translate the PlusCal algorithm in a TLA+ module",
		Long: `Run the PlusCal translator (pcal.trans) on FILE using the installed
tla2tools.jar. Arguments after -- are passed to the translator unchanged.

The exit code is the translator's own exit code.

Examples:
  tlaplus translate Spec.tla
  tlaplus translate --fairness wf --termination Spec.tla
  tlaplus t Spec.tla -- -debug`,
		Args: func(cmd *cobra.Command, args []string) error {
			if n := positionalCount(cmd, args); n != 1 {
				return fmt.Errorf("translate requires exactly one FILE, got %d", n)
			}
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return []string{"tla"}, cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs, err := translateOpts.toolArgs(splitAtDash(cmd, args))
			if err != nil {
				return err
			}
			return runTranslate(cmd, toolArgs)
		},
	}

	cmd.Flags().StringVar(&translateOpts.fairness, "fairness", "", "Fairness for the algorithm's processes: wf, sf, wfNext, nof")
	cmd.Flags().BoolVar(&translateOpts.termination, "termination", false, "Add a Termination property to the generated config")
	cmd.Flags().BoolVar(&translateOpts.noCfg, "nocfg", false, "Do not write a .cfg file")
	cmd.Flags().BoolVar(&translateOpts.label, "label", false, "Add missing labels automatically")
	cmd.Flags().BoolVar(&translateOpts.specOnly, "spec-only", false, "Only write the TLA+ specification (translator -spec)")
	cmd.Flags().IntVar(&translateOpts.lineWidth, "line-width", 0, "Maximum width of translated lines")

	_ = cmd.RegisterFlagCompletionFunc("fairness", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"wf", "sf", "wfNext", "nof"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// toolArgs builds the translator command line: class, options, pass-through
// arguments, then the input file last.
func (o translateOptions) toolArgs(file string, passthrough []string) ([]string, error) {
	args := []string{translatorClass}

	if o.fairness != "" {
		flag, ok := fairnessFlags[strings.ToLower(o.fairness)]
		if !ok {
			return nil, fmt.Errorf("invalid --fairness %q (expected wf, sf, wfNext or nof)", o.fairness)
		}
		args = append(args, flag)
	}
	if o.termination {
		args = append(args, "-termination")
	}
	if o.noCfg {
		args = append(args, "-nocfg")
	}
	if o.label {
		args = append(args, "-label")
	}
	if o.specOnly {
		args = append(args, "-spec")
	}
	if o.lineWidth != 0 {
		if o.lineWidth < 0 {
			return nil, fmt.Errorf("invalid --line-width %d", o.lineWidth)
		}
		args = append(args, "-lineWidth", strconv.Itoa(o.lineWidth))
	}

	args = append(args, passthrough...)
	return append(args, file), nil
}

func runTranslate(cmd *cobra.Command, toolArgs []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	inv := invoke.New(root, configPath, logging.FromContext(cmd.Context()))
	inv.Runner = getRunner(cmd)
	return inv.Exec(cmd.Context(), toolArgs)
}

// positionalCount returns the number of arguments before "--".
func positionalCount(cmd *cobra.Command, args []string) int {
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		return dash
	}
	return len(args)
}

// splitAtDash separates FILE from the arguments after "--".
func splitAtDash(cmd *cobra.Command, args []string) (string, []string) {
	n := positionalCount(cmd, args)
	return args[0], args[n:]
}
