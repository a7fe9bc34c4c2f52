package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"rig-mapper/internal/plugins"
	"rig-mapper/internal/prompt"
	"rig-mapper/internal/resolve"
	"rig-mapper/internal/transfer"
	"rig-mapper/internal/tree"
)

// TransferOptions holds the transfer command flags.
type TransferOptions struct {
	Source      string
	Targets     []string
	Policy      string
	Interactive bool
	OutDir      string
	DryRun      bool
}

// NewTransferCommand creates the transfer command.
func NewTransferCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransferOptions{}

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Copy rig data from a source hierarchy onto target hierarchies",
		Long: `Run every enabled plugin over each target in order.

Unresolved nodes are answered by --policy rules first, then on the terminal
when --interactive is set. Without either they are left out.

Targets are rewritten in place unless --out names a directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runTransfer(ctx, rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "source tree file")
	cmd.Flags().StringArrayVarP(&opts.Targets, "target", "t", nil, "target tree file (repeatable)")
	cmd.Flags().StringVarP(&opts.Policy, "policy", "p", "", "decision policy file")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "ask on the terminal for unresolved nodes")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "write targets to this directory")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "do not write targets")

	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func runTransfer(ctx context.Context, rootOpts *RootOptions, opts *TransferOptions, cmd *cobra.Command) error {
	cfg, logger, err := rootOpts.load(cmd)
	if err != nil {
		return err
	}

	source, err := tree.Load(opts.Source)
	if err != nil {
		return err
	}

	targets := make([]*tree.Node, 0, len(opts.Targets))

	for _, path := range opts.Targets {
		t, err := tree.Load(path)
		if err != nil {
			return err
		}

		targets = append(targets, t)
	}

	prompter, err := buildPrompter(opts, cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	exec := transfer.NewExecutor(plugins.Default(),
		transfer.WithPrompter(prompter),
		transfer.WithLogger(logger),
		transfer.WithMatchConfig(cfg.MatcherConfig()),
	)

	if err := cfg.ApplyPlugins(exec); err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()

	report := exec.Run(ctx, source, targets, func(p transfer.Progress) {
		fmt.Fprintf(errOut, "[%d/%d] %3.0f%% %s\n", p.ProcessedSteps, p.TotalSteps, p.Progress*100, p.Message)
	})

	printReport(cmd.OutOrStdout(), &report)

	switch report.Outcome {
	case transfer.OutcomeNothingToDo, transfer.OutcomeCancelled:
	default:
		if !opts.DryRun {
			if err := writeTargets(opts, targets); err != nil {
				return err
			}
		}
	}

	if !report.Success {
		return fmt.Errorf("transfer %s", report.Outcome)
	}

	return nil
}

func buildPrompter(opts *TransferOptions, in io.Reader, out io.Writer) (resolve.Prompter, error) {
	var chain prompt.Chain

	if opts.Policy != "" {
		policy, err := prompt.LoadPolicy(opts.Policy)
		if err != nil {
			return nil, err
		}

		chain = append(chain, policy)
	}

	if opts.Interactive {
		chain = append(chain, prompt.NewTerminal(in, out))
	}

	if len(chain) == 0 {
		return nil, nil
	}

	return chain, nil
}

func writeTargets(opts *TransferOptions, targets []*tree.Node) error {
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	for i, t := range targets {
		path := opts.Targets[i]
		if opts.OutDir != "" {
			path = filepath.Join(opts.OutDir, filepath.Base(path))
		}

		if err := tree.WriteFile(t, path); err != nil {
			return err
		}
	}

	return nil
}

func printReport(w io.Writer, report *transfer.Report) {
	fmt.Fprintf(w, "run %s: %s\n", report.RunID, report.Outcome)

	for _, p := range report.Failed() {
		if p.Err != nil {
			fmt.Fprintf(w, "  FAIL %s/%s: %v\n", p.Target, p.Plugin, p.Err)
			continue
		}

		fmt.Fprintf(w, "  FAIL %s/%s\n", p.Target, p.Plugin)
	}

	for _, d := range report.Diagnostics.All() {
		fmt.Fprintf(w, "  %s\n", d.String())
	}
}
