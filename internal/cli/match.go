package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"rig-mapper/internal/match"
	"rig-mapper/internal/tree"
)

// MatchOptions holds the match command flags.
type MatchOptions struct {
	Source string
	Target string
	Node   string
	Dump   bool
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{}

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Show how source nodes match a target hierarchy",
		Long: `Rank target candidates for every source node without changing anything.

A "*" marks matches above the acceptance threshold; those are used without
asking during a transfer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatch(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "source tree file")
	cmd.Flags().StringVarP(&opts.Target, "target", "t", "", "target tree file")
	cmd.Flags().StringVarP(&opts.Node, "node", "n", "", "only match this source path")
	cmd.Flags().BoolVar(&opts.Dump, "dump", false, "dump the full match results")

	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func runMatch(rootOpts *RootOptions, opts *MatchOptions, cmd *cobra.Command) error {
	cfg, _, err := rootOpts.load(cmd)
	if err != nil {
		return err
	}

	source, err := tree.Load(opts.Source)
	if err != nil {
		return err
	}

	target, err := tree.Load(opts.Target)
	if err != nil {
		return err
	}

	nodes := source.Descendants()

	if opts.Node != "" {
		n := source.Find(tree.ParsePath(opts.Node))
		if n == nil {
			return fmt.Errorf("source node %q not found", opts.Node)
		}

		nodes = []*tree.Node{n}
	}

	matcher := match.NewMatcher(cfg.MatcherConfig())
	out := cmd.OutOrStdout()

	if opts.Dump {
		dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, MaxDepth: 4, SortKeys: true}

		for _, n := range nodes {
			fmt.Fprintf(out, "%s:\n", display(n, source))
			dumper.Fdump(out, summarize(matcher.Match(n, source, target, nil)))
		}

		return nil
	}

	writeMatches(out, source, target, nodes, matcher)

	return nil
}

func writeMatches(w io.Writer, source, target *tree.Node, nodes []*tree.Node, matcher *match.Matcher) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tTARGET\tCONFIDENCE\tCANDIDATES")

	for _, n := range nodes {
		res := matcher.Match(n, source, target, nil)

		best := "-"
		if res.Target != nil {
			best = display(res.Target, target)

			if res.HighConfidence {
				best += " *"
			}
		}

		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\n", display(n, source), best, res.Confidence, len(res.Candidates))
	}

	_ = tw.Flush()
}

// display returns the path of n below root, "." for the root itself.
func display(n, root *tree.Node) string {
	p, _ := n.PathFrom(root)
	if p.IsRoot() {
		return "."
	}

	return p.String()
}

// candidateSummary drops node pointers, which would dump whole trees.
type candidateSummary struct {
	Path      string
	Score     float64
	NameScore float64
	Structure string
	Reason    string
}

type resultSummary struct {
	Confidence     float64
	HighConfidence bool
	Candidates     []candidateSummary
}

func summarize(res match.Result) resultSummary {
	out := resultSummary{Confidence: res.Confidence, HighConfidence: res.HighConfidence}

	for _, c := range res.Candidates {
		out.Candidates = append(out.Candidates, candidateSummary{
			Path:      c.Path.String(),
			Score:     c.Score,
			NameScore: c.NameScore,
			Structure: c.Structure.Compatibility.String(),
			Reason:    c.Structure.Reason,
		})
	}

	return out
}
