package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"rig-mapper/internal/decision"
	"rig-mapper/internal/resolve"
)

type inputResult struct {
	text string
	err  error
}

// Terminal asks for decisions on a line-oriented terminal.
//
// Lines are read by a background goroutine so that Prompt can return as soon
// as its context is done.
type Terminal struct {
	reader *bufio.Reader
	writer io.Writer

	startOnce sync.Once
	inputChan chan inputResult
}

// NewTerminal creates a Terminal reading from r and writing to w. Nil
// arguments default to os.Stdin and os.Stderr.
func NewTerminal(r io.Reader, w io.Writer) *Terminal {
	if r == nil {
		r = os.Stdin
	}

	if w == nil {
		w = os.Stderr
	}

	return &Terminal{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

func (t *Terminal) initPump() {
	t.startOnce.Do(func() {
		t.inputChan = make(chan inputResult)
		go t.pump()
	})
}

func (t *Terminal) pump() {
	defer close(t.inputChan)

	for {
		text, err := t.reader.ReadString('\n')
		if text != "" {
			t.inputChan <- inputResult{text: text}
		}

		if err != nil {
			if err != io.EOF {
				t.inputChan <- inputResult{err: err}
			}

			return
		}
	}
}

// Prompt prints req and reads answers until one is valid.
func (t *Terminal) Prompt(ctx context.Context, req resolve.Request) (decision.Decision, error) {
	t.initPump()
	t.render(req)

	for {
		fmt.Fprint(t.writer, "> ")

		line, err := t.readLine(ctx)
		if err != nil {
			return decision.Decision{}, err
		}

		d, err := parseAnswer(line, req)
		if err != nil {
			fmt.Fprintf(t.writer, "%v\n", err)
			continue
		}

		return d, nil
	}
}

func (t *Terminal) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-t.inputChan:
		if !ok {
			return "", fmt.Errorf("%w: input closed", ErrNoDecision)
		}

		if res.err != nil {
			return "", fmt.Errorf("failed to read answer: %w", res.err)
		}

		return strings.TrimSpace(res.text), nil
	}
}

func (t *Terminal) render(req resolve.Request) {
	var b strings.Builder

	fmt.Fprintf(&b, "\nNo match for %q", req.SourcePath.String())

	if req.TargetRoot != nil {
		fmt.Fprintf(&b, " in %s", req.TargetRoot.Name)
	}

	b.WriteString("\n")

	if req.PlacementHint != nil && req.TargetRoot != nil {
		if p, ok := req.PlacementHint.PathFrom(req.TargetRoot); ok {
			fmt.Fprintf(&b, "  new nodes go under: %s/%s\n", req.TargetRoot.Name, p)
		}
	}

	if len(req.Candidates) == 0 {
		b.WriteString("  no candidates\n")
	}

	for i, c := range req.Candidates {
		fmt.Fprintf(&b, "  %d) %-32s %3.0f%%  %s\n", i+1, c.Path.String(), c.Score*100, c.Structure.Reason)
	}

	b.WriteString("  c) create  s) skip  x) stop\n")

	fmt.Fprint(t.writer, b.String())
}

func parseAnswer(line string, req resolve.Request) (decision.Decision, error) {
	switch strings.ToLower(line) {
	case "c", "create":
		return decision.Create(), nil
	case "s", "skip":
		return decision.SkipNode(), nil
	case "x", "stop":
		return decision.StopRun(), nil
	}

	n, err := strconv.Atoi(line)
	if err != nil {
		return decision.Decision{}, fmt.Errorf("unknown answer %q", line)
	}

	if n < 1 || n > len(req.Candidates) {
		return decision.Decision{}, fmt.Errorf("no candidate %d", n)
	}

	return decision.Select(req.Candidates[n-1].Path), nil
}
