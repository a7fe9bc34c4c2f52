package decision

import (
	"fmt"
	"strings"

	"rig-mapper/internal/tree"
)

//go:generate go tool stringer -type=ChoiceKind -linecomment -output=choice_string.go

// ChoiceKind is the kind of answer given for an unresolved node.
type ChoiceKind int

const (
	_ ChoiceKind = iota
	// SelectCandidate maps the node onto an existing target node.
	SelectCandidate // select
	// CreateNew creates a counterpart in the target tree.
	CreateNew // create
	// Skip leaves the node and its subtree untransferred.
	Skip // skip
	// Stop ends the whole run.
	Stop // stop
)

// ParseChoice parses the textual form of a ChoiceKind.
func ParseChoice(s string) (ChoiceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "select", "selectcandidate":
		return SelectCandidate, nil
	case "create", "createnew":
		return CreateNew, nil
	case "skip":
		return Skip, nil
	case "stop":
		return Stop, nil
	default:
		return 0, fmt.Errorf("unknown choice %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ChoiceKind) MarshalText() ([]byte, error) {
	if k < SelectCandidate || k > Stop {
		return nil, fmt.Errorf("invalid choice %d", int(k))
	}

	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ChoiceKind) UnmarshalText(text []byte) error {
	parsed, err := ParseChoice(string(text))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}

// Decision is a human answer for one source node.
type Decision struct {
	Choice ChoiceKind
	// SelectedPath is the chosen target node relative to its target root.
	// Only meaningful for SelectCandidate.
	SelectedPath tree.Path
}

// Select returns a SelectCandidate decision for path.
func Select(path tree.Path) Decision {
	return Decision{Choice: SelectCandidate, SelectedPath: path}
}

// Create returns a CreateNew decision.
func Create() Decision { return Decision{Choice: CreateNew} }

// SkipNode returns a Skip decision.
func SkipNode() Decision { return Decision{Choice: Skip} }

// StopRun returns a Stop decision.
func StopRun() Decision { return Decision{Choice: Stop} }

func (d Decision) String() string {
	if d.Choice == SelectCandidate {
		return fmt.Sprintf("%s %s", d.Choice, d.SelectedPath)
	}

	return d.Choice.String()
}
