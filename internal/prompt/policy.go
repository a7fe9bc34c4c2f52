package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"rig-mapper/internal/decision"
	"rig-mapper/internal/resolve"
	"rig-mapper/internal/tree"
)

// BestCandidate as the select value of a rule picks the top ranked candidate.
const BestCandidate = "best"

// Rule answers requests whose source path matches a glob.
type Rule struct {
	// Match is a doublestar glob over the slash separated source path.
	Match  string              `yaml:"match"`
	Choice decision.ChoiceKind `yaml:"choice"`
	// Select is the target path for select rules. Empty or "best" picks
	// the top candidate.
	Select string `yaml:"select,omitempty"`
}

// Policy answers requests from rules, first match wins.
type Policy struct {
	Rules []Rule `yaml:"rules"`
	// Default applies when no rule matches. Without it unmatched requests
	// fail with ErrNoDecision.
	Default *Rule `yaml:"default,omitempty"`
}

// LoadPolicy reads a policy file.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy: %w", err)
	}

	p, err := ParsePolicy(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// ParsePolicy parses and validates a YAML policy.
func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse policy: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate checks every rule.
func (p *Policy) Validate() error {
	var errs []error

	for i, r := range p.Rules {
		if r.Match == "" {
			errs = append(errs, fmt.Errorf("rule %d: missing match", i))
		} else if !doublestar.ValidatePattern(r.Match) {
			errs = append(errs, fmt.Errorf("rule %d: invalid pattern %q", i, r.Match))
		}

		if err := validateChoice(r); err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, err))
		}
	}

	if p.Default != nil {
		if err := validateChoice(*p.Default); err != nil {
			errs = append(errs, fmt.Errorf("default: %w", err))
		}
	}

	return errors.Join(errs...)
}

func validateChoice(r Rule) error {
	if r.Choice == 0 {
		return errors.New("missing choice")
	}

	if r.Select != "" && r.Choice != decision.SelectCandidate {
		return fmt.Errorf("select given for %s", r.Choice)
	}

	return nil
}

// Prompt answers req from the first matching rule.
func (p *Policy) Prompt(ctx context.Context, req resolve.Request) (decision.Decision, error) {
	if err := ctx.Err(); err != nil {
		return decision.Decision{}, err
	}

	source := req.SourcePath.String()

	for _, r := range p.Rules {
		ok, err := doublestar.Match(r.Match, source)
		if err != nil {
			return decision.Decision{}, fmt.Errorf("rule %q: %w", r.Match, err)
		}

		if ok {
			return r.decide(req)
		}
	}

	if p.Default != nil {
		return p.Default.decide(req)
	}

	return decision.Decision{}, fmt.Errorf("%w: no rule matches %s", ErrNoDecision, source)
}

func (r Rule) decide(req resolve.Request) (decision.Decision, error) {
	if r.Choice != decision.SelectCandidate {
		return decision.Decision{Choice: r.Choice}, nil
	}

	if r.Select != "" && r.Select != BestCandidate {
		return decision.Select(tree.ParsePath(r.Select)), nil
	}

	if len(req.Candidates) == 0 {
		return decision.Decision{}, fmt.Errorf("%w: no candidates for %s", ErrNoDecision, req.SourcePath)
	}

	return decision.Select(req.Candidates[0].Path), nil
}
