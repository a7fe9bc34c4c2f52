package plugins

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"rig-mapper/internal/transfer"
	"rig-mapper/internal/tree"
)

// CopyFunc copies component src onto target. Node references must be
// mapped into the target tree through b.
type CopyFunc func(ctx context.Context, b *transfer.Base, src *tree.Component, target *tree.Node) error

// Descriptor tells a Components plugin how to copy one component type.
type Descriptor struct {
	Kind string
	// Copy defaults to CopyVerbatim.
	Copy CopyFunc
}

// Registry is an ordered set of component descriptors.
type Registry struct {
	descriptors []Descriptor
}

// NewRegistry creates a registry holding ds. It panics on invalid or
// duplicate descriptors.
func NewRegistry(ds ...Descriptor) *Registry {
	r := &Registry{}
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}

	return r
}

// Register adds d.
func (r *Registry) Register(d Descriptor) error {
	if d.Kind == "" {
		return errors.New("descriptor without kind")
	}

	if _, ok := r.Lookup(d.Kind); ok {
		return fmt.Errorf("component kind %q already registered", d.Kind)
	}

	if d.Copy == nil {
		d.Copy = CopyVerbatim
	}

	r.descriptors = append(r.descriptors, d)

	return nil
}

// Lookup returns the descriptor for kind.
func (r *Registry) Lookup(kind string) (Descriptor, bool) {
	for _, d := range r.descriptors {
		if d.Kind == kind {
			return d, true
		}
	}

	return Descriptor{}, false
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []string {
	out := make([]string, len(r.descriptors))
	for i, d := range r.descriptors {
		out[i] = d.Kind
	}

	return out
}

// CopyVerbatim copies properties as they are and maps every node reference
// into the target tree. References without a counterpart are dropped.
func CopyVerbatim(ctx context.Context, b *transfer.Base, src *tree.Component, target *tree.Node) error {
	if target == nil {
		return errors.New("nil target node")
	}

	target.SetFacet(retarget(ctx, b, src, nil))

	return nil
}

// retarget clones src with its references mapped through b. Reference keys
// rejected by keep are left out.
func retarget(ctx context.Context, b *transfer.Base, src *tree.Component, keep func(key string) bool) *tree.Component {
	out := &tree.Component{
		Type:  src.Type,
		Props: maps.Clone(src.Props),
		Refs:  make(map[string][]*tree.Node, len(src.Refs)),
	}

	for _, key := range src.RefKeys() {
		if keep != nil && !keep(key) {
			continue
		}

		mapped, ok := b.Retarget(ctx, src.Refs[key])
		if !ok {
			b.Logger().Warn("reference without target", "component", src.Type, "ref", key)
		}

		out.Refs[key] = mapped
	}

	return out
}

type componentSettings struct {
	// Skip lists component kinds left out of the transfer.
	Skip []string `setting:"skip"`
}

// Components copies every component whose kind is registered.
type Components struct {
	transfer.Base

	registry *Registry
	settings componentSettings
}

// NewComponents creates a component copier over registry.
func NewComponents(name, description string, registry *Registry) *Components {
	if registry == nil {
		registry = NewRegistry()
	}

	return &Components{
		Base:     transfer.NewBase(name, description),
		registry: registry,
	}
}

// Registry returns the descriptor registry.
func (p *Components) Registry() *Registry {
	return p.registry
}

func (p *Components) Settings() []transfer.Setting {
	return []transfer.Setting{
		{Key: "kinds", Description: "Supported component kinds (read only)", Value: p.registry.Kinds()},
		{Key: "skip", Description: "Component kinds to leave out", Value: slices.Clone(p.settings.Skip)},
	}
}

// ApplySettings replaces the settings.
func (p *Components) ApplySettings(values map[string]any) error {
	var s componentSettings
	if err := transfer.DecodeSettings(values, &s); err != nil {
		return fmt.Errorf("plugin %s: %w", p.Name(), err)
	}

	for _, kind := range s.Skip {
		if _, ok := p.registry.Lookup(kind); !ok {
			return fmt.Errorf("plugin %s: unknown component kind %q", p.Name(), kind)
		}
	}

	p.settings = s

	return nil
}

// handled returns the descriptors that apply to the components of n.
func (p *Components) handled(n *tree.Node) []Descriptor {
	var out []Descriptor

	for _, c := range n.Components() {
		if slices.Contains(p.settings.Skip, c.Type) {
			continue
		}

		if d, ok := p.registry.Lookup(c.Type); ok {
			out = append(out, d)
		}
	}

	return out
}

func (p *Components) CanTransfer(sourceRoot, targetRoot *tree.Node) bool {
	if sourceRoot == nil || targetRoot == nil {
		return false
	}

	found := false

	sourceRoot.Walk(func(n *tree.Node) bool {
		found = found || len(p.handled(n)) > 0
		return !found
	})

	return found
}

func (p *Components) ExecuteTransfer(ctx context.Context, env *transfer.Env, sourceRoot, targetRoot *tree.Node) bool {
	p.Begin(env, sourceRoot, targetRoot)

	success := true
	copied := 0

	for _, node := range sourceRoot.Descendants() {
		if p.Stopped() {
			p.Logger().Warn("transfer stopped by user")
			return false
		}

		descriptors := p.handled(node)
		if len(descriptors) == 0 {
			continue
		}

		target := p.Resolve(ctx, node, true)
		if target == nil {
			p.Logger().Warn("no target for components", "node", node.Name)
			success = false

			continue
		}

		for _, d := range descriptors {
			if err := d.Copy(ctx, &p.Base, node.Component(d.Kind), target); err != nil {
				p.Logger().Error("component copy failed", "node", node.Name, "component", d.Kind, "error", err)
				success = false

				continue
			}

			if p.Stopped() {
				return false
			}

			copied++
		}
	}

	p.Logger().Debug("components copied", "count", copied)

	return success
}
