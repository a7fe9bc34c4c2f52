package plugins

import (
	"context"
	"errors"

	"rig-mapper/internal/transfer"
	"rig-mapper/internal/tree"
)

// Component kinds handled by the stock plugins.
const (
	KindParentConstraint   = "ParentConstraint"
	KindRotationConstraint = "RotationConstraint"
	KindPositionConstraint = "PositionConstraint"
	KindAimConstraint      = "AimConstraint"

	KindParticleSystem         = "ParticleSystem"
	KindParticleSystemRenderer = "ParticleSystemRenderer"

	KindAnimator = "Animator"

	KindMenuItem      = "MenuItem"
	KindMergeArmature = "MergeArmature"
	KindBoneProxy     = "BoneProxy"
)

const (
	// constraintSources holds the driving nodes of a constraint.
	constraintSources = "sources"
	// constraintWeights is the property holding one weight per source.
	constraintWeights = "weights"
)

// NewConstraints creates the constraint copier.
func NewConstraints() *Components {
	return NewComponents("constraints", "Transfer parent, rotation, position and aim constraints",
		NewRegistry(
			Descriptor{Kind: KindParentConstraint, Copy: CopyConstraint},
			Descriptor{Kind: KindRotationConstraint, Copy: CopyConstraint},
			Descriptor{Kind: KindPositionConstraint, Copy: CopyConstraint},
			Descriptor{Kind: KindAimConstraint, Copy: CopyConstraint},
		))
}

// NewParticles creates the particle system copier.
func NewParticles() *Components {
	return NewComponents("particles", "Transfer particle systems and their renderers",
		NewRegistry(
			Descriptor{Kind: KindParticleSystem},
			Descriptor{Kind: KindParticleSystemRenderer},
		))
}

// NewAnimator creates the animator copier.
func NewAnimator() *Components {
	return NewComponents("animator", "Transfer animator components",
		NewRegistry(Descriptor{Kind: KindAnimator}))
}

// NewAvatarTags creates the copier for avatar tag components.
func NewAvatarTags() *Components {
	return NewComponents("avatar-tags", "Transfer avatar tag components (menu items, armature merges, bone proxies)",
		NewRegistry(
			Descriptor{Kind: KindMenuItem},
			Descriptor{Kind: KindMergeArmature},
			Descriptor{Kind: KindBoneProxy},
		))
}

// Default returns the stock plugins in execution order.
func Default() []transfer.Plugin {
	return []transfer.Plugin{
		NewPhysBone(),
		NewMaterials(),
		NewMorphWeights(),
		NewConstraints(),
		NewParticles(),
		NewActiveState(),
		NewAnimator(),
		NewAvatarTags(),
	}
}

// CopyConstraint copies a constraint, mapping its sources into the target
// tree. Sources without a counterpart are dropped together with their
// weight.
func CopyConstraint(ctx context.Context, b *transfer.Base, src *tree.Component, target *tree.Node) error {
	if target == nil {
		return errors.New("nil target node")
	}

	out := retarget(ctx, b, src, func(key string) bool { return key != constraintSources })

	weights, hasWeights := asList(src.Props[constraintWeights])

	var (
		sources []*tree.Node
		kept    []any
	)

	for i, s := range src.Refs[constraintSources] {
		mapped := b.Resolve(ctx, s, true)
		if mapped == nil {
			b.Logger().Warn("constraint source without target", "component", src.Type, "source", s.String())
			continue
		}

		sources = append(sources, mapped)

		if hasWeights && i < len(weights) {
			kept = append(kept, weights[i])
		}
	}

	if len(src.Refs[constraintSources]) > 0 {
		out.Refs[constraintSources] = sources
	}

	if hasWeights {
		out.Props[constraintWeights] = kept
	}

	target.SetFacet(out)

	return nil
}

// asList converts YAML and Go number lists to []any.
func asList(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		return list, true
	case []float64:
		out := make([]any, len(list))
		for i, f := range list {
			out[i] = f
		}

		return out, true
	default:
		return nil, false
	}
}
