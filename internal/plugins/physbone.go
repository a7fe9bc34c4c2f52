package plugins

import (
	"context"
	"fmt"

	"rig-mapper/internal/transfer"
	"rig-mapper/internal/tree"
)

// Physics bone component kinds.
const (
	KindPhysBone         = "PhysBone"
	KindPhysBoneCollider = "PhysBoneCollider"
)

// physBoneColliders is the reference key listing the colliders of a bone.
const physBoneColliders = "colliders"

type physBoneSettings struct {
	Bones     bool `setting:"bones"`
	Colliders bool `setting:"colliders"`
}

// PhysBone copies physics bones and colliders, remapping their root,
// ignore and collider references.
type PhysBone struct {
	transfer.Base

	settings physBoneSettings
}

// NewPhysBone creates the physics bone plugin with both halves enabled.
func NewPhysBone() *PhysBone {
	return &PhysBone{
		Base:     transfer.NewBase("physbone", "Transfer physics bones and physics bone colliders"),
		settings: physBoneSettings{Bones: true, Colliders: true},
	}
}

func (p *PhysBone) Settings() []transfer.Setting {
	return []transfer.Setting{
		{Key: "bones", Description: "Transfer physics bones", Value: p.settings.Bones},
		{Key: "colliders", Description: "Transfer physics bone colliders", Value: p.settings.Colliders},
	}
}

func (p *PhysBone) ApplySettings(values map[string]any) error {
	s := p.settings
	if err := transfer.DecodeSettings(values, &s); err != nil {
		return fmt.Errorf("plugin %s: %w", p.Name(), err)
	}

	p.settings = s

	return nil
}

func (p *PhysBone) CanTransfer(sourceRoot, targetRoot *tree.Node) bool {
	if sourceRoot == nil || targetRoot == nil {
		return false
	}

	return hasFacet(sourceRoot, tree.ComponentKind(KindPhysBone)) ||
		hasFacet(sourceRoot, tree.ComponentKind(KindPhysBoneCollider))
}

func (p *PhysBone) ExecuteTransfer(ctx context.Context, env *transfer.Env, sourceRoot, targetRoot *tree.Node) bool {
	p.Begin(env, sourceRoot, targetRoot)

	success := true

	if p.settings.Bones {
		success = p.transfer(ctx, sourceRoot, KindPhysBone) && success
		if p.Stopped() {
			p.Logger().Warn("transfer stopped by user")
			return false
		}
	}

	if p.settings.Colliders {
		success = p.transfer(ctx, sourceRoot, KindPhysBoneCollider) && success
		if p.Stopped() {
			p.Logger().Warn("transfer stopped by user")
			return false
		}
	}

	return success
}

// transfer copies every component of kind found under sourceRoot.
func (p *PhysBone) transfer(ctx context.Context, sourceRoot *tree.Node, kind string) bool {
	success := true

	for _, node := range sourceRoot.Descendants() {
		if p.Stopped() {
			return false
		}

		comp := node.Component(kind)
		if comp == nil {
			continue
		}

		target := p.Resolve(ctx, node, true)
		if target == nil {
			p.Logger().Warn("no target for component", "node", node.Name, "component", kind)
			success = false

			continue
		}

		out := retarget(ctx, &p.Base, comp, func(key string) bool {
			return key != physBoneColliders
		})

		if kind == KindPhysBone && p.settings.Colliders {
			if colliders := comp.Refs[physBoneColliders]; len(colliders) > 0 {
				out.Refs[physBoneColliders] = p.colliders(ctx, colliders)
			}
		}

		target.SetFacet(out)
	}

	return success
}

// colliders maps collider nodes into the target tree and copies their
// collider components along.
func (p *PhysBone) colliders(ctx context.Context, refs []*tree.Node) []*tree.Node {
	var out []*tree.Node

	for _, ref := range refs {
		target := p.Resolve(ctx, ref, true)
		if target == nil {
			p.Logger().Warn("collider without target", "collider", ref.String())
			continue
		}

		if comp := ref.Component(KindPhysBoneCollider); comp != nil {
			target.SetFacet(retarget(ctx, &p.Base, comp, nil))
		}

		out = append(out, target)
	}

	return out
}
