package plugins

import (
	"context"

	"rig-mapper/internal/transfer"
	"rig-mapper/internal/tree"
)

// Materials overwrites the material slots of every matched node.
type Materials struct {
	transfer.Base
}

// NewMaterials creates the material plugin.
func NewMaterials() *Materials {
	return &Materials{Base: transfer.NewBase("materials", "Transfer renderer material slots")}
}

func (p *Materials) CanTransfer(sourceRoot, targetRoot *tree.Node) bool {
	return targetRoot != nil && hasFacet(sourceRoot, tree.KindMaterials)
}

func (p *Materials) ExecuteTransfer(ctx context.Context, env *transfer.Env, sourceRoot, targetRoot *tree.Node) bool {
	p.Begin(env, sourceRoot, targetRoot)

	success := true

	for _, node := range sourceRoot.Descendants() {
		if p.Stopped() {
			p.Logger().Warn("transfer stopped by user")
			return false
		}

		f, ok := node.Facet(tree.KindMaterials)
		if !ok {
			continue
		}

		target := p.Resolve(ctx, node, true)
		if target == nil {
			p.Logger().Warn("no target for materials", "node", node.Name)
			success = false

			continue
		}

		target.SetFacet(f.CloneFacet())
	}

	return success
}
