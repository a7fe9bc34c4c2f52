package plugins

import (
	"context"

	"rig-mapper/internal/transfer"
	"rig-mapper/internal/tree"
)

// MorphWeights copies blend shape weights onto shapes of the same name.
type MorphWeights struct {
	transfer.Base
}

// NewMorphWeights creates the morph weight plugin.
func NewMorphWeights() *MorphWeights {
	return &MorphWeights{Base: transfer.NewBase("morphs", "Transfer morph (blend shape) weights by shape name")}
}

func (p *MorphWeights) CanTransfer(sourceRoot, targetRoot *tree.Node) bool {
	return targetRoot != nil && hasFacet(sourceRoot, tree.KindMorphWeights)
}

func (p *MorphWeights) ExecuteTransfer(ctx context.Context, env *transfer.Env, sourceRoot, targetRoot *tree.Node) bool {
	p.Begin(env, sourceRoot, targetRoot)

	success := true

	for _, node := range sourceRoot.Descendants() {
		if p.Stopped() {
			p.Logger().Warn("transfer stopped by user")
			return false
		}

		f, ok := node.Facet(tree.KindMorphWeights)
		if !ok {
			continue
		}

		src := f.(*tree.MorphWeights)

		target := p.Resolve(ctx, node, true)
		if target == nil {
			p.Logger().Warn("no target for morph weights", "node", node.Name)
			success = false

			continue
		}

		tf, ok := target.Facet(tree.KindMorphWeights)
		if !ok {
			p.Logger().Warn("target has no morph weights", "node", node.Name, "target_node", target.Name)
			success = false

			continue
		}

		dst := tf.(*tree.MorphWeights)

		transferred := 0
		for _, shape := range src.Shapes {
			if dst.SetWeight(shape.Name, shape.Weight) {
				transferred++
			}
		}

		if transferred == 0 && len(src.Shapes) > 0 {
			p.Logger().Warn("no shape names in common", "node", node.Name)
		}
	}

	return success
}

// hasFacet reports whether any node under root carries a facet of kind.
func hasFacet(root *tree.Node, kind string) bool {
	found := false

	root.Walk(func(n *tree.Node) bool {
		if _, ok := n.Facet(kind); ok {
			found = true
		}

		return !found
	})

	return found
}
