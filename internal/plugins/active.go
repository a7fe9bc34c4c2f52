package plugins

import (
	"context"

	"rig-mapper/internal/transfer"
	"rig-mapper/internal/tree"
)

// ActiveState copies the Active flag of every source node.
type ActiveState struct {
	transfer.Base
}

// NewActiveState creates the active-state plugin.
func NewActiveState() *ActiveState {
	return &ActiveState{Base: transfer.NewBase("active", "Sync the active flag of every node")}
}

func (p *ActiveState) CanTransfer(sourceRoot, targetRoot *tree.Node) bool {
	return sourceRoot != nil && targetRoot != nil
}

// ExecuteTransfer resolves every source node. Nodes without a counterpart
// are left alone and do not fail the transfer.
func (p *ActiveState) ExecuteTransfer(ctx context.Context, env *transfer.Env, sourceRoot, targetRoot *tree.Node) bool {
	p.Begin(env, sourceRoot, targetRoot)

	synced := 0

	for _, node := range sourceRoot.Descendants() {
		if p.Stopped() {
			p.Logger().Warn("transfer stopped by user")
			return false
		}

		target := p.Resolve(ctx, node, true)
		if target == nil || target.Active == node.Active {
			continue
		}

		target.Active = node.Active
		synced++
	}

	p.Logger().Debug("active state synced", "changed", synced)

	return !p.Stopped()
}
