package process

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fswatch/internal/adapters/logger"
	"go.trai.ch/fswatch/internal/core/ports"
)

// NodeID is the unique identifier for the process spawner Graft node.
const NodeID graft.ID = "adapter.process"

func init() {
	graft.Register(graft.Node[ports.ProcessSpawner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ProcessSpawner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewSpawner(log), nil
		},
	})
}
