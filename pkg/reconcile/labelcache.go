package reconcile

import (
	"context"
	"sync"

	"github.com/probelab/invctl/pkg/inventory"
)

// labelCache resolves label ids to names through the service, fetching
// each id at most once per run. Safe for concurrent use.
type labelCache struct {
	svc inventory.Service

	mu    sync.Mutex
	names map[int64]string
}

func newLabelCache(svc inventory.Service) *labelCache {
	return &labelCache{svc: svc, names: make(map[int64]string)}
}

func (c *labelCache) name(ctx context.Context, id int64) (string, error) {
	c.mu.Lock()
	if name, ok := c.names[id]; ok {
		c.mu.Unlock()
		return name, nil
	}
	c.mu.Unlock()

	name, err := c.svc.FetchLabelName(ctx, id)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.names[id] = name
	c.mu.Unlock()
	return name, nil
}
