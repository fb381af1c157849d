package orgcache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/khanhng/taskscope/internal/adapter/metrics"
	"github.com/khanhng/taskscope/internal/domain"
)

// Cache is a read-through cache of the organization hierarchy. One writer
// rebuilds the tree on a fixed interval or on explicit invalidation; readers
// take an immutable snapshot pointer and never block on a rebuild, except for
// the first cold load. A rebuild that produces a malformed tree keeps the
// previous snapshot.
type Cache struct {
	repo    domain.OrgUnitRepository
	logger  *slog.Logger
	metrics *metrics.ViewMetrics

	mu   sync.RWMutex // guards tree
	tree *domain.OrgTree

	rebuildMu sync.Mutex // serializes rebuilds (single writer)
}

// NewCache creates a new hierarchy cache. No units are loaded until the first
// Snapshot call or an explicit Warm.
func NewCache(repo domain.OrgUnitRepository, logger *slog.Logger, m *metrics.ViewMetrics) *Cache {
	return &Cache{repo: repo, logger: logger, metrics: m}
}

// Snapshot returns the current tree. Cold loads block until the first
// rebuild finishes; afterwards readers always get the latest complete
// snapshot without waiting for in-flight rebuilds.
func (c *Cache) Snapshot(ctx context.Context) (*domain.OrgTree, error) {
	c.mu.RLock()
	tree := c.tree
	c.mu.RUnlock()
	if tree != nil {
		return tree, nil
	}

	c.rebuildMu.Lock()
	defer c.rebuildMu.Unlock()

	// Another caller may have finished the cold load while we waited.
	c.mu.RLock()
	tree = c.tree
	c.mu.RUnlock()
	if tree != nil {
		return tree, nil
	}

	if err := c.rebuildLocked(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree, nil
}

// Warm performs the initial load so the first request does not pay for it.
func (c *Cache) Warm(ctx context.Context) error {
	_, err := c.Snapshot(ctx)
	return err
}

// Invalidate forces a rebuild of the snapshot, e.g. after the admin
// collaborator changes the hierarchy.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.rebuild(ctx)
}

// Start runs the periodic rebuild loop until ctx is cancelled. Rebuild
// failures are logged and counted; the previous snapshot keeps serving.
func (c *Cache) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.rebuild(ctx); err != nil {
				c.logger.Error("hierarchy rebuild failed, keeping previous snapshot", "error", err)
			}
		}
	}
}

func (c *Cache) rebuild(ctx context.Context) error {
	c.rebuildMu.Lock()
	defer c.rebuildMu.Unlock()
	return c.rebuildLocked(ctx)
}

func (c *Cache) rebuildLocked(ctx context.Context) error {
	units, err := c.repo.ListUnits(ctx)
	if err != nil {
		c.countRebuild("error")
		return fmt.Errorf("list organization units: %w", err)
	}

	tree, err := domain.BuildOrgTree(units)
	if err != nil {
		c.countRebuild("error")
		return fmt.Errorf("build organization tree: %w", err)
	}

	c.mu.Lock()
	c.tree = tree
	c.mu.Unlock()

	c.countRebuild("ok")
	c.logger.Debug("hierarchy snapshot rebuilt", "units", tree.Size())
	return nil
}

func (c *Cache) countRebuild(result string) {
	if c.metrics != nil {
		c.metrics.HierarchyRebuilds.WithLabelValues(result).Inc()
	}
}
