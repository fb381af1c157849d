package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/khanhng/taskscope/internal/adapter/metrics"
	"github.com/khanhng/taskscope/internal/domain"
)

// SessionRepository implements domain.SessionRepository on Redis. Sessions
// are written by the auth collaborator as JSON principals under
// <prefix><token>; this service only reads them.
type SessionRepository struct {
	client  *redis.Client
	prefix  string
	logger  *slog.Logger
	metrics *metrics.ViewMetrics
}

// NewSessionRepository creates a new Redis session repository.
func NewSessionRepository(client *redis.Client, prefix string, logger *slog.Logger, m *metrics.ViewMetrics) *SessionRepository {
	return &SessionRepository{client: client, prefix: prefix, logger: logger, metrics: m}
}

// Lookup resolves a bearer token into a principal. Unknown and expired
// tokens both come back as domain.ErrUnauthorized; Redis handles expiry via
// key TTLs set by the auth collaborator.
func (r *SessionRepository) Lookup(ctx context.Context, token string) (*domain.Principal, error) {
	raw, err := r.client.Get(ctx, r.prefix+token).Result()
	if errors.Is(err, redis.Nil) {
		r.countLookup("miss")
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		r.countLookup("error")
		return nil, fmt.Errorf("session lookup: %w", err)
	}

	var principal domain.Principal
	if err := json.Unmarshal([]byte(raw), &principal); err != nil {
		r.countLookup("error")
		r.logger.Error("malformed session payload", "error", err)
		return nil, fmt.Errorf("decode session payload: %w", err)
	}
	if principal.ID == "" || !domain.ValidRole(principal.Role) {
		r.countLookup("miss")
		r.logger.Warn("session payload missing id or role", "principal_id", principal.ID, "role", principal.Role)
		return nil, domain.ErrUnauthorized
	}

	r.countLookup("ok")
	return &principal, nil
}

func (r *SessionRepository) countLookup(result string) {
	if r.metrics != nil {
		r.metrics.SessionLookups.WithLabelValues(result).Inc()
	}
}
