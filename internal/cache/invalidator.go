package cache

import (
	"context"

	"github.com/Abduqodir7007/fitness-crm/internal/logger"

	"github.com/google/uuid"
)

// Invalidator drops every aggregate cached for a gym. Failures are logged;
// the entries then age out by TTL.
type Invalidator struct {
	store Store
	keys  Keys
}

func NewInvalidator(store Store, keys Keys) *Invalidator {
	return &Invalidator{store: store, keys: keys}
}

func (i *Invalidator) Invalidate(ctx context.Context, tenantID uuid.UUID) {
	if i == nil || i.store == nil {
		return
	}
	if err := i.store.Delete(ctx, i.keys.ForTenant(tenantID)...); err != nil {
		logger.WithError(err).Warn("cache invalidation failed", "tenant_id", tenantID)
	}
}
