package cache

import "github.com/google/uuid"

// Cached dashboard views. The names appear in keys and in metric labels.
const (
	ViewWeeklyVisits  = "weekly_visits"
	ViewMonthlyProfit = "monthly_profit"
)

// Keys builds per-gym cache keys under a common prefix. The zero gym id maps
// to the named global key used by single-gym deployments.
type Keys struct {
	Prefix string
}

func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = "fitness_crm"
	}
	return Keys{Prefix: prefix}
}

func (k Keys) key(view string, tenantID uuid.UUID) string {
	if tenantID == uuid.Nil {
		return k.Prefix + ":" + view
	}
	return k.Prefix + ":" + view + ":" + tenantID.String()
}

func (k Keys) WeeklyVisits(tenantID uuid.UUID) string {
	return k.key(ViewWeeklyVisits, tenantID)
}

func (k Keys) MonthlyProfit(tenantID uuid.UUID) string {
	return k.key(ViewMonthlyProfit, tenantID)
}

// ForTenant lists every key held for the gym.
func (k Keys) ForTenant(tenantID uuid.UUID) []string {
	return []string{k.WeeklyVisits(tenantID), k.MonthlyProfit(tenantID)}
}
