package analytics

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusEndingSoon = "ending soon"
	StatusEnded      = "ended"
)

type UserStats struct {
	TotalActiveUsers int `json:"total_active_users"`
	TotalTrainers    int `json:"total_trainers"`
	TodayAttendance  int `json:"today_attendance"`
}

type TypeCount struct {
	Type       string `db:"type" json:"type"`
	Count      int    `db:"count" json:"count"`
	Percentage int    `db:"-" json:"percentage"`
}

type SubscriptionStats struct {
	TotalActiveSubscriptions int         `json:"total_active_subscriptions"`
	ByType                   []TypeCount `json:"by_type"`
}

type ProfitSummary struct {
	DailyProfit   int64 `json:"daily_profit"`
	WeeklyProfit  int64 `json:"weekly_profit"`
	MonthlyProfit int64 `json:"monthly_profit"`
}

// Expiring is a subscription whose end date falls on one of the looked-up days.
type Expiring struct {
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	DaysLeft    int       `db:"-" json:"days_left"`
	Status      string    `db:"-" json:"status"`
}

type DayCount struct {
	Day   string `db:"day" json:"day"`
	Count int    `db:"count" json:"count"`
}

type MonthProfit struct {
	Month  string `db:"month" json:"month"`
	Profit int64  `db:"profit" json:"profit"`
}
