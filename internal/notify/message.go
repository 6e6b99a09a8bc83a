package notify

import (
	"fmt"
)

// ReminderBody renders the SMS text for an expiring subscription.
func ReminderBody(r Reminder) string {
	name := r.FirstName
	if name == "" {
		name = "there"
	}

	var when string
	switch {
	case r.DaysLeft <= 0:
		when = "today"
	case r.DaysLeft == 1:
		when = "tomorrow"
	default:
		when = fmt.Sprintf("in %d days", r.DaysLeft)
	}

	return fmt.Sprintf("Hi %s, your gym subscription ends %s (%s). Renew at the front desk to keep training.",
		name, when, r.EndDate.Format("2006-01-02"))
}
