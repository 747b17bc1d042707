package scheduler

import (
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/models"
)

// Reminder cadence, in days relative to the due date. PENDING invoices get a single
// heads-up before the due date; OVERDUE invoices get escalating nudges after it.
const pendingReminderOffset = -3

var overdueReminderOffsets = map[int]bool{1: true, 5: true, 10: true}

// Eligible decides whether a reminder is owed for the invoice on the given day.
// Pure: no side effects, no clock access. This function encodes the business's
// entire notification cadence.
//
// Rules, in order:
//  1. at most one reminder per invoice per calendar day (dedup set);
//  2. PENDING: exactly 3 days before the due date;
//  3. OVERDUE: 1, 5 or 10 days past the due date;
//  4. any other status never gets reminders.
func Eligible(inv models.Invoice, today time.Time) bool {
	if inv.ReminderSentDates.Contains(today) {
		return false
	}

	daysPastDue := models.DaysBetween(inv.DueDate, today)

	switch inv.Status {
	case models.StatusPending:
		return daysPastDue == pendingReminderOffset
	case models.StatusOverdue:
		return overdueReminderOffsets[daysPastDue]
	default:
		return false
	}
}
