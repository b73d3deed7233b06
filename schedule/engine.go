// ABOUTME: Staleness and scheduling engine for contact check-in reminders
// ABOUTME: Computes overdue state and next-due dates, keeps reminders in sync
package schedule

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/prm/db"
	"github.com/harperreed/prm/models"
)

// IsOverdue reports whether the contact's configured cadence has lapsed.
// A contact with reminders disabled is never overdue. A contact that has
// never been contacted is always overdue. Otherwise overdue means strictly
// more days have passed than the configured interval; hitting the interval
// exactly is not overdue.
func IsOverdue(database *sql.DB, contact *models.Contact, now time.Time) (bool, error) {
	if !contact.Reminders.Enabled {
		return false, nil
	}

	daysSince, err := db.DaysSinceLastInteraction(database, contact.ID, now)
	if err != nil {
		return false, err
	}
	if daysSince == nil {
		return true, nil
	}

	return *daysSince > intervalDays(contact), nil
}

// NextReminderDate computes when the contact should next be prompted.
// Returns nil when reminders are disabled. A contact with no interaction
// history, or one already at or past its interval, is due immediately.
func NextReminderDate(database *sql.DB, contact *models.Contact, now time.Time) (*time.Time, error) {
	if !contact.Reminders.Enabled {
		return nil, nil
	}

	daysSince, err := db.DaysSinceLastInteraction(database, contact.ID, now)
	if err != nil {
		return nil, err
	}

	interval := intervalDays(contact)

	var next time.Time
	if daysSince == nil || *daysSince >= interval {
		next = now
	} else {
		next = now.AddDate(0, 0, interval-*daysSince)
	}

	next = applyPreferredTime(next, contact.Reminders.PreferredTime)
	return &next, nil
}

// SyncContactReminder recomputes the contact's next-due date and persists it.
// The existing pending scheduled_call reminder is updated in place (keeping
// id, status, and action payload) so at most one pending scheduled_call
// exists per contact; one is created when none exists. No-op when the
// contact is missing. Disabling reminders dismisses any pending
// scheduled_call so it stops surfacing.
func SyncContactReminder(database *sql.DB, contactID uuid.UUID, now time.Time) (*models.Reminder, error) {
	contact, err := db.GetContact(database, contactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, nil
	}
	if !contact.Reminders.Enabled {
		return nil, dismissPendingCheckIn(database, contactID)
	}

	next, err := NextReminderDate(database, contact, now)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, nil
	}

	existing, err := db.FindPendingReminderByType(database, contactID, models.ReminderScheduledCall)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if _, err := db.RescheduleReminder(database, existing.ID, *next); err != nil {
			return nil, fmt.Errorf("failed to reschedule reminder: %w", err)
		}
		existing.ScheduledFor = *next
		return existing, nil
	}

	reminder := &models.Reminder{
		ContactID:    contactID,
		Type:         models.ReminderScheduledCall,
		ScheduledFor: *next,
		ActionType:   models.ActionCall,
		IsRecurring:  true,
	}
	if phone := contact.PrimaryPhone(); phone != "" {
		reminder.ActionData = map[string]any{"phoneNumber": phone}
	}

	if err := db.CreateReminder(database, reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return reminder, nil
}

// MarkContacted is the compound reset-the-cycle operation: it logs an
// outgoing interaction stamped now, then recomputes and persists the
// contact's scheduled reminder. The reminder is never updated without the
// interaction having been written first.
func MarkContacted(database *sql.DB, contactID uuid.UUID, now time.Time) (*models.Interaction, *models.Reminder, error) {
	contact, err := db.GetContact(database, contactID)
	if err != nil {
		return nil, nil, err
	}
	if contact == nil {
		return nil, nil, nil
	}

	interaction := &models.Interaction{
		ContactID: contactID,
		Type:      models.InteractionOther,
		Direction: models.DirectionOutgoing,
		Timestamp: now,
		Source:    models.SourceManual,
	}
	if err := db.LogInteraction(database, interaction); err != nil {
		return nil, nil, fmt.Errorf("failed to log interaction: %w", err)
	}

	reminder, err := SyncContactReminder(database, contactID, now)
	if err != nil {
		return interaction, nil, fmt.Errorf("interaction logged but reminder sync failed: %w", err)
	}

	return interaction, reminder, nil
}

func dismissPendingCheckIn(database *sql.DB, contactID uuid.UUID) error {
	existing, err := db.FindPendingReminderByType(database, contactID, models.ReminderScheduledCall)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	if _, err := db.DismissReminder(database, existing.ID); err != nil {
		return fmt.Errorf("failed to dismiss reminder: %w", err)
	}
	return nil
}

func intervalDays(contact *models.Contact) int {
	interval := contact.Reminders.IntervalDays
	if interval < 1 {
		interval = 1
	}
	return interval
}

// applyPreferredTime pins the time-of-day to the "HH:MM" preference with
// seconds zeroed. An unset or malformed preference leaves the time as
// computed.
func applyPreferredTime(t time.Time, preferred string) time.Time {
	if preferred == "" {
		return t
	}

	parsed, err := time.Parse("15:04", preferred)
	if err != nil {
		return t
	}

	return time.Date(t.Year(), t.Month(), t.Day(), parsed.Hour(), parsed.Minute(), 0, 0, t.Location())
}
