// ABOUTME: Recurring calendar-date reminders from contact birthdays/anniversaries
// ABOUTME: Computes yearly occurrences and upserts their reminders without duplicates
package schedule

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/prm/db"
	"github.com/harperreed/prm/models"
)

// Calendar reminders fire at 09:00 local time.
const calendarReminderHour = 9

// NextOccurrence returns the next yearly occurrence of an ISO date's
// month/day at 09:00 local. The date rolls to next year only when this
// year's occurrence is strictly in the past; on the day itself it stays.
func NextOccurrence(isoDate string, now time.Time) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", isoDate, err)
	}

	next := time.Date(now.Year(), parsed.Month(), parsed.Day(),
		calendarReminderHour, 0, 0, 0, now.Location())
	if next.Before(now) {
		next = time.Date(now.Year()+1, parsed.Month(), parsed.Day(),
			calendarReminderHour, 0, 0, 0, now.Location())
	}

	return next, nil
}

// SyncBirthdayReminder creates or reschedules the contact's yearly birthday
// reminder. No-op when the contact has no birthday set. An existing pending
// birthday reminder is updated in place rather than duplicated.
func SyncBirthdayReminder(database *sql.DB, contact *models.Contact, now time.Time) (*models.Reminder, error) {
	return syncCalendarReminder(database, contact, contact.Birthday, models.ReminderBirthday, now)
}

// SyncAnniversaryReminder is the anniversary counterpart of
// SyncBirthdayReminder.
func SyncAnniversaryReminder(database *sql.DB, contact *models.Contact, now time.Time) (*models.Reminder, error) {
	return syncCalendarReminder(database, contact, contact.Anniversary, models.ReminderAnniversary, now)
}

// SyncCalendarReminders refreshes both recurring calendar reminders for a
// contact. Used after contact create/edit so stored reminders track the
// contact's current dates.
func SyncCalendarReminders(database *sql.DB, contact *models.Contact, now time.Time) error {
	if _, err := SyncBirthdayReminder(database, contact, now); err != nil {
		return err
	}
	if _, err := SyncAnniversaryReminder(database, contact, now); err != nil {
		return err
	}
	return nil
}

func syncCalendarReminder(database *sql.DB, contact *models.Contact, isoDate, reminderType string, now time.Time) (*models.Reminder, error) {
	if isoDate == "" {
		return nil, nil
	}

	next, err := NextOccurrence(isoDate, now)
	if err != nil {
		return nil, err
	}

	existing, err := db.FindPendingReminderByType(database, contact.ID, reminderType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if _, err := db.RescheduleReminder(database, existing.ID, next); err != nil {
			return nil, fmt.Errorf("failed to reschedule %s reminder: %w", reminderType, err)
		}
		existing.ScheduledFor = next
		return existing, nil
	}

	reminder := &models.Reminder{
		ContactID:      contact.ID,
		Type:           reminderType,
		ScheduledFor:   next,
		ActionType:     models.ActionSendCard,
		IsRecurring:    true,
		RecurrenceRule: models.RecurrenceYearly,
	}
	if addr := contact.FirstAddress(); addr != nil {
		reminder.ActionData = map[string]any{"address": addr}
	}

	if err := db.CreateReminder(database, reminder); err != nil {
		return nil, fmt.Errorf("failed to create %s reminder: %w", reminderType, err)
	}
	return reminder, nil
}
