// ABOUTME: Reminder database operations and lifecycle transitions
// ABOUTME: Handles CRUD, due/outstanding queries, complete/snooze/dismiss
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/prm/models"
)

func CreateReminder(db *sql.DB, reminder *models.Reminder) error {
	reminder.ID = uuid.New()
	reminder.CreatedAt = time.Now()
	if reminder.Status == "" {
		reminder.Status = models.StatusPending
	}

	actionData, err := marshalActionData(reminder.ActionData)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO reminders (id, contact_id, type, scheduled_for, status, action_type, action_data,
			is_recurring, recurrence_rule, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, reminder.ID.String(), reminder.ContactID.String(), reminder.Type, reminder.ScheduledFor,
		reminder.Status, reminder.ActionType, actionData, reminder.IsRecurring,
		nullIfEmpty(reminder.RecurrenceRule), reminder.CreatedAt, reminder.CompletedAt)

	return err
}

// UpsertReminder writes a reminder preserving its id, for the import path.
func UpsertReminder(db *sql.DB, reminder *models.Reminder) error {
	if reminder.ID == uuid.Nil {
		reminder.ID = uuid.New()
	}
	if reminder.Status == "" {
		reminder.Status = models.StatusPending
	}

	actionData, err := marshalActionData(reminder.ActionData)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO reminders (id, contact_id, type, scheduled_for, status, action_type, action_data,
			is_recurring, recurrence_rule, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			contact_id = excluded.contact_id,
			type = excluded.type,
			scheduled_for = excluded.scheduled_for,
			status = excluded.status,
			action_type = excluded.action_type,
			action_data = excluded.action_data,
			is_recurring = excluded.is_recurring,
			recurrence_rule = excluded.recurrence_rule,
			created_at = excluded.created_at,
			completed_at = excluded.completed_at
	`, reminder.ID.String(), reminder.ContactID.String(), reminder.Type, reminder.ScheduledFor,
		reminder.Status, reminder.ActionType, actionData, reminder.IsRecurring,
		nullIfEmpty(reminder.RecurrenceRule), reminder.CreatedAt, reminder.CompletedAt)

	return err
}

func GetReminder(db *sql.DB, id uuid.UUID) (*models.Reminder, error) {
	row := db.QueryRow(reminderSelect+` WHERE id = ?`, id.String())

	reminder, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

func GetAllReminders(db *sql.DB) ([]models.Reminder, error) {
	return queryReminders(db, reminderSelect+` ORDER BY scheduled_for`)
}

func GetRemindersByContact(db *sql.DB, contactID uuid.UUID) ([]models.Reminder, error) {
	return queryReminders(db,
		reminderSelect+` WHERE contact_id = ? ORDER BY scheduled_for`,
		contactID.String())
}

func GetPendingReminders(db *sql.DB) ([]models.Reminder, error) {
	return queryReminders(db,
		reminderSelect+` WHERE status = ? ORDER BY scheduled_for`,
		models.StatusPending)
}

// GetOutstandingReminders returns reminders still awaiting user action.
// Snoozed reminders are pending-equivalent and included.
func GetOutstandingReminders(db *sql.DB) ([]models.Reminder, error) {
	return queryReminders(db,
		reminderSelect+` WHERE status IN (?, ?) ORDER BY scheduled_for`,
		models.StatusPending, models.StatusSnoozed)
}

// GetDueReminders returns outstanding reminders whose scheduled time has
// passed. A snoozed reminder re-enters this set once its new time arrives.
func GetDueReminders(db *sql.DB, now time.Time) ([]models.Reminder, error) {
	return queryReminders(db,
		reminderSelect+` WHERE status IN (?, ?) AND scheduled_for <= ? ORDER BY scheduled_for`,
		models.StatusPending, models.StatusSnoozed, now)
}

// GetUpcomingReminders returns outstanding reminders scheduled within the
// next N days, soonest first.
func GetUpcomingReminders(db *sql.DB, now time.Time, days int) ([]models.Reminder, error) {
	future := now.AddDate(0, 0, days)
	return queryReminders(db,
		reminderSelect+` WHERE status IN (?, ?) AND scheduled_for > ? AND scheduled_for <= ? ORDER BY scheduled_for`,
		models.StatusPending, models.StatusSnoozed, now, future)
}

// FindPendingReminderByType returns the contact's pending reminder of the
// given type, or nil. The scheduling engine uses this to update in place
// rather than accumulate duplicates.
func FindPendingReminderByType(db *sql.DB, contactID uuid.UUID, reminderType string) (*models.Reminder, error) {
	row := db.QueryRow(
		reminderSelect+` WHERE contact_id = ? AND type = ? AND status = ? ORDER BY created_at LIMIT 1`,
		contactID.String(), reminderType, models.StatusPending)

	reminder, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

// RescheduleReminder updates only the reminder's scheduled time, preserving
// id, status, and action payload. Returns false when the reminder is missing.
func RescheduleReminder(db *sql.DB, id uuid.UUID, scheduledFor time.Time) (bool, error) {
	result, err := db.Exec(`UPDATE reminders SET scheduled_for = ? WHERE id = ?`,
		scheduledFor, id.String())
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// CompleteReminder marks the reminder completed and stamps completed_at.
// Completing an already-completed reminder is a no-op that preserves the
// original completion time. Returns nil when the reminder does not exist.
func CompleteReminder(db *sql.DB, id uuid.UUID, now time.Time) (*models.Reminder, error) {
	reminder, err := GetReminder(db, id)
	if err != nil || reminder == nil {
		return nil, err
	}
	if reminder.Status == models.StatusCompleted {
		return reminder, nil
	}

	_, err = db.Exec(`UPDATE reminders SET status = ?, completed_at = ? WHERE id = ?`,
		models.StatusCompleted, now, id.String())
	if err != nil {
		return nil, err
	}

	reminder.Status = models.StatusCompleted
	reminder.CompletedAt = &now
	return reminder, nil
}

// SnoozeReminder pushes the reminder out by the given number of minutes.
// Returns nil when the reminder does not exist.
func SnoozeReminder(db *sql.DB, id uuid.UUID, minutes int, now time.Time) (*models.Reminder, error) {
	reminder, err := GetReminder(db, id)
	if err != nil || reminder == nil {
		return nil, err
	}

	newScheduledFor := now.Add(time.Duration(minutes) * time.Minute)
	_, err = db.Exec(`UPDATE reminders SET status = ?, scheduled_for = ? WHERE id = ?`,
		models.StatusSnoozed, newScheduledFor, id.String())
	if err != nil {
		return nil, err
	}

	reminder.Status = models.StatusSnoozed
	reminder.ScheduledFor = newScheduledFor
	return reminder, nil
}

// DismissReminder marks the reminder dismissed. Terminal for this occurrence.
// Returns nil when the reminder does not exist.
func DismissReminder(db *sql.DB, id uuid.UUID) (*models.Reminder, error) {
	reminder, err := GetReminder(db, id)
	if err != nil || reminder == nil {
		return nil, err
	}

	_, err = db.Exec(`UPDATE reminders SET status = ? WHERE id = ?`,
		models.StatusDismissed, id.String())
	if err != nil {
		return nil, err
	}

	reminder.Status = models.StatusDismissed
	return reminder, nil
}

// MarkReminderTriggered records that the reminder was surfaced to the user,
// taking it out of the due set until acted on.
func MarkReminderTriggered(db *sql.DB, id uuid.UUID) (bool, error) {
	result, err := db.Exec(`UPDATE reminders SET status = ? WHERE id = ?`,
		models.StatusTriggered, id.String())
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func DeleteReminder(db *sql.DB, id uuid.UUID) (bool, error) {
	result, err := db.Exec(`DELETE FROM reminders WHERE id = ?`, id.String())
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

const reminderSelect = `
	SELECT id, contact_id, type, scheduled_for, status, action_type, action_data,
		is_recurring, recurrence_rule, created_at, completed_at
	FROM reminders`

func scanReminder(row rowScanner) (*models.Reminder, error) {
	reminder := &models.Reminder{}
	var idStr, contactIDStr string
	var actionData, recurrenceRule sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&idStr,
		&contactIDStr,
		&reminder.Type,
		&reminder.ScheduledFor,
		&reminder.Status,
		&reminder.ActionType,
		&actionData,
		&reminder.IsRecurring,
		&recurrenceRule,
		&reminder.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	reminder.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reminder ID: %w", err)
	}
	reminder.ContactID, err = uuid.Parse(contactIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contact ID: %w", err)
	}

	reminder.RecurrenceRule = recurrenceRule.String
	if completedAt.Valid {
		t := completedAt.Time
		reminder.CompletedAt = &t
	}

	if actionData.Valid && actionData.String != "" {
		if err := json.Unmarshal([]byte(actionData.String), &reminder.ActionData); err != nil {
			return nil, fmt.Errorf("failed to decode action data: %w", err)
		}
	}

	return reminder, nil
}

func queryReminders(db *sql.DB, query string, args ...any) ([]models.Reminder, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var reminders []models.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, *reminder)
	}

	return reminders, rows.Err()
}

func marshalActionData(data map[string]any) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode action data: %w", err)
	}
	return string(encoded), nil
}
