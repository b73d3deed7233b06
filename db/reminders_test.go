package db

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/prm/models"
)

func createTestReminder(t *testing.T, database *sql.DB, contactID uuid.UUID, scheduledFor time.Time) *models.Reminder {
	t.Helper()

	reminder := &models.Reminder{
		ContactID:    contactID,
		Type:         models.ReminderScheduledCall,
		ScheduledFor: scheduledFor,
		ActionType:   models.ActionCall,
		ActionData:   map[string]any{"phoneNumber": "+13125550100"},
		IsRecurring:  true,
	}
	if err := CreateReminder(database, reminder); err != nil {
		t.Fatalf("CreateReminder failed: %v", err)
	}
	return reminder
}

func TestCreateAndGetReminder(t *testing.T) {
	database := setupTestDB(t)

	contact := testContact("Alice")
	if err := CreateContact(database, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	reminder := createTestReminder(t, database, contact.ID, time.Now().AddDate(0, 0, 7))

	if reminder.Status != models.StatusPending {
		t.Errorf("Expected default pending status, got %q", reminder.Status)
	}

	got, err := GetReminder(database, reminder.ID)
	if err != nil {
		t.Fatalf("GetReminder failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetReminder returned nil")
	}
	if got.Type != models.ReminderScheduledCall || got.ActionType != models.ActionCall {
		t.Errorf("Round trip mismatch: %+v", got)
	}
	if got.ActionData["phoneNumber"] != "+13125550100" {
		t.Errorf("ActionData did not round trip: %v", got.ActionData)
	}
	if !got.IsRecurring {
		t.Error("IsRecurring did not round trip")
	}
}

func TestGetDueReminders(t *testing.T) {
	database := setupTestDB(t)

	contact := testContact("Alice")
	if err := CreateContact(database, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	now := time.Now()
	past := createTestReminder(t, database, contact.ID, now.Add(-time.Hour))
	future := createTestReminder(t, database, contact.ID, now.Add(time.Hour))

	due, err := GetDueReminders(database, now)
	if err != nil {
		t.Fatalf("GetDueReminders failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("Expected 1 due reminder, got %d", len(due))
	}
	if due[0].ID != past.ID {
		t.Errorf("Wrong reminder in due set: %s", due[0].ID)
	}
	_ = future
}

func TestSnoozedReminderReentersDueSet(t *testing.T) {
	database := setupTestDB(t)

	contact := testContact("Alice")
	if err := CreateContact(database, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	now := time.Now()
	reminder := createTestReminder(t, database, contact.ID, now.Add(-time.Hour))

	snoozed, err := SnoozeReminder(database, reminder.ID, 30, now)
	if err != nil {
		t.Fatalf("SnoozeReminder failed: %v", err)
	}
	if snoozed.Status != models.StatusSnoozed {
		t.Errorf("Expected snoozed status, got %q", snoozed.Status)
	}

	if !snoozed.ScheduledFor.Equal(now.Add(30 * time.Minute)) {
		t.Errorf("Expected snooze until %v, got %v", now.Add(30*time.Minute), snoozed.ScheduledFor)
	}

	// Not due now
	due, err := GetDueReminders(database, now)
	if err != nil {
		t.Fatalf("GetDueReminders failed: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("Snoozed reminder should not be due yet, got %d", len(due))
	}

	// Due once the snooze elapses
	due, err = GetDueReminders(database, now.Add(31*time.Minute))
	if err != nil {
		t.Fatalf("GetDueReminders failed: %v", err)
	}
	if len(due) != 1 {
		t.Errorf("Snoozed reminder should re-enter the due set, got %d", len(due))
	}
}

func TestCompleteReminderIdempotent(t *testing.T) {
	database := setupTestDB(t)

	contact := testContact("Alice")
	if err := CreateContact(database, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	now := time.Now()
	reminder := createTestReminder(t, database, contact.ID, now)

	first, err := CompleteReminder(database, reminder.ID, now)
	if err != nil {
		t.Fatalf("CompleteReminder failed: %v", err)
	}
	if first.Status != models.StatusCompleted {
		t.Errorf("Expected completed status, got %q", first.Status)
	}
	if first.CompletedAt == nil {
		t.Fatal("CompletedAt not set")
	}
	if !first.CompletedAt.Equal(now) {
		t.Errorf("Expected completion at %v, got %v", now, first.CompletedAt)
	}

	second, err := CompleteReminder(database, reminder.ID, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Second CompleteReminder failed: %v", err)
	}
	if second.CompletedAt == nil {
		t.Fatal("CompletedAt lost on second completion")
	}
	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Errorf("Completion time changed: %v vs %v", first.CompletedAt, second.CompletedAt)
	}

	// Completed reminders leave the outstanding set
	outstanding, err := GetOutstandingReminders(database)
	if err != nil {
		t.Fatalf("GetOutstandingReminders failed: %v", err)
	}
	if len(outstanding) != 0 {
		t.Errorf("Completed reminder still outstanding, got %d", len(outstanding))
	}
}

func TestCompleteReminderNotFound(t *testing.T) {
	database := setupTestDB(t)

	got, err := CompleteReminder(database, uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("CompleteReminder failed: %v", err)
	}
	if got != nil {
		t.Error("Expected nil for missing reminder")
	}
}

func TestDismissReminder(t *testing.T) {
	database := setupTestDB(t)

	contact := testContact("Alice")
	if err := CreateContact(database, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	reminder := createTestReminder(t, database, contact.ID, time.Now().Add(-time.Hour))

	dismissed, err := DismissReminder(database, reminder.ID)
	if err != nil {
		t.Fatalf("DismissReminder failed: %v", err)
	}
	if dismissed.Status != models.StatusDismissed {
		t.Errorf("Expected dismissed status, got %q", dismissed.Status)
	}
	if dismissed.CompletedAt != nil {
		t.Error("Dismiss must not stamp a completion time")
	}

	due, err := GetDueReminders(database, time.Now())
	if err != nil {
		t.Fatalf("GetDueReminders failed: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("Dismissed reminder still due, got %d", len(due))
	}
}

func TestMarkReminderTriggered(t *testing.T) {
	database := setupTestDB(t)

	contact := testContact("Alice")
	if err := CreateContact(database, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	reminder := createTestReminder(t, database, contact.ID, time.Now().Add(-time.Hour))

	found, err := MarkReminderTriggered(database, reminder.ID)
	if err != nil {
		t.Fatalf("MarkReminderTriggered failed: %v", err)
	}
	if !found {
		t.Fatal("MarkReminderTriggered reported not found")
	}

	// Triggered reminders are out of the due set until acted on
	due, err := GetDueReminders(database, time.Now())
	if err != nil {
		t.Fatalf("GetDueReminders failed: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("Triggered reminder still due, got %d", len(due))
	}
}

func TestFindPendingReminderByType(t *testing.T) {
	database := setupTestDB(t)

	contact := testContact("Alice")
	if err := CreateContact(database, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	reminder := createTestReminder(t, database, contact.ID, time.Now().AddDate(0, 0, 7))

	found, err := FindPendingReminderByType(database, contact.ID, models.ReminderScheduledCall)
	if err != nil {
		t.Fatalf("FindPendingReminderByType failed: %v", err)
	}
	if found == nil || found.ID != reminder.ID {
		t.Errorf("Expected to find reminder %s, got %v", reminder.ID, found)
	}

	// Completed reminders don't match
	if _, err := CompleteReminder(database, reminder.ID, time.Now()); err != nil {
		t.Fatalf("CompleteReminder failed: %v", err)
	}
	found, err = FindPendingReminderByType(database, contact.ID, models.ReminderScheduledCall)
	if err != nil {
		t.Fatalf("FindPendingReminderByType failed: %v", err)
	}
	if found != nil {
		t.Error("Completed reminder matched pending lookup")
	}
}

func TestGetUpcomingReminders(t *testing.T) {
	database := setupTestDB(t)

	contact := testContact("Alice")
	if err := CreateContact(database, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	now := time.Now()
	createTestReminder(t, database, contact.ID, now.Add(-time.Hour))        // already due, excluded
	inWindow := createTestReminder(t, database, contact.ID, now.AddDate(0, 0, 3))
	createTestReminder(t, database, contact.ID, now.AddDate(0, 0, 30)) // beyond window

	upcoming, err := GetUpcomingReminders(database, now, 7)
	if err != nil {
		t.Fatalf("GetUpcomingReminders failed: %v", err)
	}
	if len(upcoming) != 1 {
		t.Fatalf("Expected 1 upcoming reminder, got %d", len(upcoming))
	}
	if upcoming[0].ID != inWindow.ID {
		t.Errorf("Wrong reminder in upcoming set: %s", upcoming[0].ID)
	}
}

func TestRescheduleReminderPreservesStatus(t *testing.T) {
	database := setupTestDB(t)

	contact := testContact("Alice")
	if err := CreateContact(database, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	reminder := createTestReminder(t, database, contact.ID, time.Now())
	newTime := time.Now().AddDate(0, 0, 14)

	found, err := RescheduleReminder(database, reminder.ID, newTime)
	if err != nil {
		t.Fatalf("RescheduleReminder failed: %v", err)
	}
	if !found {
		t.Fatal("RescheduleReminder reported not found")
	}

	got, err := GetReminder(database, reminder.ID)
	if err != nil {
		t.Fatalf("GetReminder failed: %v", err)
	}
	if got.Status != models.StatusPending {
		t.Errorf("Reschedule changed status to %q", got.Status)
	}
	if !got.ScheduledFor.Truncate(time.Second).Equal(newTime.Truncate(time.Second)) {
		t.Errorf("ScheduledFor not updated: %v vs %v", got.ScheduledFor, newTime)
	}
	if got.ID != reminder.ID {
		t.Error("Reschedule changed the reminder identity")
	}
}
