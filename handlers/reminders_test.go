// ABOUTME: Tests for reminder MCP tool handlers
// ABOUTME: Covers due/upcoming listing, lifecycle transitions, and bulk sync
package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/prm/db"
	"github.com/harperreed/prm/models"
)

func TestListDueRemindersHandler(t *testing.T) {
	database := setupTestDB(t)
	contactHandler := NewContactHandlers(database)
	handler := NewReminderHandlers(database)

	_, contact, err := contactHandler.AddContact(context.Background(), nil, AddContactInput{Name: "Alice"})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	contactID, err := uuid.Parse(contact.ID)
	if err != nil {
		t.Fatalf("Bad contact ID: %v", err)
	}

	// Force the reminder into the past so preferred-time pinning can't
	// push it later than now
	reminders, err := db.GetRemindersByContact(database, contactID)
	if err != nil {
		t.Fatalf("GetRemindersByContact failed: %v", err)
	}
	if len(reminders) == 0 {
		t.Fatal("Expected a scheduled reminder")
	}
	if _, err := db.RescheduleReminder(database, reminders[0].ID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("RescheduleReminder failed: %v", err)
	}

	_, output, err := handler.ListDueReminders(context.Background(), nil, ListDueRemindersInput{})
	if err != nil {
		t.Fatalf("ListDueReminders failed: %v", err)
	}
	if len(output.Reminders) != 1 {
		t.Fatalf("Expected 1 due reminder, got %d", len(output.Reminders))
	}
	if output.Reminders[0].ContactName != "Alice" {
		t.Errorf("Contact name not attached: %+v", output.Reminders[0])
	}
}

func TestCompleteReminderHandler(t *testing.T) {
	database := setupTestDB(t)
	contactHandler := NewContactHandlers(database)
	handler := NewReminderHandlers(database)

	_, contact, err := contactHandler.AddContact(context.Background(), nil, AddContactInput{Name: "Alice"})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	contactID, _ := uuid.Parse(contact.ID)
	reminders, err := db.GetRemindersByContact(database, contactID)
	if err != nil || len(reminders) == 0 {
		t.Fatalf("Expected a reminder: %v", err)
	}

	_, output, err := handler.CompleteReminder(context.Background(), nil, ReminderActionInput{
		ID: reminders[0].ID.String(),
	})
	if err != nil {
		t.Fatalf("CompleteReminder failed: %v", err)
	}
	if output.Status != models.StatusCompleted {
		t.Errorf("Expected completed, got %q", output.Status)
	}
	if output.CompletedAt == "" {
		t.Error("CompletedAt not set in output")
	}
}

func TestSnoozeReminderHandlerDefaultMinutes(t *testing.T) {
	database := setupTestDB(t)
	contactHandler := NewContactHandlers(database)
	handler := NewReminderHandlers(database)

	_, contact, err := contactHandler.AddContact(context.Background(), nil, AddContactInput{Name: "Alice"})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	contactID, _ := uuid.Parse(contact.ID)
	reminders, err := db.GetRemindersByContact(database, contactID)
	if err != nil || len(reminders) == 0 {
		t.Fatalf("Expected a reminder: %v", err)
	}

	_, output, err := handler.SnoozeReminder(context.Background(), nil, SnoozeReminderInput{
		ID: reminders[0].ID.String(),
	})
	if err != nil {
		t.Fatalf("SnoozeReminder failed: %v", err)
	}
	if output.Status != models.StatusSnoozed {
		t.Errorf("Expected snoozed, got %q", output.Status)
	}
}

func TestReminderHandlerNotFound(t *testing.T) {
	database := setupTestDB(t)
	handler := NewReminderHandlers(database)

	missing := uuid.New().String()
	if _, _, err := handler.CompleteReminder(context.Background(), nil, ReminderActionInput{ID: missing}); err == nil {
		t.Error("Expected error completing missing reminder")
	}
	if _, _, err := handler.DismissReminder(context.Background(), nil, ReminderActionInput{ID: missing}); err == nil {
		t.Error("Expected error dismissing missing reminder")
	}
}

func TestSyncRemindersHandler(t *testing.T) {
	database := setupTestDB(t)
	contactHandler := NewContactHandlers(database)
	handler := NewReminderHandlers(database)

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		if _, _, err := contactHandler.AddContact(context.Background(), nil, AddContactInput{Name: name}); err != nil {
			t.Fatalf("AddContact failed: %v", err)
		}
	}

	_, output, err := handler.SyncReminders(context.Background(), nil, SyncRemindersInput{})
	if err != nil {
		t.Fatalf("SyncReminders failed: %v", err)
	}
	if output.Synced != 3 {
		t.Errorf("Expected 3 contacts synced, got %d", output.Synced)
	}
}
