// ABOUTME: Reminder MCP tool handlers
// ABOUTME: Implements due/upcoming listing, lifecycle transitions, and bulk sync
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/prm/db"
	"github.com/harperreed/prm/models"
	"github.com/harperreed/prm/schedule"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ReminderHandlers struct {
	db *sql.DB
}

func NewReminderHandlers(database *sql.DB) *ReminderHandlers {
	return &ReminderHandlers{db: database}
}

type ReminderOutput struct {
	ID           string `json:"id"`
	ContactID    string `json:"contact_id"`
	ContactName  string `json:"contact_name,omitempty"`
	Type         string `json:"type"`
	ScheduledFor string `json:"scheduled_for"`
	Status       string `json:"status"`
	ActionType   string `json:"action_type"`
	IsRecurring  bool   `json:"is_recurring"`
	CompletedAt  string `json:"completed_at,omitempty"`
}

type ListDueRemindersInput struct{}

type ListRemindersOutput struct {
	Reminders []ReminderOutput `json:"reminders"`
}

func (h *ReminderHandlers) ListDueReminders(_ context.Context, request *mcp.CallToolRequest, input ListDueRemindersInput) (*mcp.CallToolResult, ListRemindersOutput, error) {
	due, err := db.GetDueReminders(h.db, time.Now())
	if err != nil {
		return nil, ListRemindersOutput{}, fmt.Errorf("failed to get due reminders: %w", err)
	}

	output, err := h.toListOutput(due)
	if err != nil {
		return nil, ListRemindersOutput{}, err
	}
	return nil, output, nil
}

type ListUpcomingRemindersInput struct {
	Days int `json:"days,omitempty" jsonschema:"Window in days (default 7)"`
}

func (h *ReminderHandlers) ListUpcomingReminders(_ context.Context, request *mcp.CallToolRequest, input ListUpcomingRemindersInput) (*mcp.CallToolResult, ListRemindersOutput, error) {
	days := input.Days
	if days == 0 {
		days = 7
	}

	upcoming, err := db.GetUpcomingReminders(h.db, time.Now(), days)
	if err != nil {
		return nil, ListRemindersOutput{}, fmt.Errorf("failed to get upcoming reminders: %w", err)
	}

	output, err := h.toListOutput(upcoming)
	if err != nil {
		return nil, ListRemindersOutput{}, err
	}
	return nil, output, nil
}

type ReminderActionInput struct {
	ID string `json:"id" jsonschema:"Reminder ID (required)"`
}

func (h *ReminderHandlers) CompleteReminder(_ context.Context, request *mcp.CallToolRequest, input ReminderActionInput) (*mcp.CallToolResult, ReminderOutput, error) {
	reminderID, err := parseReminderID(input.ID)
	if err != nil {
		return nil, ReminderOutput{}, err
	}

	reminder, err := db.CompleteReminder(h.db, reminderID, time.Now())
	if err != nil {
		return nil, ReminderOutput{}, fmt.Errorf("failed to complete reminder: %w", err)
	}
	if reminder == nil {
		return nil, ReminderOutput{}, fmt.Errorf("reminder not found: %s", input.ID)
	}

	return nil, h.reminderToOutput(reminder), nil
}

type SnoozeReminderInput struct {
	ID      string `json:"id" jsonschema:"Reminder ID (required)"`
	Minutes int    `json:"minutes,omitempty" jsonschema:"Snooze duration in minutes (default 60)"`
}

func (h *ReminderHandlers) SnoozeReminder(_ context.Context, request *mcp.CallToolRequest, input SnoozeReminderInput) (*mcp.CallToolResult, ReminderOutput, error) {
	reminderID, err := parseReminderID(input.ID)
	if err != nil {
		return nil, ReminderOutput{}, err
	}

	minutes := input.Minutes
	if minutes <= 0 {
		minutes = 60
	}

	reminder, err := db.SnoozeReminder(h.db, reminderID, minutes, time.Now())
	if err != nil {
		return nil, ReminderOutput{}, fmt.Errorf("failed to snooze reminder: %w", err)
	}
	if reminder == nil {
		return nil, ReminderOutput{}, fmt.Errorf("reminder not found: %s", input.ID)
	}

	return nil, h.reminderToOutput(reminder), nil
}

func (h *ReminderHandlers) DismissReminder(_ context.Context, request *mcp.CallToolRequest, input ReminderActionInput) (*mcp.CallToolResult, ReminderOutput, error) {
	reminderID, err := parseReminderID(input.ID)
	if err != nil {
		return nil, ReminderOutput{}, err
	}

	reminder, err := db.DismissReminder(h.db, reminderID)
	if err != nil {
		return nil, ReminderOutput{}, fmt.Errorf("failed to dismiss reminder: %w", err)
	}
	if reminder == nil {
		return nil, ReminderOutput{}, fmt.Errorf("reminder not found: %s", input.ID)
	}

	return nil, h.reminderToOutput(reminder), nil
}

type SyncRemindersInput struct{}

type SyncRemindersOutput struct {
	Synced int `json:"synced"`
}

// SyncReminders recomputes every enabled contact's scheduled and calendar
// reminders from current interaction history.
func (h *ReminderHandlers) SyncReminders(_ context.Context, request *mcp.CallToolRequest, input SyncRemindersInput) (*mcp.CallToolResult, SyncRemindersOutput, error) {
	contacts, err := db.GetAllContacts(h.db)
	if err != nil {
		return nil, SyncRemindersOutput{}, fmt.Errorf("failed to get contacts: %w", err)
	}

	now := time.Now()
	synced := 0
	for i := range contacts {
		if _, err := schedule.SyncContactReminder(h.db, contacts[i].ID, now); err != nil {
			return nil, SyncRemindersOutput{}, fmt.Errorf("failed to sync %s: %w", contacts[i].Name, err)
		}
		if err := schedule.SyncCalendarReminders(h.db, &contacts[i], now); err != nil {
			return nil, SyncRemindersOutput{}, fmt.Errorf("failed to sync calendar reminders for %s: %w", contacts[i].Name, err)
		}
		synced++
	}

	return nil, SyncRemindersOutput{Synced: synced}, nil
}

func (h *ReminderHandlers) toListOutput(reminders []models.Reminder) (ListRemindersOutput, error) {
	result := make([]ReminderOutput, len(reminders))
	for i := range reminders {
		result[i] = h.reminderToOutput(&reminders[i])

		contact, err := db.GetContact(h.db, reminders[i].ContactID)
		if err != nil {
			return ListRemindersOutput{}, fmt.Errorf("failed to get contact: %w", err)
		}
		if contact != nil {
			result[i].ContactName = contact.Name
		}
	}
	return ListRemindersOutput{Reminders: result}, nil
}

func (h *ReminderHandlers) reminderToOutput(reminder *models.Reminder) ReminderOutput {
	output := ReminderOutput{
		ID:           reminder.ID.String(),
		ContactID:    reminder.ContactID.String(),
		Type:         reminder.Type,
		ScheduledFor: reminder.ScheduledFor.Format(time.RFC3339),
		Status:       reminder.Status,
		ActionType:   reminder.ActionType,
		IsRecurring:  reminder.IsRecurring,
	}
	if reminder.CompletedAt != nil {
		output.CompletedAt = reminder.CompletedAt.Format(time.RFC3339)
	}
	return output
}

func parseReminderID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("id is required")
	}
	reminderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id: %w", err)
	}
	return reminderID, nil
}
