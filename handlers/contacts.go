// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, find_contacts, update_contact, delete_contact tools
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

type ContactHandlers struct {
	db *sql.DB
}

func NewContactHandlers(database *sql.DB) *ContactHandlers {
	return &ContactHandlers{db: database}
}

type AddContactInput struct {
	Name          string `json:"name" jsonschema:"Contact name (required)"`
	Nickname      string `json:"nickname,omitempty" jsonschema:"Nickname"`
	Relationship  string `json:"relationship,omitempty" jsonschema:"Relationship (parent, sibling, friend, colleague, ...)"`
	Category      string `json:"category,omitempty" jsonschema:"Free-form grouping category"`
	Phone         string `json:"phone,omitempty" jsonschema:"Primary phone number"`
	Email         string `json:"email,omitempty" jsonschema:"Email address"`
	Birthday      string `json:"birthday,omitempty" jsonschema:"Birthday as ISO date (YYYY-MM-DD)"`
	Anniversary   string `json:"anniversary,omitempty" jsonschema:"Anniversary as ISO date (YYYY-MM-DD)"`
	IntervalDays  int    `json:"interval_days,omitempty" jsonschema:"Check-in cadence in days (default 30)"`
	PreferredTime string `json:"preferred_time,omitempty" jsonschema:"Preferred reminder time HH:MM (default 09:00)"`
	Notes         string `json:"notes,omitempty" jsonschema:"Notes about the contact"`
}

type ContactOutput struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Nickname      string `json:"nickname,omitempty"`
	Relationship  string `json:"relationship,omitempty"`
	Category      string `json:"category,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Birthday      string `json:"birthday,omitempty"`
	Anniversary   string `json:"anniversary,omitempty"`
	Enabled       bool   `json:"reminders_enabled"`
	IntervalDays  int    `json:"interval_days"`
	PreferredTime string `json:"preferred_time,omitempty"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func (h *ContactHandlers) AddContact(_ context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.Name == "" {
		return nil, ContactOutput{}, fmt.Errorf("name is required")
	}

	config := models.DefaultReminderConfig()
	if input.IntervalDays > 0 {
		config.IntervalDays = input.IntervalDays
	}
	if input.PreferredTime != "" {
		config.PreferredTime = input.PreferredTime
	}

	contact := &models.Contact{
		Name:         input.Name,
		Nickname:     input.Nickname,
		Relationship: input.Relationship,
		Category:     input.Category,
		Birthday:     input.Birthday,
		Anniversary:  input.Anniversary,
		Reminders:    config,
		Notes:        input.Notes,
	}
	if input.Phone != "" {
		contact.Phones = []models.PhoneNumber{{Label: "primary", Number: input.Phone, IsPrimary: true}}
	}
	if input.Email != "" {
		contact.Emails = []string{input.Email}
	}

	if err := db.CreateContact(h.db, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}

	now := time.Now()
	if _, err := schedule.SyncContactReminder(h.db, contact.ID, now); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("contact created but reminder sync failed: %w", err)
	}
	if err := schedule.SyncCalendarReminders(h.db, contact, now); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("contact created but calendar reminder sync failed: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

type FindContactsInput struct {
	Query    string `json:"query,omitempty" jsonschema:"Search query (matches name, nickname, category)"`
	Category string `json:"category,omitempty" jsonschema:"Filter by category"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *ContactHandlers) FindContacts(_ context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	var contacts []models.Contact
	var err error
	switch {
	case input.Query != "":
		contacts, err = db.SearchContacts(h.db, input.Query)
	case input.Category != "":
		contacts, err = db.GetContactsByCategory(h.db, input.Category)
	default:
		contacts, err = db.GetAllContacts(h.db)
	}
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	if len(contacts) > limit {
		contacts = contacts[:limit]
	}

	result := make([]ContactOutput, len(contacts))
	for i := range contacts {
		result[i] = contactToOutput(&contacts[i])
	}

	return nil, FindContactsOutput{Contacts: result}, nil
}

type UpdateContactInput struct {
	ID            string `json:"id" jsonschema:"Contact ID (required)"`
	Name          string `json:"name,omitempty" jsonschema:"Updated name"`
	Nickname      string `json:"nickname,omitempty" jsonschema:"Updated nickname"`
	Relationship  string `json:"relationship,omitempty" jsonschema:"Updated relationship"`
	Category      string `json:"category,omitempty" jsonschema:"Updated category"`
	Phone         string `json:"phone,omitempty" jsonschema:"Updated primary phone number"`
	Birthday      string `json:"birthday,omitempty" jsonschema:"Updated birthday (YYYY-MM-DD)"`
	Anniversary   string `json:"anniversary,omitempty" jsonschema:"Updated anniversary (YYYY-MM-DD)"`
	IntervalDays  int    `json:"interval_days,omitempty" jsonschema:"Updated check-in cadence in days"`
	PreferredTime string `json:"preferred_time,omitempty" jsonschema:"Updated preferred reminder time HH:MM"`
	Enabled       *bool  `json:"reminders_enabled,omitempty" jsonschema:"Enable or disable check-in reminders"`
	Notes         string `json:"notes,omitempty" jsonschema:"Updated notes"`
}

func (h *ContactHandlers) UpdateContact(_ context.Context, request *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}

	contactID, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	contact, err := db.GetContact(h.db, contactID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, ContactOutput{}, fmt.Errorf("contact not found: %s", input.ID)
	}

	if input.Name != "" {
		contact.Name = input.Name
	}
	if input.Nickname != "" {
		contact.Nickname = input.Nickname
	}
	if input.Relationship != "" {
		contact.Relationship = input.Relationship
	}
	if input.Category != "" {
		contact.Category = input.Category
	}
	if input.Phone != "" {
		contact.Phones = []models.PhoneNumber{{Label: "primary", Number: input.Phone, IsPrimary: true}}
	}
	if input.Birthday != "" {
		contact.Birthday = input.Birthday
	}
	if input.Anniversary != "" {
		contact.Anniversary = input.Anniversary
	}
	if input.IntervalDays > 0 {
		contact.Reminders.IntervalDays = input.IntervalDays
	}
	if input.PreferredTime != "" {
		contact.Reminders.PreferredTime = input.PreferredTime
	}
	if input.Enabled != nil {
		contact.Reminders.Enabled = *input.Enabled
	}
	if input.Notes != "" {
		contact.Notes = input.Notes
	}

	found, err := db.UpdateContact(h.db, contact)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}
	if !found {
		return nil, ContactOutput{}, fmt.Errorf("contact not found: %s", input.ID)
	}

	// Edits to cadence, phones, or dates must not let the stored reminder drift
	now := time.Now()
	if _, err := schedule.SyncContactReminder(h.db, contact.ID, now); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("contact updated but reminder sync failed: %w", err)
	}
	if err := schedule.SyncCalendarReminders(h.db, contact, now); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("contact updated but calendar reminder sync failed: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

type DeleteContactInput struct {
	ID string `json:"id" jsonschema:"Contact ID (required)"`
}

type DeleteContactOutput struct {
	Deleted bool `json:"deleted"`
}

func (h *ContactHandlers) DeleteContact(_ context.Context, request *mcp.CallToolRequest, input DeleteContactInput) (*mcp.CallToolResult, DeleteContactOutput, error) {
	if input.ID == "" {
		return nil, DeleteContactOutput{}, fmt.Errorf("id is required")
	}

	contactID, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	deleted, err := db.DeleteContact(h.db, contactID)
	if err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}

	return nil, DeleteContactOutput{Deleted: deleted}, nil
}

func contactToOutput(contact *models.Contact) ContactOutput {
	return ContactOutput{
		ID:            contact.ID.String(),
		Name:          contact.Name,
		Nickname:      contact.Nickname,
		Relationship:  contact.Relationship,
		Category:      contact.Category,
		Phone:         contact.PrimaryPhone(),
		Birthday:      contact.Birthday,
		Anniversary:   contact.Anniversary,
		Enabled:       contact.Reminders.Enabled,
		IntervalDays:  contact.Reminders.IntervalDays,
		PreferredTime: contact.Reminders.PreferredTime,
		Notes:         contact.Notes,
		CreatedAt:     contact.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     contact.UpdatedAt.Format(time.RFC3339),
	}
}
