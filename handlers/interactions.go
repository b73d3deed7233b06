// ABOUTME: Interaction MCP tool handlers
// ABOUTME: Implements log_interaction, mark_contacted, and get_interaction_stats tools
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

type InteractionHandlers struct {
	db *sql.DB
}

func NewInteractionHandlers(database *sql.DB) *InteractionHandlers {
	return &InteractionHandlers{db: database}
}

type LogInteractionInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
	Type      string `json:"type,omitempty" jsonschema:"Interaction type: call, video_call, text, email, visit, gift, card, other (default call)"`
	Direction string `json:"direction,omitempty" jsonschema:"incoming or outgoing (default outgoing)"`
	Duration  int    `json:"duration,omitempty" jsonschema:"Duration in minutes"`
	Notes     string `json:"notes,omitempty" jsonschema:"Notes about the interaction"`
	Sentiment string `json:"sentiment,omitempty" jsonschema:"positive, neutral, or negative"`
}

type InteractionOutput struct {
	ID        string `json:"id"`
	ContactID string `json:"contact_id"`
	Type      string `json:"type"`
	Direction string `json:"direction"`
	Timestamp string `json:"timestamp"`
	Duration  int    `json:"duration,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Sentiment string `json:"sentiment,omitempty"`
	Source    string `json:"source"`
}

type LogInteractionOutput struct {
	Interaction  InteractionOutput `json:"interaction"`
	NextReminder string            `json:"next_reminder,omitempty"`
}

func (h *InteractionHandlers) LogInteraction(_ context.Context, request *mcp.CallToolRequest, input LogInteractionInput) (*mcp.CallToolResult, LogInteractionOutput, error) {
	contactID, err := parseContactID(input.ContactID)
	if err != nil {
		return nil, LogInteractionOutput{}, err
	}

	contact, err := db.GetContact(h.db, contactID)
	if err != nil {
		return nil, LogInteractionOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, LogInteractionOutput{}, fmt.Errorf("contact not found: %s", input.ContactID)
	}

	interaction := &models.Interaction{
		ContactID: contactID,
		Type:      input.Type,
		Direction: input.Direction,
		Timestamp: time.Now(),
		Duration:  input.Duration,
		Notes:     input.Notes,
		Sentiment: input.Sentiment,
		Source:    models.SourceManual,
	}
	if interaction.Type == "" {
		interaction.Type = models.InteractionCall
	}
	if interaction.Direction == "" {
		interaction.Direction = models.DirectionOutgoing
	}

	if err := db.LogInteraction(h.db, interaction); err != nil {
		return nil, LogInteractionOutput{}, fmt.Errorf("failed to log interaction: %w", err)
	}

	// Every logged interaction resets the check-in cycle
	reminder, err := schedule.SyncContactReminder(h.db, contactID, time.Now())
	if err != nil {
		return nil, LogInteractionOutput{}, fmt.Errorf("interaction logged but reminder sync failed: %w", err)
	}

	output := LogInteractionOutput{Interaction: interactionToOutput(interaction)}
	if reminder != nil {
		output.NextReminder = reminder.ScheduledFor.Format(time.RFC3339)
	}
	return nil, output, nil
}

type MarkContactedInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
}

type MarkContactedOutput struct {
	Interaction  InteractionOutput `json:"interaction"`
	NextReminder string            `json:"next_reminder,omitempty"`
}

func (h *InteractionHandlers) MarkContacted(_ context.Context, request *mcp.CallToolRequest, input MarkContactedInput) (*mcp.CallToolResult, MarkContactedOutput, error) {
	contactID, err := parseContactID(input.ContactID)
	if err != nil {
		return nil, MarkContactedOutput{}, err
	}

	interaction, reminder, err := schedule.MarkContacted(h.db, contactID, time.Now())
	if err != nil {
		return nil, MarkContactedOutput{}, fmt.Errorf("failed to mark contacted: %w", err)
	}
	if interaction == nil {
		return nil, MarkContactedOutput{}, fmt.Errorf("contact not found: %s", input.ContactID)
	}

	output := MarkContactedOutput{Interaction: interactionToOutput(interaction)}
	if reminder != nil {
		output.NextReminder = reminder.ScheduledFor.Format(time.RFC3339)
	}
	return nil, output, nil
}

type InteractionStatsInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
}

type InteractionStatsOutput struct {
	Total           int            `json:"total"`
	ByType          map[string]int `json:"by_type"`
	LastInteraction string         `json:"last_interaction,omitempty"`
	DaysSinceLast   *int           `json:"days_since_last,omitempty"`
	Overdue         bool           `json:"overdue"`
}

func (h *InteractionHandlers) GetInteractionStats(_ context.Context, request *mcp.CallToolRequest, input InteractionStatsInput) (*mcp.CallToolResult, InteractionStatsOutput, error) {
	contactID, err := parseContactID(input.ContactID)
	if err != nil {
		return nil, InteractionStatsOutput{}, err
	}

	contact, err := db.GetContact(h.db, contactID)
	if err != nil {
		return nil, InteractionStatsOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, InteractionStatsOutput{}, fmt.Errorf("contact not found: %s", input.ContactID)
	}

	interactions, err := db.GetInteractionsByContact(h.db, contactID)
	if err != nil {
		return nil, InteractionStatsOutput{}, fmt.Errorf("failed to get interactions: %w", err)
	}

	now := time.Now()
	daysSince, err := db.DaysSinceLastInteraction(h.db, contactID, now)
	if err != nil {
		return nil, InteractionStatsOutput{}, fmt.Errorf("failed to compute days since: %w", err)
	}

	overdue, err := schedule.IsOverdue(h.db, contact, now)
	if err != nil {
		return nil, InteractionStatsOutput{}, fmt.Errorf("failed to compute overdue: %w", err)
	}

	output := InteractionStatsOutput{
		Total:         len(interactions),
		ByType:        map[string]int{},
		DaysSinceLast: daysSince,
		Overdue:       overdue,
	}
	for _, i := range interactions {
		output.ByType[i.Type]++
	}
	if len(interactions) > 0 {
		output.LastInteraction = interactions[0].Timestamp.Format(time.RFC3339)
	}

	return nil, output, nil
}

func parseContactID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("contact_id is required")
	}
	contactID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid contact_id: %w", err)
	}
	return contactID, nil
}

func interactionToOutput(interaction *models.Interaction) InteractionOutput {
	return InteractionOutput{
		ID:        interaction.ID.String(),
		ContactID: interaction.ContactID.String(),
		Type:      interaction.Type,
		Direction: interaction.Direction,
		Timestamp: interaction.Timestamp.Format(time.RFC3339),
		Duration:  interaction.Duration,
		Notes:     interaction.Notes,
		Sentiment: interaction.Sentiment,
		Source:    interaction.Source,
	}
}
