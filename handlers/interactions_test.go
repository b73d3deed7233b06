// ABOUTME: Tests for interaction MCP tool handlers
// ABOUTME: Covers logging, mark-contacted, and stats
package handlers

import (
	"context"
	"testing"

	"github.com/harperreed/prm/models"
)

func TestLogInteractionHandler(t *testing.T) {
	database := setupTestDB(t)
	contactHandler := NewContactHandlers(database)
	handler := NewInteractionHandlers(database)

	_, contact, err := contactHandler.AddContact(context.Background(), nil, AddContactInput{Name: "Alice"})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	_, output, err := handler.LogInteraction(context.Background(), nil, LogInteractionInput{
		ContactID: contact.ID,
		Notes:     "quick call",
	})
	if err != nil {
		t.Fatalf("LogInteraction failed: %v", err)
	}

	if output.Interaction.Type != models.InteractionCall {
		t.Errorf("Expected default call type, got %q", output.Interaction.Type)
	}
	if output.Interaction.Direction != models.DirectionOutgoing {
		t.Errorf("Expected default outgoing direction, got %q", output.Interaction.Direction)
	}
	if output.NextReminder == "" {
		t.Error("Expected a rescheduled reminder")
	}
}

func TestLogInteractionHandlerUnknownContact(t *testing.T) {
	database := setupTestDB(t)
	handler := NewInteractionHandlers(database)

	_, _, err := handler.LogInteraction(context.Background(), nil, LogInteractionInput{
		ContactID: "00000000-0000-0000-0000-000000000001",
	})
	if err == nil {
		t.Error("Expected error for unknown contact")
	}
}

func TestMarkContactedHandler(t *testing.T) {
	database := setupTestDB(t)
	contactHandler := NewContactHandlers(database)
	handler := NewInteractionHandlers(database)

	_, contact, err := contactHandler.AddContact(context.Background(), nil, AddContactInput{Name: "Alice"})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	_, output, err := handler.MarkContacted(context.Background(), nil, MarkContactedInput{ContactID: contact.ID})
	if err != nil {
		t.Fatalf("MarkContacted failed: %v", err)
	}
	if output.Interaction.Type != models.InteractionOther {
		t.Errorf("Expected other type for quick mark, got %q", output.Interaction.Type)
	}
	if output.NextReminder == "" {
		t.Error("Expected a rescheduled reminder")
	}
}

func TestGetInteractionStatsHandler(t *testing.T) {
	database := setupTestDB(t)
	contactHandler := NewContactHandlers(database)
	handler := NewInteractionHandlers(database)

	_, contact, err := contactHandler.AddContact(context.Background(), nil, AddContactInput{Name: "Alice"})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	// Never contacted: no recency, overdue
	_, stats, err := handler.GetInteractionStats(context.Background(), nil, InteractionStatsInput{ContactID: contact.ID})
	if err != nil {
		t.Fatalf("GetInteractionStats failed: %v", err)
	}
	if stats.Total != 0 || stats.DaysSinceLast != nil {
		t.Errorf("Unexpected stats for fresh contact: %+v", stats)
	}
	if !stats.Overdue {
		t.Error("Never-contacted contact must report overdue")
	}

	for i := 0; i < 2; i++ {
		if _, _, err := handler.LogInteraction(context.Background(), nil, LogInteractionInput{
			ContactID: contact.ID,
			Type:      models.InteractionText,
		}); err != nil {
			t.Fatalf("LogInteraction failed: %v", err)
		}
	}

	_, stats, err = handler.GetInteractionStats(context.Background(), nil, InteractionStatsInput{ContactID: contact.ID})
	if err != nil {
		t.Fatalf("GetInteractionStats failed: %v", err)
	}
	if stats.Total != 2 || stats.ByType[models.InteractionText] != 2 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	// Recency is a ceiling of elapsed time, so even a moment ago counts as 1
	if stats.DaysSinceLast == nil {
		t.Fatal("Expected days since last to be set")
	} else if *stats.DaysSinceLast != 1 {
		t.Errorf("Expected 1 day since last, got %d", *stats.DaysSinceLast)
	}
	if stats.Overdue {
		t.Error("Just-contacted contact must not be overdue")
	}
}
