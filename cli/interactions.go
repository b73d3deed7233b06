// ABOUTME: Interaction CLI commands
// ABOUTME: Commands for logging interactions and marking contacts as contacted
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/prm/db"
	"github.com/harperreed/prm/models"
	"github.com/harperreed/prm/schedule"
)

// LogInteractionCommand records an interaction and resets the check-in cycle
func LogInteractionCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	contactIDStr := fs.String("contact", "", "Contact ID (required)")
	interactionType := fs.String("type", models.InteractionCall, "Interaction type (call, video_call, text, email, visit, gift, card, other)")
	direction := fs.String("direction", models.DirectionOutgoing, "incoming or outgoing")
	duration := fs.Int("duration", 0, "Duration in minutes")
	notes := fs.String("notes", "", "Notes about the interaction")
	sentiment := fs.String("sentiment", "", "positive, neutral, or negative")
	_ = fs.Parse(args)

	if *contactIDStr == "" {
		return fmt.Errorf("--contact is required")
	}
	contactID, err := uuid.Parse(*contactIDStr)
	if err != nil {
		return fmt.Errorf("invalid contact ID: %w", err)
	}

	contact, err := db.GetContact(database, contactID)
	if err != nil {
		return fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return fmt.Errorf("contact not found: %s", *contactIDStr)
	}

	interaction := &models.Interaction{
		ContactID: contactID,
		Type:      *interactionType,
		Direction: *direction,
		Timestamp: time.Now(),
		Duration:  *duration,
		Notes:     *notes,
		Sentiment: *sentiment,
		Source:    models.SourceManual,
	}
	if err := db.LogInteraction(database, interaction); err != nil {
		return fmt.Errorf("failed to log interaction: %w", err)
	}

	reminder, err := schedule.SyncContactReminder(database, contactID, time.Now())
	if err != nil {
		return fmt.Errorf("interaction logged but reminder sync failed: %w", err)
	}

	fmt.Printf("✓ Logged %s with %s\n", interaction.Type, contact.Name)
	if reminder != nil {
		fmt.Printf("  Next check-in: %s\n", reminder.ScheduledFor.Format("2006-01-02 15:04"))
	}
	return nil
}

// ListInteractionsCommand lists interactions, newest first
func ListInteractionsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("interactions", flag.ExitOnError)
	contactIDStr := fs.String("contact", "", "Filter by contact ID")
	limit := fs.Int("limit", 20, "Max results")
	_ = fs.Parse(args)

	var interactions []models.Interaction
	var err error
	if *contactIDStr != "" {
		contactID, parseErr := uuid.Parse(*contactIDStr)
		if parseErr != nil {
			return fmt.Errorf("invalid contact ID: %w", parseErr)
		}
		interactions, err = db.GetInteractionsByContact(database, contactID)
	} else {
		interactions, err = db.GetAllInteractions(database)
	}
	if err != nil {
		return fmt.Errorf("failed to list interactions: %w", err)
	}

	if len(interactions) > *limit {
		interactions = interactions[:*limit]
	}

	names := map[uuid.UUID]string{}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tCONTACT\tTYPE\tDIRECTION\tNOTES")
	_, _ = fmt.Fprintln(w, "----\t-------\t----\t---------\t-----")

	for _, i := range interactions {
		name, ok := names[i.ContactID]
		if !ok {
			contact, lookupErr := db.GetContact(database, i.ContactID)
			if lookupErr != nil {
				return lookupErr
			}
			name = "(deleted)"
			if contact != nil {
				name = contact.Name
			}
			names[i.ContactID] = name
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			i.Timestamp.Format("2006-01-02 15:04"), name, i.Type, i.Direction, i.Notes)
	}

	_ = w.Flush()
	return nil
}

// MarkContactedCommand logs a quick interaction and reschedules in one step
func MarkContactedCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("contacted", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("contact ID required")
	}

	contactID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid contact ID: %w", err)
	}

	interaction, reminder, err := schedule.MarkContacted(database, contactID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark contacted: %w", err)
	}
	if interaction == nil {
		return fmt.Errorf("contact not found: %s", fs.Arg(0))
	}

	fmt.Println("✓ Marked as contacted")
	if reminder != nil {
		fmt.Printf("  Next check-in: %s\n", reminder.ScheduledFor.Format("2006-01-02 15:04"))
	}
	return nil
}
