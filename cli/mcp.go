// ABOUTME: MCP server subcommand
// ABOUTME: Exposes contacts, interactions, and reminders as MCP tools on stdio
package cli

import (
	"context"
	"database/sql"
	"log"

	"github.com/harperreed/prm/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(db *sql.DB) error {
	log.Println("Starting PRM MCP Server...")

	// Create handlers
	contactHandlers := handlers.NewContactHandlers(db)
	interactionHandlers := handlers.NewInteractionHandlers(db)
	reminderHandlers := handlers.NewReminderHandlers(db)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "prm",
		Version: "0.1.0",
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact with an optional check-in cadence and key dates",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search for contacts by name, nickname, or category",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update a contact's information, cadence, or key dates",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact along with its interactions and reminders",
	}, contactHandlers.DeleteContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_interaction",
		Description: "Log an interaction with a contact and reschedule their next check-in",
	}, interactionHandlers.LogInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "mark_contacted",
		Description: "Record that you just reached out to a contact and reset their check-in cycle",
	}, interactionHandlers.MarkContacted)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_interaction_stats",
		Description: "Get interaction counts, recency, and overdue status for a contact",
	}, interactionHandlers.GetInteractionStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_due_reminders",
		Description: "List reminders whose scheduled time has arrived",
	}, reminderHandlers.ListDueReminders)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_upcoming_reminders",
		Description: "List outstanding reminders scheduled within the next N days",
	}, reminderHandlers.ListUpcomingReminders)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_reminder",
		Description: "Mark a reminder as completed",
	}, reminderHandlers.CompleteReminder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "snooze_reminder",
		Description: "Push a reminder into the future by a number of minutes",
	}, reminderHandlers.SnoozeReminder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dismiss_reminder",
		Description: "Dismiss a reminder without recording an interaction",
	}, reminderHandlers.DismissReminder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sync_reminders",
		Description: "Recompute every contact's check-in and calendar reminders",
	}, reminderHandlers.SyncReminders)

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
