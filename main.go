// ABOUTME: Entry point for the PRM MCP server and CLI
// ABOUTME: Routes to the MCP server, CLI commands, or the watch daemon based on arguments
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/harperreed/prm/cli"
	"github.com/harperreed/prm/db"
	"github.com/joho/godotenv"
)

const version = "0.1.0"

func main() {
	// Optional .env for PRM_DB_PATH and friends
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/prm/prm.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("prm version %s\n", version)
		os.Exit(0)
	}

	// Get remaining args after flags
	args := flag.Args()

	// If no command specified, show usage
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	// Route to top-level command
	command := args[0]
	commandArgs := args[1:]

	finalDBPath := getDatabasePath(*dbPath)
	database, err := db.OpenDatabase(finalDBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	switch command {
	case "mcp":
		// MCP server doesn't need a database init message
		if err := cli.MCPCommand(database); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}
		return

	case "watch":
		if err := cli.WatchCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	log.Printf("PRM database: %s", finalDBPath)

	// Handle init-only flag
	if *initOnly {
		log.Println("Database initialized successfully")
		os.Exit(0)
	}

	if err := runCommand(database, command, commandArgs); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runCommand(database *sql.DB, command string, args []string) error {
	switch command {
	// Contact commands
	case "add-contact":
		return cli.AddContactCommand(database, args)
	case "list-contacts":
		return cli.ListContactsCommand(database, args)
	case "show-contact":
		return cli.ShowContactCommand(database, args)
	case "update-contact":
		return cli.UpdateContactCommand(database, args)
	case "delete-contact":
		return cli.DeleteContactCommand(database, args)

	// Interaction commands
	case "log":
		return cli.LogInteractionCommand(database, args)
	case "interactions":
		return cli.ListInteractionsCommand(database, args)
	case "contacted":
		return cli.MarkContactedCommand(database, args)

	// Reminder commands
	case "due":
		return cli.DueRemindersCommand(database, args)
	case "upcoming":
		return cli.UpcomingRemindersCommand(database, args)
	case "complete":
		return cli.CompleteReminderCommand(database, args)
	case "snooze":
		return cli.SnoozeReminderCommand(database, args)
	case "dismiss":
		return cli.DismissReminderCommand(database, args)
	case "sync":
		return cli.SyncRemindersCommand(database, args)

	// Data commands
	case "export":
		return cli.ExportCommand(database, args)
	case "import":
		return cli.ImportCommand(database, args)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
		return nil
	}
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("PRM_DB_PATH"); env != "" {
		return env
	}
	return filepath.Join(xdg.DataHome, "prm", "prm.db")
}

func printUsage() {
	fmt.Printf(`prm v%s - Personal relationship manager

USAGE:
  prm [global flags] <command> [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/prm/prm.db)
  --init                 Initialize database and exit

SERVERS:
  prm mcp                Start MCP server (for Claude Desktop integration)
  prm watch              Poll for due reminders until interrupted
    --interval <dur>       Poll interval (default: 1m)

CONTACT COMMANDS:
  prm add-contact        Add a new contact
    --name <name>          Contact name (required)
    --phone <phone>        Primary phone number
    --relationship <rel>   Relationship (friend, sibling, colleague, ...)
    --birthday <date>      Birthday (YYYY-MM-DD)
    --anniversary <date>   Anniversary (YYYY-MM-DD)
    --interval <days>      Check-in cadence in days (default: 30)
    --time <HH:MM>         Preferred reminder time (default: 09:00)
    --no-reminders         Disable check-in reminders

  prm list-contacts      List contacts, most overdue first
    --query <text>         Search by name, nickname, or category
    --category <cat>       Filter by category
    --overdue-only         Show only overdue contacts

  prm show-contact <id>  Show a contact with history and reminders

  prm update-contact [flags] <id>  Update a contact
    Note: flags must come before the contact ID

  prm delete-contact <id>  Delete a contact and its history

INTERACTION COMMANDS:
  prm log                Log an interaction
    --contact <id>         Contact ID (required)
    --type <type>          call, video_call, text, email, visit, gift, card, other
    --direction <dir>      incoming or outgoing (default: outgoing)
    --notes <notes>        Notes about the interaction

  prm interactions       List interactions, newest first
    --contact <id>         Filter by contact

  prm contacted <id>     Mark a contact as just contacted

REMINDER COMMANDS:
  prm due                List reminders due now
  prm upcoming           List reminders in the next N days
    --days <n>             Window in days (default: 7)
  prm complete <id>      Mark a reminder completed
  prm snooze [flags] <id>  Snooze a reminder
    --minutes <n>          Snooze duration (default: 60)
  prm dismiss <id>       Dismiss a reminder
  prm sync               Recompute reminders for all contacts

DATA COMMANDS:
  prm export             Export all data as JSON
    --output <file>        Output file (default: stdout)
  prm import <file>      Import a JSON export (upserts by ID)

EXAMPLES:
  # Start MCP server for Claude Desktop
  prm mcp

  # Add a contact with a weekly cadence
  prm add-contact --name "Mom" --phone "+13125550123" --relationship parent --interval 7

  # Mark them contacted after a call
  prm contacted <contact-id>

  # See who is due
  prm due

`, version)
}
