// ABOUTME: Reminder CLI commands
// ABOUTME: Commands for listing due/upcoming reminders and driving the lifecycle
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

// DueRemindersCommand lists reminders whose scheduled time has arrived
func DueRemindersCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("due", flag.ExitOnError)
	_ = fs.Parse(args)

	due, err := db.GetDueReminders(database, time.Now())
	if err != nil {
		return fmt.Errorf("failed to get due reminders: %w", err)
	}

	if len(due) == 0 {
		fmt.Println("Nothing due. 🎉")
		return nil
	}

	return printReminderTable(database, due)
}

// UpcomingRemindersCommand lists outstanding reminders within a window
func UpcomingRemindersCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("upcoming", flag.ExitOnError)
	days := fs.Int("days", 7, "Window in days")
	_ = fs.Parse(args)

	upcoming, err := db.GetUpcomingReminders(database, time.Now(), *days)
	if err != nil {
		return fmt.Errorf("failed to get upcoming reminders: %w", err)
	}

	if len(upcoming) == 0 {
		fmt.Printf("Nothing scheduled in the next %d days.\n", *days)
		return nil
	}

	return printReminderTable(database, upcoming)
}

// CompleteReminderCommand marks a reminder done
func CompleteReminderCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("complete", flag.ExitOnError)
	_ = fs.Parse(args)

	reminderID, err := reminderIDArg(fs)
	if err != nil {
		return err
	}

	reminder, err := db.CompleteReminder(database, reminderID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to complete reminder: %w", err)
	}
	if reminder == nil {
		return fmt.Errorf("reminder not found: %s", fs.Arg(0))
	}

	fmt.Println("✓ Reminder completed")
	return nil
}

// SnoozeReminderCommand pushes a reminder into the future
func SnoozeReminderCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("snooze", flag.ExitOnError)
	minutes := fs.Int("minutes", 60, "Snooze duration in minutes")
	_ = fs.Parse(args)

	reminderID, err := reminderIDArg(fs)
	if err != nil {
		return err
	}

	reminder, err := db.SnoozeReminder(database, reminderID, *minutes, time.Now())
	if err != nil {
		return fmt.Errorf("failed to snooze reminder: %w", err)
	}
	if reminder == nil {
		return fmt.Errorf("reminder not found: %s", fs.Arg(0))
	}

	fmt.Printf("💤 Snoozed until %s\n", reminder.ScheduledFor.Format("2006-01-02 15:04"))
	return nil
}

// DismissReminderCommand drops a reminder without recording contact
func DismissReminderCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("dismiss", flag.ExitOnError)
	_ = fs.Parse(args)

	reminderID, err := reminderIDArg(fs)
	if err != nil {
		return err
	}

	reminder, err := db.DismissReminder(database, reminderID)
	if err != nil {
		return fmt.Errorf("failed to dismiss reminder: %w", err)
	}
	if reminder == nil {
		return fmt.Errorf("reminder not found: %s", fs.Arg(0))
	}

	fmt.Println("✓ Reminder dismissed")
	return nil
}

// SyncRemindersCommand recomputes reminders for every contact
func SyncRemindersCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	_ = fs.Parse(args)

	contacts, err := db.GetAllContacts(database)
	if err != nil {
		return fmt.Errorf("failed to get contacts: %w", err)
	}

	now := time.Now()
	for i := range contacts {
		if _, err := schedule.SyncContactReminder(database, contacts[i].ID, now); err != nil {
			return fmt.Errorf("failed to sync %s: %w", contacts[i].Name, err)
		}
		if err := schedule.SyncCalendarReminders(database, &contacts[i], now); err != nil {
			return fmt.Errorf("failed to sync calendar reminders for %s: %w", contacts[i].Name, err)
		}
	}

	fmt.Printf("✓ Synced reminders for %d contacts\n", len(contacts))
	return nil
}

func printReminderTable(database *sql.DB, reminders []models.Reminder) error {
	names := map[uuid.UUID]string{}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCONTACT\tTYPE\tSCHEDULED\tSTATUS")
	_, _ = fmt.Fprintln(w, "--\t-------\t----\t---------\t------")

	for _, r := range reminders {
		name, ok := names[r.ContactID]
		if !ok {
			contact, err := db.GetContact(database, r.ContactID)
			if err != nil {
				return err
			}
			name = "(deleted)"
			if contact != nil {
				name = contact.Name
			}
			names[r.ContactID] = name
		}

		icon := "📞"
		switch r.Type {
		case models.ReminderBirthday:
			icon = "🎂"
		case models.ReminderAnniversary:
			icon = "💐"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\n",
			r.ID, icon, name, r.Type, r.ScheduledFor.Format("2006-01-02 15:04"), r.Status)
	}

	return w.Flush()
}

func reminderIDArg(fs *flag.FlagSet) (uuid.UUID, error) {
	if fs.NArg() == 0 {
		return uuid.Nil, fmt.Errorf("reminder ID required")
	}
	reminderID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid reminder ID: %w", err)
	}
	return reminderID, nil
}
