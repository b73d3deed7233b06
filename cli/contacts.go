// ABOUTME: Contact CLI commands
// ABOUTME: Commands for adding, listing, showing, updating, and deleting contacts
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/prm/db"
	"github.com/harperreed/prm/models"
	"github.com/harperreed/prm/schedule"
)

// AddContactCommand creates a contact and schedules its first reminder
func AddContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name (required)")
	nickname := fs.String("nickname", "", "Nickname")
	relationship := fs.String("relationship", "", "Relationship (friend, sibling, colleague, ...)")
	category := fs.String("category", "", "Grouping category")
	phone := fs.String("phone", "", "Primary phone number")
	email := fs.String("email", "", "Email address")
	birthday := fs.String("birthday", "", "Birthday (YYYY-MM-DD)")
	anniversary := fs.String("anniversary", "", "Anniversary (YYYY-MM-DD)")
	interval := fs.Int("interval", 30, "Check-in cadence in days")
	preferredTime := fs.String("time", "09:00", "Preferred reminder time (HH:MM)")
	noReminders := fs.Bool("no-reminders", false, "Disable check-in reminders")
	notes := fs.String("notes", "", "Notes about the contact")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	contact := &models.Contact{
		Name:         *name,
		Nickname:     *nickname,
		Relationship: *relationship,
		Category:     *category,
		Birthday:     *birthday,
		Anniversary:  *anniversary,
		Notes:        *notes,
		Reminders: models.ReminderConfig{
			Enabled:       !*noReminders,
			IntervalDays:  *interval,
			PreferredTime: *preferredTime,
		},
	}
	if *phone != "" {
		contact.Phones = []models.PhoneNumber{{Label: "primary", Number: *phone, IsPrimary: true}}
	}
	if *email != "" {
		contact.Emails = []string{*email}
	}

	if err := db.CreateContact(database, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	now := time.Now()
	reminder, err := schedule.SyncContactReminder(database, contact.ID, now)
	if err != nil {
		return fmt.Errorf("contact created but reminder sync failed: %w", err)
	}
	if err := schedule.SyncCalendarReminders(database, contact, now); err != nil {
		return fmt.Errorf("contact created but calendar reminder sync failed: %w", err)
	}

	fmt.Printf("✓ Added contact %s (%s)\n", contact.Name, contact.ID)
	if reminder != nil {
		fmt.Printf("  Next check-in: %s\n", reminder.ScheduledFor.Format("2006-01-02 15:04"))
	}
	return nil
}

// ListContactsCommand lists contacts sorted most-overdue-first
func ListContactsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, nickname, or category")
	category := fs.String("category", "", "Filter by category")
	overdueOnly := fs.Bool("overdue-only", false, "Show only overdue contacts")
	limit := fs.Int("limit", 50, "Max results")
	_ = fs.Parse(args)

	var contacts []models.Contact
	var err error
	switch {
	case *query != "":
		contacts, err = db.SearchContacts(database, *query)
	case *category != "":
		contacts, err = db.GetContactsByCategory(database, *category)
	default:
		contacts, err = db.GetAllContacts(database)
	}
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	now := time.Now()

	type row struct {
		contact   models.Contact
		daysSince *int
		overdue   bool
		// days past (positive) or until (negative) the interval; never-contacted sorts first
		slack int
	}

	rows := make([]row, 0, len(contacts))
	for _, c := range contacts {
		daysSince, err := db.DaysSinceLastInteraction(database, c.ID, now)
		if err != nil {
			return fmt.Errorf("failed to compute days since for %s: %w", c.Name, err)
		}
		overdue, err := schedule.IsOverdue(database, &c, now)
		if err != nil {
			return fmt.Errorf("failed to compute overdue for %s: %w", c.Name, err)
		}

		if *overdueOnly && !overdue {
			continue
		}

		slack := -999
		if c.Reminders.Enabled {
			if daysSince == nil {
				slack = 9999
			} else {
				slack = *daysSince - c.Reminders.IntervalDays
			}
		}
		rows = append(rows, row{contact: c, daysSince: daysSince, overdue: overdue, slack: slack})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].slack != rows[j].slack {
			return rows[i].slack > rows[j].slack
		}
		return rows[i].contact.Name < rows[j].contact.Name
	})

	if len(rows) > *limit {
		rows = rows[:*limit]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tRELATION\tDAYS SINCE\tINTERVAL\tPHONE")
	_, _ = fmt.Fprintln(w, "----\t--------\t----------\t--------\t-----")

	for _, r := range rows {
		c := r.contact
		indicator := "🟢"
		switch {
		case !c.Reminders.Enabled:
			indicator = "⚪"
		case r.overdue:
			indicator = "🔴"
		case r.daysSince != nil && *r.daysSince >= c.Reminders.IntervalDays-3:
			indicator = "🟡"
		}

		daysStr := "never"
		if r.daysSince != nil {
			daysStr = fmt.Sprintf("%d", *r.daysSince)
		}

		_, _ = fmt.Fprintf(w, "%s %s\t%s\t%s\t%d\t%s\n",
			indicator, c.Name, c.Relationship, daysStr, c.Reminders.IntervalDays, c.PrimaryPhone())
	}

	_ = w.Flush()
	return nil
}

// ShowContactCommand prints a contact with its history and reminders
func ShowContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("show-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("contact ID required")
	}

	contactID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid contact ID: %w", err)
	}

	contact, err := db.GetContact(database, contactID)
	if err != nil {
		return fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return fmt.Errorf("contact not found: %s", fs.Arg(0))
	}

	now := time.Now()
	daysSince, err := db.DaysSinceLastInteraction(database, contactID, now)
	if err != nil {
		return err
	}
	overdue, err := schedule.IsOverdue(database, contact, now)
	if err != nil {
		return err
	}

	fmt.Printf("%s", contact.Name)
	if contact.Nickname != "" {
		fmt.Printf(" (%s)", contact.Nickname)
	}
	fmt.Println()
	if contact.Relationship != "" {
		fmt.Printf("  Relationship: %s\n", contact.Relationship)
	}
	if phone := contact.PrimaryPhone(); phone != "" {
		fmt.Printf("  Phone:        %s\n", phone)
	}
	if contact.Birthday != "" {
		fmt.Printf("  Birthday:     %s\n", contact.Birthday)
	}
	if contact.Anniversary != "" {
		fmt.Printf("  Anniversary:  %s\n", contact.Anniversary)
	}

	if contact.Reminders.Enabled {
		fmt.Printf("  Cadence:      every %d days", contact.Reminders.IntervalDays)
		if contact.Reminders.PreferredTime != "" {
			fmt.Printf(" at %s", contact.Reminders.PreferredTime)
		}
		fmt.Println()
	} else {
		fmt.Println("  Cadence:      reminders disabled")
	}

	if daysSince == nil {
		fmt.Println("  Last contact: never")
	} else {
		fmt.Printf("  Last contact: %d days ago\n", *daysSince)
	}
	if overdue {
		fmt.Println("  Status:       🔴 overdue")
	} else {
		fmt.Println("  Status:       🟢 ok")
	}

	reminders, err := db.GetRemindersByContact(database, contactID)
	if err != nil {
		return err
	}
	if len(reminders) > 0 {
		fmt.Println("\nReminders:")
		for _, r := range reminders {
			fmt.Printf("  %s %s %s (%s)\n", r.ID, r.Type,
				r.ScheduledFor.Format("2006-01-02 15:04"), r.Status)
		}
	}

	interactions, err := db.GetInteractionsByContact(database, contactID)
	if err != nil {
		return err
	}
	if len(interactions) > 0 {
		fmt.Println("\nRecent interactions:")
		shown := interactions
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for _, i := range shown {
			fmt.Printf("  %s %s/%s", i.Timestamp.Format("2006-01-02 15:04"), i.Type, i.Direction)
			if i.Notes != "" {
				fmt.Printf(" — %s", i.Notes)
			}
			fmt.Println()
		}
	}

	return nil
}

// UpdateContactCommand updates fields of an existing contact.
// Flags must come before the contact ID.
func UpdateContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name")
	nickname := fs.String("nickname", "", "Nickname")
	relationship := fs.String("relationship", "", "Relationship")
	category := fs.String("category", "", "Category")
	phone := fs.String("phone", "", "Primary phone number")
	birthday := fs.String("birthday", "", "Birthday (YYYY-MM-DD)")
	anniversary := fs.String("anniversary", "", "Anniversary (YYYY-MM-DD)")
	interval := fs.Int("interval", 0, "Check-in cadence in days")
	preferredTime := fs.String("time", "", "Preferred reminder time (HH:MM)")
	enable := fs.Bool("enable-reminders", false, "Enable check-in reminders")
	disable := fs.Bool("disable-reminders", false, "Disable check-in reminders")
	notes := fs.String("notes", "", "Notes")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("contact ID required (flags must come before the ID)")
	}

	contactID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid contact ID: %w", err)
	}

	contact, err := db.GetContact(database, contactID)
	if err != nil {
		return fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return fmt.Errorf("contact not found: %s", fs.Arg(0))
	}

	if *name != "" {
		contact.Name = *name
	}
	if *nickname != "" {
		contact.Nickname = *nickname
	}
	if *relationship != "" {
		contact.Relationship = *relationship
	}
	if *category != "" {
		contact.Category = *category
	}
	if *phone != "" {
		contact.Phones = []models.PhoneNumber{{Label: "primary", Number: *phone, IsPrimary: true}}
	}
	if *birthday != "" {
		contact.Birthday = *birthday
	}
	if *anniversary != "" {
		contact.Anniversary = *anniversary
	}
	if *interval > 0 {
		contact.Reminders.IntervalDays = *interval
	}
	if *preferredTime != "" {
		contact.Reminders.PreferredTime = *preferredTime
	}
	if *enable {
		contact.Reminders.Enabled = true
	}
	if *disable {
		contact.Reminders.Enabled = false
	}
	if *notes != "" {
		contact.Notes = *notes
	}

	found, err := db.UpdateContact(database, contact)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if !found {
		return fmt.Errorf("contact not found: %s", fs.Arg(0))
	}

	// Keep the stored reminder in step with the edited cadence/phones/dates
	now := time.Now()
	if _, err := schedule.SyncContactReminder(database, contactID, now); err != nil {
		return fmt.Errorf("contact updated but reminder sync failed: %w", err)
	}
	if err := schedule.SyncCalendarReminders(database, contact, now); err != nil {
		return fmt.Errorf("contact updated but calendar reminder sync failed: %w", err)
	}

	fmt.Printf("✓ Updated contact %s\n", contact.Name)
	return nil
}

// DeleteContactCommand removes a contact and, via cascade, its history
func DeleteContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("contact ID required")
	}

	contactID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid contact ID: %w", err)
	}

	deleted, err := db.DeleteContact(database, contactID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if !deleted {
		return fmt.Errorf("contact not found: %s", fs.Arg(0))
	}

	fmt.Println("✓ Deleted contact (interactions and reminders removed)")
	return nil
}
