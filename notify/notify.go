// ABOUTME: Notification building and dispatch for due reminders
// ABOUTME: Routes user actions on a notification back into the reminder lifecycle
package notify

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/prm/db"
	"github.com/harperreed/prm/models"
)

// Notification action identifiers.
const (
	ActionCall        = "call"
	ActionSnooze      = "snooze"
	ActionComplete    = "complete"
	ActionDismiss     = "dismiss"
	ActionViewAddress = "view_address"
)

const defaultSnoozeMinutes = 60

type Notification struct {
	ReminderID  uuid.UUID
	ContactID   uuid.UUID
	Title       string
	Body        string
	ActionType  string
	PhoneNumber string
	Address     *models.Address
	Actions     []string
}

// Notifier surfaces a notification on whatever platform hosts the process.
type Notifier interface {
	Notify(n Notification) error
}

// ConsoleNotifier writes notifications to the process log. It is the
// reference dispatcher used by the watch daemon.
type ConsoleNotifier struct{}

func (ConsoleNotifier) Notify(n Notification) error {
	log.Printf("🔔 %s — %s [%s]", n.Title, n.Body, strings.Join(n.Actions, "/"))
	return nil
}

// BuildNotification assembles the user-facing notification for a reminder.
// Returns nil when the reminder's contact no longer exists.
func BuildNotification(database *sql.DB, reminder *models.Reminder) (*Notification, error) {
	contact, err := db.GetContact(database, reminder.ContactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, nil
	}

	n := &Notification{
		ReminderID:  reminder.ID,
		ContactID:   contact.ID,
		ActionType:  reminder.ActionType,
		PhoneNumber: contact.PrimaryPhone(),
		Address:     contact.FirstAddress(),
	}

	switch reminder.Type {
	case models.ReminderScheduledCall:
		n.Title = fmt.Sprintf("Time to call %s", contact.Name)
		n.Body = callReminderBody(contact)
		n.Actions = []string{ActionCall, ActionSnooze, ActionComplete}

	case models.ReminderBirthday:
		n.Title = fmt.Sprintf("🎂 %s's Birthday!", contact.Name)
		n.Body = calendarReminderBody(contact, "Send birthday wishes!")
		n.Actions = []string{ActionCall, ActionViewAddress, ActionComplete}

	case models.ReminderAnniversary:
		n.Title = fmt.Sprintf("💐 %s's Anniversary", contact.Name)
		n.Body = "Don't forget to wish them well!"
		n.Actions = []string{ActionCall, ActionComplete}

	default:
		n.Title = fmt.Sprintf("Reminder: %s", contact.Name)
		n.Body = "You have a scheduled reminder"
		n.Actions = []string{ActionSnooze, ActionComplete}
	}

	return n, nil
}

// ProcessDue surfaces every due reminder and marks it triggered so it is not
// re-surfaced next tick. A reminder whose notification fails to display is
// left due; the next poll tick retries it. Returns the number notified.
func ProcessDue(database *sql.DB, notifier Notifier, now time.Time) (int, error) {
	due, err := db.GetDueReminders(database, now)
	if err != nil {
		return 0, err
	}

	notified := 0
	for i := range due {
		n, err := BuildNotification(database, &due[i])
		if err != nil {
			return notified, err
		}
		if n == nil {
			// Contact gone; reminder is an orphan awaiting cleanup
			continue
		}

		if err := notifier.Notify(*n); err != nil {
			log.Printf("notification failed for reminder %s: %v", due[i].ID, err)
			continue
		}

		if _, err := db.MarkReminderTriggered(database, due[i].ID); err != nil {
			return notified, err
		}
		notified++
	}

	return notified, nil
}

// HandleAction applies a user's notification response to the reminder.
func HandleAction(database *sql.DB, action string, reminderID uuid.UUID, now time.Time) error {
	switch action {
	case ActionCall, ActionComplete:
		_, err := db.CompleteReminder(database, reminderID, now)
		return err

	case ActionSnooze:
		_, err := db.SnoozeReminder(database, reminderID, defaultSnoozeMinutes, now)
		return err

	case ActionDismiss:
		_, err := db.DismissReminder(database, reminderID)
		return err

	case ActionViewAddress:
		// Display-only action, no state change
		return nil

	default:
		return fmt.Errorf("unknown notification action: %s", action)
	}
}

func callReminderBody(contact *models.Contact) string {
	var parts []string

	if contact.Relationship != "" {
		parts = append(parts, fmt.Sprintf("Your %s", strings.ReplaceAll(contact.Relationship, "_", " ")))
	}
	if phone := contact.PrimaryPhone(); phone != "" {
		parts = append(parts, fmt.Sprintf("📱 %s", phone))
	}

	if len(parts) == 0 {
		return "Stay connected!"
	}
	return strings.Join(parts, " • ")
}

func calendarReminderBody(contact *models.Contact, suffix string) string {
	var parts []string

	if addr := contact.FirstAddress(); addr != nil && addr.City != "" {
		parts = append(parts, fmt.Sprintf("📍 %s, %s", addr.City, addr.State))
	}
	parts = append(parts, suffix)

	return strings.Join(parts, " • ")
}
