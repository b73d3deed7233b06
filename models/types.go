// ABOUTME: Data models for personal relationship manager entities
// ABOUTME: Defines Contact, Interaction, and Reminder records plus their enums
package models

import (
	"time"

	"github.com/google/uuid"
)

// RelationshipType constants.
const (
	RelationParent       = "parent"
	RelationSibling      = "sibling"
	RelationChild        = "child"
	RelationSpouse       = "spouse"
	RelationGrandparent  = "grandparent"
	RelationCousin       = "cousin"
	RelationUncleAunt    = "uncle_aunt"
	RelationFriend       = "friend"
	RelationColleague    = "colleague"
	RelationAcquaintance = "acquaintance"
)

type PhoneNumber struct {
	Label     string `json:"label"`
	Number    string `json:"number"`
	IsPrimary bool   `json:"is_primary"`
}

type Address struct {
	Label      string `json:"label"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// ReminderConfig is the check-in cadence contract for a contact.
// IntervalDays is the number of days that may elapse between interactions
// before the contact counts as overdue.
type ReminderConfig struct {
	Enabled       bool   `json:"enabled"`
	IntervalDays  int    `json:"interval_days"`
	PreferredTime string `json:"preferred_time,omitempty"` // "HH:MM", empty = any time
}

// DefaultReminderConfig returns the cadence applied to new contacts.
func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		Enabled:       true,
		IntervalDays:  30,
		PreferredTime: "09:00",
	}
}

// Normalize clamps IntervalDays to the minimum of one day.
func (rc *ReminderConfig) Normalize() {
	if rc.IntervalDays < 1 {
		rc.IntervalDays = 1
	}
}

type Contact struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Nickname     string         `json:"nickname,omitempty"`
	Relationship string         `json:"relationship,omitempty"`
	Category     string         `json:"category,omitempty"`
	Phones       []PhoneNumber  `json:"phones,omitempty"`
	Emails       []string       `json:"emails,omitempty"`
	Addresses    []Address      `json:"addresses,omitempty"`
	Birthday     string         `json:"birthday,omitempty"`    // ISO date, year-agnostic
	Anniversary  string         `json:"anniversary,omitempty"` // ISO date, year-agnostic
	Reminders    ReminderConfig `json:"reminder_config"`
	Notes        string         `json:"notes,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// PrimaryPhone returns the phone flagged primary, the first phone otherwise,
// or empty when the contact has no phone numbers.
func (c *Contact) PrimaryPhone() string {
	for _, p := range c.Phones {
		if p.IsPrimary {
			return p.Number
		}
	}
	if len(c.Phones) > 0 {
		return c.Phones[0].Number
	}
	return ""
}

// FirstAddress returns the contact's first address, or nil.
func (c *Contact) FirstAddress() *Address {
	if len(c.Addresses) == 0 {
		return nil
	}
	return &c.Addresses[0]
}

// InteractionType constants.
const (
	InteractionCall      = "call"
	InteractionVideoCall = "video_call"
	InteractionText      = "text"
	InteractionEmail     = "email"
	InteractionVisit     = "visit"
	InteractionGift      = "gift"
	InteractionCard      = "card"
	InteractionOther     = "other"
)

// Interaction direction constants.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// Interaction source constants.
const (
	SourceManual = "manual"
	SourceAuto   = "auto"
)

// Sentiment constants.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

type Interaction struct {
	ID        uuid.UUID `json:"id"`
	ContactID uuid.UUID `json:"contact_id"`
	Type      string    `json:"type"`
	Direction string    `json:"direction"`
	Timestamp time.Time `json:"timestamp"`
	Duration  int       `json:"duration,omitempty"` // minutes
	Notes     string    `json:"notes,omitempty"`
	Sentiment string    `json:"sentiment,omitempty"`
	Source    string    `json:"source"`
}

// ReminderType constants.
const (
	ReminderScheduledCall = "scheduled_call"
	ReminderBirthday      = "birthday"
	ReminderAnniversary   = "anniversary"
	ReminderCustom        = "custom"
)

// ActionType constants.
const (
	ActionCall     = "call"
	ActionSendCard = "send_card"
	ActionSendGift = "send_gift"
	ActionVisit    = "visit"
	ActionCustom   = "custom"
)

// Reminder status constants.
const (
	StatusPending   = "pending"
	StatusTriggered = "triggered"
	StatusCompleted = "completed"
	StatusSnoozed   = "snoozed"
	StatusDismissed = "dismissed"
)

// RecurrenceYearly is the only recurrence rule in use.
const RecurrenceYearly = "FREQ=YEARLY"

type Reminder struct {
	ID             uuid.UUID      `json:"id"`
	ContactID      uuid.UUID      `json:"contact_id"`
	Type           string         `json:"type"`
	ScheduledFor   time.Time      `json:"scheduled_for"`
	Status         string         `json:"status"`
	ActionType     string         `json:"action_type"`
	ActionData     map[string]any `json:"action_data,omitempty"`
	IsRecurring    bool           `json:"is_recurring"`
	RecurrenceRule string         `json:"recurrence_rule,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}

// IsOutstanding reports whether the reminder still awaits user action.
// A snoozed reminder counts as pending-equivalent; it re-enters the due set
// once its rescheduled time passes.
func (r *Reminder) IsOutstanding() bool {
	return r.Status == StatusPending || r.Status == StatusSnoozed
}
