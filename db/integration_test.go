// ABOUTME: Integration tests demonstrating the record store in action.
// ABOUTME: Walks a contact through interactions, reminders, and backup.

package db

import (
	"testing"
	"time"

	"github.com/harperreed/prm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestKeepInTouchScenario walks a single contact through the full record
// lifecycle: create, log history, reminder transitions, backup and restore.
func TestKeepInTouchScenario(t *testing.T) {
	db := setupTestDB(t)

	// Add mom with a weekly cadence
	mom := &models.Contact{
		Name:         "Mom",
		Relationship: models.RelationParent,
		Phones:       []models.PhoneNumber{{Label: "mobile", Number: "+13125550123", IsPrimary: true}},
		Birthday:     "1958-04-02",
		Reminders:    models.ReminderConfig{Enabled: true, IntervalDays: 7, PreferredTime: "18:00"},
	}
	require.NoError(t, CreateContact(db, mom))

	// A couple of calls over the past weeks
	now := time.Now()
	for _, daysAgo := range []int{14, 6} {
		call := &models.Interaction{
			ContactID: mom.ID,
			Type:      models.InteractionCall,
			Direction: models.DirectionOutgoing,
			Timestamp: now.Add(-time.Duration(daysAgo) * 24 * time.Hour),
			Duration:  25,
			Sentiment: models.SentimentPositive,
		}
		require.NoError(t, LogInteraction(db, call))
	}

	days, err := DaysSinceLastInteraction(db, mom.ID, now)
	require.NoError(t, err)
	require.NotNil(t, days)
	assert.Equal(t, 6, *days)

	// Weekly check-in reminder, currently due
	checkIn := &models.Reminder{
		ContactID:    mom.ID,
		Type:         models.ReminderScheduledCall,
		ScheduledFor: now.Add(-time.Hour),
		ActionType:   models.ActionCall,
		ActionData:   map[string]any{"phoneNumber": mom.PrimaryPhone()},
		IsRecurring:  true,
	}
	require.NoError(t, CreateReminder(db, checkIn))

	due, err := GetDueReminders(db, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, checkIn.ID, due[0].ID)

	// Snooze it, then complete it once the snooze passes
	snoozed, err := SnoozeReminder(db, checkIn.ID, 30, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSnoozed, snoozed.Status)

	due, err = GetDueReminders(db, now)
	require.NoError(t, err)
	assert.Empty(t, due)

	completed, err := CompleteReminder(db, checkIn.ID, now.Add(31*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	// Back up everything and restore into a fresh store
	blob, err := ExportJSON(db)
	require.NoError(t, err)

	restored := setupTestDB(t)
	counts, err := Import(restored, blob)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Contacts)
	assert.Equal(t, 2, counts.Interactions)
	assert.Equal(t, 1, counts.Reminders)

	gotMom, err := GetContact(restored, mom.ID)
	require.NoError(t, err)
	require.NotNil(t, gotMom)
	assert.Equal(t, "Mom", gotMom.Name)
	assert.Equal(t, 7, gotMom.Reminders.IntervalDays)

	gotReminder, err := GetReminder(restored, checkIn.ID)
	require.NoError(t, err)
	require.NotNil(t, gotReminder)
	assert.Equal(t, models.StatusCompleted, gotReminder.Status)
	require.NotNil(t, gotReminder.CompletedAt)
}
