package notify

import (
	"testing"
	"time"

	"github.com/harperreed/prm/models"
)

func TestPollerEagerFirstRun(t *testing.T) {
	database := setupTestDB(t)
	createContactWithReminder(t, database, models.ReminderScheduledCall, time.Now().Add(-time.Hour))

	notifier := &fakeNotifier{}
	poller := NewPoller(database, notifier)

	// Long interval: only the eager run fires during the test
	if err := poller.Start(time.Hour); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer poller.Stop()

	if len(notifier.sent) != 1 {
		t.Errorf("Expected eager run to deliver 1 notification, got %d", len(notifier.sent))
	}
}

func TestPollerStartIdempotent(t *testing.T) {
	database := setupTestDB(t)
	createContactWithReminder(t, database, models.ReminderScheduledCall, time.Now().Add(-time.Hour))

	notifier := &fakeNotifier{}
	poller := NewPoller(database, notifier)

	if err := poller.Start(time.Hour); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer poller.Stop()

	// Second start must not run another eager check
	if err := poller.Start(time.Hour); err != nil {
		t.Fatalf("Second Start failed: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("Second Start re-ran the check, got %d notifications", len(notifier.sent))
	}
}

func TestPollerStopAndRestart(t *testing.T) {
	database := setupTestDB(t)

	notifier := &fakeNotifier{}
	poller := NewPoller(database, notifier)

	// Stop before start is a no-op
	poller.Stop()

	if err := poller.Start(time.Hour); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	poller.Stop()
	poller.Stop()

	// Restart after stop works
	if err := poller.Start(time.Hour); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	poller.Stop()
}
