// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	nickname TEXT,
	relationship TEXT,
	category TEXT,
	phones TEXT NOT NULL DEFAULT '[]',
	emails TEXT NOT NULL DEFAULT '[]',
	addresses TEXT NOT NULL DEFAULT '[]',
	birthday TEXT,
	anniversary TEXT,
	reminder_enabled INTEGER NOT NULL DEFAULT 1,
	reminder_interval_days INTEGER NOT NULL DEFAULT 30 CHECK(reminder_interval_days >= 1),
	reminder_preferred_time TEXT,
	notes TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_name ON contacts(name);
CREATE INDEX IF NOT EXISTS idx_contacts_category ON contacts(category);
CREATE INDEX IF NOT EXISTS idx_contacts_relationship ON contacts(relationship);

CREATE TABLE IF NOT EXISTS interactions (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL,
	type TEXT NOT NULL CHECK(type IN ('call', 'video_call', 'text', 'email', 'visit', 'gift', 'card', 'other')),
	direction TEXT NOT NULL CHECK(direction IN ('incoming', 'outgoing')),
	timestamp DATETIME NOT NULL,
	duration INTEGER,
	notes TEXT,
	sentiment TEXT CHECK(sentiment IN ('positive', 'neutral', 'negative') OR sentiment IS NULL),
	source TEXT NOT NULL DEFAULT 'manual' CHECK(source IN ('manual', 'auto')),
	FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_interactions_contact ON interactions(contact_id);
CREATE INDEX IF NOT EXISTS idx_interactions_timestamp ON interactions(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_interactions_type ON interactions(type);

CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL,
	type TEXT NOT NULL CHECK(type IN ('scheduled_call', 'birthday', 'anniversary', 'custom')),
	scheduled_for DATETIME NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'triggered', 'completed', 'snoozed', 'dismissed')),
	action_type TEXT NOT NULL CHECK(action_type IN ('call', 'send_card', 'send_gift', 'visit', 'custom')),
	action_data TEXT,
	is_recurring INTEGER NOT NULL DEFAULT 0,
	recurrence_rule TEXT,
	created_at DATETIME NOT NULL,
	completed_at DATETIME,
	FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_reminders_contact ON reminders(contact_id);
CREATE INDEX IF NOT EXISTS idx_reminders_scheduled ON reminders(scheduled_for);
CREATE INDEX IF NOT EXISTS idx_reminders_status ON reminders(status);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
