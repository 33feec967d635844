package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

// InitDatabase initializes SQLite database and creates tables
func InitDatabase(dbPath string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	var err error
	DB, err = sql.Open("sqlite3", dbPath+"?_foreign_keys=1&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Create tables
	if err := CreateTables(DB); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("Database initialized at: %s", dbPath)
	return nil
}

// CreateTables creates all necessary tables
func CreateTables(database *sql.DB) error {
	createClientsTable := `
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		presentation_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := database.Exec(createClientsTable); err != nil {
		return fmt.Errorf("failed to create clients table: %w", err)
	}

	createEventsTable := `
	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY,
		presentation_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		section_id TEXT NOT NULL,
		item_id TEXT,
		event_type TEXT NOT NULL CHECK (event_type IN ('enter_section','leave_section','presentation_exit')),
		ts INTEGER NOT NULL,
		duration_ms INTEGER,
		extra TEXT
	);`

	if _, err := database.Exec(createEventsTable); err != nil {
		return fmt.Errorf("failed to create analytics_events table: %w", err)
	}

	createSyncTable := `
	CREATE TABLE IF NOT EXISTS sync_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := database.Exec(createSyncTable); err != nil {
		return fmt.Errorf("failed to create sync_state table: %w", err)
	}

	// Indexes for the analytics reporting queries
	createEventsIndex := `CREATE INDEX IF NOT EXISTS idx_events_presentation ON analytics_events(presentation_id);`
	if _, err := database.Exec(createEventsIndex); err != nil {
		return fmt.Errorf("failed to create events index: %w", err)
	}

	createClientIndex := `CREATE INDEX IF NOT EXISTS idx_clients_presentation ON clients(presentation_id);`
	if _, err := database.Exec(createClientIndex); err != nil {
		return fmt.Errorf("failed to create clients index: %w", err)
	}

	log.Println("Database tables created successfully")
	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
