package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Logger writes tour audit events to a SQLite DB at an explicit path. A nil
// Logger or an empty path disables auditing; callers never check first.
type Logger struct {
	DBPath string
}

// NewLogger returns a Logger bound to the provided DB path.
func NewLogger(dbPath string) *Logger {
	return &Logger{DBPath: dbPath}
}

// Event is one recorded audit entry.
type Event struct {
	ID      int64
	TS      time.Time
	Actor   string
	Type    string
	Payload string
}

// LogEvent appends an event. The payload is stored as JSON.
func (l *Logger) LogEvent(actor string, eventType string, payload any) error {
	if l == nil || l.DBPath == "" {
		return nil
	}
	resolved, err := resolveDBPath(l.DBPath)
	if err != nil {
		return err
	}
	return writeEvent(resolved, actor, eventType, payload)
}

// Recent returns up to limit events, newest first.
func (l *Logger) Recent(limit int) ([]Event, error) {
	if l == nil || l.DBPath == "" {
		return nil, fmt.Errorf("no audit db configured")
	}
	if limit <= 0 {
		limit = 20
	}
	resolved, err := resolveDBPath(l.DBPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := ensureSchema(db); err != nil {
		return nil, err
	}

	rows, err := db.Query(
		"SELECT id, ts, actor, type, payload_json FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var events []Event
	for rows.Next() {
		var (
			e  Event
			ts sql.NullString
		)
		if err := rows.Scan(&e.ID, &ts, &e.Actor, &e.Type, &e.Payload); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if ts.Valid {
			if parsed, err := time.Parse(time.RFC3339, ts.String); err == nil {
				e.TS = parsed
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read audit events: %w", err)
	}
	return events, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts DATETIME NOT NULL,
			actor TEXT NOT NULL,
			type TEXT NOT NULL,
			payload_json TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

func resolveDBPath(dbPath string) (string, error) {
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return "", fmt.Errorf("resolve audit db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("ensure audit db dir: %w", err)
	}
	return absPath, nil
}

func writeEvent(dbPath string, actor string, eventType string, payload any) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open audit db: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := ensureSchema(db); err != nil {
		return err
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	_, err = db.Exec(
		"INSERT INTO events (ts, actor, type, payload_json) VALUES (?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339),
		actor,
		eventType,
		string(payloadJSON),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}

	return nil
}
