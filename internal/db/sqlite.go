package db

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/horizon-summaries/backend/internal/auth"
	"github.com/horizon-summaries/backend/internal/db/models"
)

type Database struct {
	db *sql.DB
}

func NewSQLite(path string) (*Database, error) {
	sqlDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	d := &Database{db: sqlDB}
	if err := d.migrate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Database) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'viewer',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		source_url TEXT NOT NULL,
		params TEXT NOT NULL,
		progress REAL DEFAULT 0,
		result TEXT,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		started_at DATETIME,
		completed_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS broadcasts (
		id TEXT PRIMARY KEY,
		source_url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		content_type TEXT NOT NULL DEFAULT 'default',
		raw_transcript TEXT NOT NULL DEFAULT '',
		transcript TEXT NOT NULL DEFAULT '',
		topics TEXT NOT NULL DEFAULT '[]',
		summary TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS prompt_presets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		prompt TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS term_corrections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		incorrect_term TEXT NOT NULL UNIQUE,
		correct_term TEXT NOT NULL,
		confidence REAL NOT NULL DEFAULT 1.0,
		reasoning TEXT NOT NULL DEFAULT '',
		correction_type TEXT NOT NULL DEFAULT 'term',
		source TEXT NOT NULL DEFAULT 'llm_identified',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_term_corrections_incorrect ON term_corrections (incorrect_term);
	CREATE INDEX IF NOT EXISTS idx_term_corrections_confidence ON term_corrections (confidence);
	`
	_, err := d.db.Exec(schema)
	return err
}

func (d *Database) EnsureAdmin(username, password string) error {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM users WHERE role = 'admin'").Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		"INSERT INTO users (username, password, role) VALUES (?, ?, 'admin')",
		username, hash,
	)
	return err
}

func (d *Database) GetUserByUsername(username string) (*models.User, error) {
	u := &models.User{}
	err := d.db.QueryRow(
		"SELECT id, username, password, role, created_at, updated_at FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (d *Database) GetUserByID(id int64) (*models.User, error) {
	u := &models.User{}
	err := d.db.QueryRow(
		"SELECT id, username, password, role, created_at, updated_at FROM users WHERE id = ?",
		id,
	).Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns all users without password hashes
func (d *Database) ListUsers() ([]models.User, error) {
	rows, err := d.db.Query("SELECT id, username, role, created_at, updated_at FROM users ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// CreateUser adds a user with a bcrypt-hashed password
func (d *Database) CreateUser(username, password, role string) (int64, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}
	result, err := d.db.Exec(
		"INSERT INTO users (username, password, role) VALUES (?, ?, ?)",
		username, hash, role,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateUserPassword replaces a user's password hash
func (d *Database) UpdateUserPassword(id int64, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		"UPDATE users SET password = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		hash, id,
	)
	return err
}

// UpdateUserRole changes a user's role
func (d *Database) UpdateUserRole(id int64, role string) error {
	_, err := d.db.Exec(
		"UPDATE users SET role = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		role, id,
	)
	return err
}

// DeleteUser removes a user by ID
func (d *Database) DeleteUser(id int64) error {
	_, err := d.db.Exec("DELETE FROM users WHERE id = ?", id)
	return err
}

// GetSetting returns a setting value by key, or defaultVal if not found
func (d *Database) GetSetting(key, defaultVal string) string {
	var val string
	err := d.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&val)
	if err != nil {
		return defaultVal
	}
	return val
}

// SetSetting upserts a setting
func (d *Database) SetSetting(key, value string) error {
	_, err := d.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP`,
		key, value, value,
	)
	return err
}

// GetAllSettings returns all settings as a map
func (d *Database) GetAllSettings() (map[string]string, error) {
	rows, err := d.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		result[k] = v
	}
	return result, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// DB returns the underlying sql.DB for use by other packages (e.g., job queue)
func (d *Database) DB() *sql.DB {
	return d.db
}

// Broadcast is a fully processed recording: transcript, topics, and summary
type Broadcast struct {
	ID            string    `json:"id"`
	SourceURL     string    `json:"source_url"`
	Title         string    `json:"title"`
	ContentType   string    `json:"content_type"`
	RawTranscript string    `json:"raw_transcript,omitempty"`
	Transcript    string    `json:"transcript"`
	Topics        string    `json:"topics"` // JSON array as stored
	Summary       string    `json:"summary"`
	CreatedAt     time.Time `json:"created_at"`
}

// SaveBroadcast stores the final output of a pipeline run
func (d *Database) SaveBroadcast(b *Broadcast) error {
	_, err := d.db.Exec(`
		INSERT INTO broadcasts (id, source_url, title, content_type, raw_transcript, transcript, topics, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			raw_transcript = excluded.raw_transcript,
			transcript = excluded.transcript,
			topics = excluded.topics,
			summary = excluded.summary`,
		b.ID, b.SourceURL, b.Title, b.ContentType, b.RawTranscript, b.Transcript, b.Topics, b.Summary,
	)
	return err
}

// GetBroadcast returns a processed broadcast by ID
func (d *Database) GetBroadcast(id string) (*Broadcast, error) {
	b := &Broadcast{}
	err := d.db.QueryRow(`
		SELECT id, source_url, title, content_type, raw_transcript, transcript, topics, summary, created_at
		FROM broadcasts WHERE id = ?`, id,
	).Scan(&b.ID, &b.SourceURL, &b.Title, &b.ContentType, &b.RawTranscript, &b.Transcript, &b.Topics, &b.Summary, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBroadcasts returns summaries of all processed broadcasts, newest first.
// Transcript bodies are omitted to keep the listing cheap.
func (d *Database) ListBroadcasts() ([]Broadcast, error) {
	rows, err := d.db.Query(`
		SELECT id, source_url, title, content_type, topics, summary, created_at
		FROM broadcasts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Broadcast
	for rows.Next() {
		var b Broadcast
		if err := rows.Scan(&b.ID, &b.SourceURL, &b.Title, &b.ContentType, &b.Topics, &b.Summary, &b.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	if list == nil {
		list = []Broadcast{}
	}
	return list, nil
}

// SearchBroadcasts returns broadcasts whose title, transcript, or summary
// contains the query, newest first. Transcript bodies are omitted.
func (d *Database) SearchBroadcasts(query string) ([]Broadcast, error) {
	pattern := "%" + query + "%"
	rows, err := d.db.Query(`
		SELECT id, source_url, title, content_type, topics, summary, created_at
		FROM broadcasts
		WHERE title LIKE ? OR transcript LIKE ? OR summary LIKE ?
		ORDER BY created_at DESC`, pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Broadcast
	for rows.Next() {
		var b Broadcast
		if err := rows.Scan(&b.ID, &b.SourceURL, &b.Title, &b.ContentType, &b.Topics, &b.Summary, &b.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	if list == nil {
		list = []Broadcast{}
	}
	return list, nil
}

// PromptPreset represents a saved custom summary prompt template
type PromptPreset struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Prompt    string `json:"prompt"`
	CreatedAt string `json:"created_at"`
}

// ListPromptPresets returns all saved presets ordered by creation time
func (d *Database) ListPromptPresets() ([]PromptPreset, error) {
	rows, err := d.db.Query("SELECT id, name, prompt, created_at FROM prompt_presets ORDER BY created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []PromptPreset
	for rows.Next() {
		var p PromptPreset
		if err := rows.Scan(&p.ID, &p.Name, &p.Prompt, &p.CreatedAt); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	if presets == nil {
		presets = []PromptPreset{}
	}
	return presets, nil
}

// GetPromptPreset returns a single preset by ID
func (d *Database) GetPromptPreset(id int64) (*PromptPreset, error) {
	p := &PromptPreset{}
	err := d.db.QueryRow(
		"SELECT id, name, prompt, created_at FROM prompt_presets WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &p.Prompt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePromptPreset saves a new custom summary prompt
func (d *Database) CreatePromptPreset(name, prompt string) (int64, error) {
	result, err := d.db.Exec(
		"INSERT INTO prompt_presets (name, prompt) VALUES (?, ?)",
		name, prompt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdatePromptPreset modifies an existing preset
func (d *Database) UpdatePromptPreset(id int64, name, prompt string) error {
	_, err := d.db.Exec(
		"UPDATE prompt_presets SET name=?, prompt=? WHERE id=?",
		name, prompt, id,
	)
	return err
}

// DeletePromptPreset removes a saved preset by ID
func (d *Database) DeletePromptPreset(id int64) error {
	_, err := d.db.Exec("DELETE FROM prompt_presets WHERE id = ?", id)
	return err
}
