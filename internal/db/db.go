package db

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

const FileName = "growthbot.db"

// Setting keys.
const (
	KeyUserID      = "user_id"
	KeyThreadID    = "thread_id"
	KeySidebarOpen = "sidebar_open"
	KeyTheme       = "theme"
)

// Open opens (and creates if needed) the local database inside dir.
func Open(dir string) (*sql.DB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return OpenPath(filepath.Join(dir, FileName))
}

func OpenPath(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema := []string{
		`PRAGMA journal_mode = WAL;`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return db, nil
}

func GetSetting(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func SetSetting(db *sql.DB, key, value string) error {
	_, err := db.Exec(
		`INSERT INTO settings(key, value, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		value,
		time.Now().Unix(),
	)
	return err
}

// InsertSettingIfAbsent writes value only when key has no value yet and
// returns whichever value is stored afterwards.
func InsertSettingIfAbsent(db *sql.DB, key, value string) (string, error) {
	if _, err := db.Exec(
		"INSERT OR IGNORE INTO settings(key, value, updated_at) VALUES(?, ?, ?)",
		key,
		value,
		time.Now().Unix(),
	); err != nil {
		return "", err
	}
	stored, _, err := GetSetting(db, key)
	return stored, err
}

func DeleteSetting(db *sql.DB, key string) error {
	_, err := db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

func GetBool(db *sql.DB, key string, fallback bool) (bool, error) {
	v, ok, err := GetSetting(db, key)
	if err != nil || !ok {
		return fallback, err
	}
	b, perr := strconv.ParseBool(v)
	if perr != nil {
		return fallback, nil
	}
	return b, nil
}

func SetBool(db *sql.DB, key string, value bool) error {
	return SetSetting(db, key, strconv.FormatBool(value))
}
