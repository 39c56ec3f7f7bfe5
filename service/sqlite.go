package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/docvault/server/model"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a SQLite database file. The schema is
// created on open and parent directories are created if needed.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL improves concurrent read behavior
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	slog.Info("sqlite store initialized", "path", path)
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			object_key TEXT NOT NULL,
			file_url TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS ingestion_processes (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			status TEXT NOT NULL,
			error_msg TEXT NOT NULL DEFAULT '',
			payload BLOB,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_processes_document_id
			ON ingestion_processes(document_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, role) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) findUser(ctx context.Context, where, arg string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role FROM users WHERE `+where, arg)

	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

func (s *SQLiteStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *SQLiteStore) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.findUser(ctx, "username = ?", username)
}

func (s *SQLiteStore) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, email, password_hash, role FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var result []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		result = append(result, &u)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) UpdateUserRole(ctx context.Context, id, role string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return fmt.Errorf("updating user role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *SQLiteStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, description, owner_id, filename, object_key, file_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, doc.Description, doc.OwnerID, doc.Filename,
		doc.ObjectKey, doc.FileURL, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindDocumentByID(ctx context.Context, id string) (*model.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, owner_id, filename, object_key, file_url, created_at, updated_at
		 FROM documents WHERE id = ?`, id)

	var d model.Document
	err := row.Scan(&d.ID, &d.Title, &d.Description, &d.OwnerID, &d.Filename,
		&d.ObjectKey, &d.FileURL, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &d, nil
}

func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]*model.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, owner_id, filename, object_key, file_url, created_at, updated_at
		 FROM documents ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var result []*model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Description, &d.OwnerID, &d.Filename,
			&d.ObjectKey, &d.FileURL, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		result = append(result, &d)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) UpdateDocument(ctx context.Context, doc *model.Document) error {
	doc.UpdatedAt = time.Now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET title = ?, description = ?, filename = ?, object_key = ?, file_url = ?, updated_at = ?
		 WHERE id = ?`,
		doc.Title, doc.Description, doc.Filename, doc.ObjectKey, doc.FileURL, doc.UpdatedAt, doc.ID)
	if err != nil {
		return fmt.Errorf("updating document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *SQLiteStore) CreateProcess(ctx context.Context, p *model.IngestionProcess) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingestion_processes (id, document_id, status, error_msg, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.DocumentID, p.Status, p.ErrorMsg, []byte(p.Payload), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting ingestion process: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindProcessByID(ctx context.Context, id string) (*model.IngestionProcess, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, document_id, status, error_msg, payload, created_at, updated_at
		 FROM ingestion_processes WHERE id = ?`, id)

	var p model.IngestionProcess
	var payload []byte
	err := row.Scan(&p.ID, &p.DocumentID, &p.Status, &p.ErrorMsg, &payload, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning ingestion process: %w", err)
	}
	p.Payload = payload
	return &p, nil
}

func (s *SQLiteStore) ListProcesses(ctx context.Context) ([]*model.IngestionProcess, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, status, error_msg, payload, created_at, updated_at
		 FROM ingestion_processes ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("querying ingestion processes: %w", err)
	}
	defer rows.Close()

	var result []*model.IngestionProcess
	for rows.Next() {
		var p model.IngestionProcess
		var payload []byte
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.Status, &p.ErrorMsg, &payload,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning ingestion process: %w", err)
		}
		p.Payload = payload
		result = append(result, &p)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) UpdateProcess(ctx context.Context, p *model.IngestionProcess) error {
	p.UpdatedAt = time.Now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE ingestion_processes SET status = ?, error_msg = ?, payload = ?, updated_at = ? WHERE id = ?`,
		p.Status, p.ErrorMsg, []byte(p.Payload), p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("updating ingestion process: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProcessNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
