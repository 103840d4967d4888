package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/navigator"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ navigator.SessionService = (*SessionService)(nil)

const sessionColumns = `id, name, embedding_model, device, normalize, llm_model,
	max_new_tokens, top_k, top_p, typical_p, temperature, repetition_penalty,
	prompt_template, index_path, created_at, updated_at`

// SessionService implements navigator.SessionService using SQLite.
type SessionService struct {
	db *DB
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *DB) *SessionService {
	return &SessionService{db: db}
}

// CreateSession creates a new session with its registry and documents.
func (s *SessionService) CreateSession(ctx context.Context, session *navigator.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions WHERE name = ?", session.Name).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return navigator.Errorf(navigator.ECONFLICT, "session %q already exists", session.Name)
	}

	session.ID = uuid.New().String()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	m, g := session.Models, session.Models.Generation
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.Name, m.Embedding.Model, m.Embedding.Device, m.Embedding.Normalize, m.LLMModel,
		g.MaxNewTokens, g.TopK, g.TopP, g.TypicalP, g.Temperature, g.RepetitionPenalty,
		string(session.PromptTemplate), session.IndexPath,
		session.CreatedAt.Format(time.RFC3339), session.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	if err := insertRecords(ctx, tx, session.ID, session.Registry.Records); err != nil {
		return err
	}
	if err := insertDocuments(ctx, tx, session.ID, session.Documents); err != nil {
		return err
	}

	return tx.Commit()
}

// FindSessionByID retrieves a session by ID with its registry and documents.
func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*navigator.Session, error) {
	session, err := scanSession(s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, navigator.Errorf(navigator.ENOTFOUND, "session not found")
	}
	if err != nil {
		return nil, err
	}

	if session.Registry.Records, err = s.findRecords(ctx, id); err != nil {
		return nil, err
	}
	if session.Documents, err = s.findDocuments(ctx, id); err != nil {
		return nil, err
	}
	return session, nil
}

// FindSessions retrieves sessions matching the filter, newest first.
// Registry and documents are not loaded.
func (s *SessionService) FindSessions(ctx context.Context, filter navigator.SessionFilter) ([]*navigator.Session, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + sessionColumns + " FROM sessions WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY created_at DESC, name")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*navigator.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// UpdateSession applies upd in a single transaction. Registry and documents
// are replaced wholesale when set.
func (s *SessionService) UpdateSession(ctx context.Context, id string, upd navigator.SessionUpdate) (*navigator.Session, error) {
	session, err := s.FindSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		session.Name = *upd.Name
	}
	if upd.Registry != nil {
		session.Registry = *upd.Registry
	}
	if upd.Documents != nil {
		session.Documents = *upd.Documents
	}
	if upd.Models != nil {
		session.Models = *upd.Models
	}
	if upd.PromptTemplate != nil {
		session.PromptTemplate = *upd.PromptTemplate
	}
	if upd.IndexPath != nil {
		session.IndexPath = *upd.IndexPath
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if upd.Name != nil {
		var exists int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions WHERE name = ? AND id != ?", session.Name, id).Scan(&exists); err != nil {
			return nil, err
		}
		if exists > 0 {
			return nil, navigator.Errorf(navigator.ECONFLICT, "session %q already exists", session.Name)
		}
	}

	session.UpdatedAt = time.Now().UTC()

	m, g := session.Models, session.Models.Generation
	_, err = tx.ExecContext(ctx, `
		UPDATE sessions
		SET name = ?, embedding_model = ?, device = ?, normalize = ?, llm_model = ?,
			max_new_tokens = ?, top_k = ?, top_p = ?, typical_p = ?, temperature = ?, repetition_penalty = ?,
			prompt_template = ?, index_path = ?, updated_at = ?
		WHERE id = ?
	`, session.Name, m.Embedding.Model, m.Embedding.Device, m.Embedding.Normalize, m.LLMModel,
		g.MaxNewTokens, g.TopK, g.TopP, g.TypicalP, g.Temperature, g.RepetitionPenalty,
		string(session.PromptTemplate), session.IndexPath, session.UpdatedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, err
	}

	if upd.Registry != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM url_records WHERE session_id = ?", id); err != nil {
			return nil, err
		}
		if err := insertRecords(ctx, tx, id, session.Registry.Records); err != nil {
			return nil, err
		}
	}
	if upd.Documents != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE session_id = ?", id); err != nil {
			return nil, err
		}
		if err := insertDocuments(ctx, tx, id, session.Documents); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession permanently removes a session with its registry and documents.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return navigator.Errorf(navigator.ENOTFOUND, "session not found")
	}

	return nil
}

func (s *SessionService) findRecords(ctx context.Context, sessionID string) ([]navigator.URLRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, type, page_name, scanned_at, ignored
		FROM url_records
		WHERE session_id = ?
		ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []navigator.URLRecord
	for rows.Next() {
		var rec navigator.URLRecord
		var typ, scannedAt string
		if err := rows.Scan(&rec.URL, &typ, &rec.PageName, &scannedAt, &rec.Ignore); err != nil {
			return nil, err
		}
		rec.Type = navigator.LinkType(typ)
		if rec.ScannedAt, err = parseRFC3339(scannedAt, "scanned_at"); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SessionService) findDocuments(ctx context.Context, sessionID string) ([]*navigator.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_url, content, metadata
		FROM documents
		WHERE session_id = ?
		ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*navigator.Document
	for rows.Next() {
		var doc navigator.Document
		var metadata string
		if err := rows.Scan(&doc.SourceURL, &doc.Content, &metadata); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(metadata), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse metadata for %s: %w", doc.SourceURL, err)
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

func insertRecords(ctx context.Context, tx *sql.Tx, sessionID string, records []navigator.URLRecord) error {
	if len(records) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO url_records (session_id, position, url, type, page_name, scanned_at, ignored)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, sessionID, i, rec.URL, string(rec.Type), rec.PageName, formatTime(rec.ScannedAt), rec.Ignore); err != nil {
			return err
		}
	}
	return nil
}

func insertDocuments(ctx context.Context, tx *sql.Tx, sessionID string, docs []*navigator.Document) error {
	if len(docs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (session_id, position, source_url, content, metadata)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, doc := range docs {
		if err := doc.Validate(); err != nil {
			return err
		}
		metadata, err := json.Marshal(doc.Metadata)
		if err != nil {
			return err
		}
		if doc.Metadata == nil {
			metadata = []byte("{}")
		}
		if _, err := stmt.ExecContext(ctx, sessionID, i, doc.SourceURL, doc.Content, string(metadata)); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*navigator.Session, error) {
	var session navigator.Session
	var template, createdAt, updatedAt string
	m := &session.Models
	g := &session.Models.Generation

	if err := row.Scan(&session.ID, &session.Name, &m.Embedding.Model, &m.Embedding.Device, &m.Embedding.Normalize, &m.LLMModel,
		&g.MaxNewTokens, &g.TopK, &g.TopP, &g.TypicalP, &g.Temperature, &g.RepetitionPenalty,
		&template, &session.IndexPath, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	session.PromptTemplate = navigator.PromptTemplate(template)

	var err error
	if session.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if session.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &session, nil
}
