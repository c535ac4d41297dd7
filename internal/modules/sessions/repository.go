// Package sessions persists evaluation state across navigation steps:
// the selected companies, the latest analyses, the resolved criteria,
// and the ranking results.
package sessions

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/atlasbio/atlas/internal/domain"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a session id does not exist.
var ErrNotFound = errors.New("session not found")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	company_ids TEXT NOT NULL DEFAULT '[]',
	analyses TEXT NOT NULL DEFAULT '[]',
	criteria TEXT NOT NULL DEFAULT '{}',
	results TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// Session is one persisted evaluation. Sessions have no expiry; the
// caller clears explicitly to start over.
type Session struct {
	ID         string                    `json:"id"`
	CompanyIDs []string                  `json:"company_ids"`
	Analyses   []domain.CompanyAnalysis  `json:"analyses"`
	Criteria   domain.EvaluationCriteria `json:"criteria"`
	Results    []domain.RankingResult    `json:"results"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}

// Repository is a sqlite-backed session store.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a session repository on the given database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InitSchema creates the sessions table if it does not exist.
func (r *Repository) InitSchema() error {
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create sessions schema: %w", err)
	}
	return nil
}

// Create starts a new empty session.
func (r *Repository) Create() (*Session, error) {
	now := time.Now().UTC()
	s := &Session{
		ID:         uuid.New().String(),
		CompanyIDs: []string{},
		Analyses:   []domain.CompanyAnalysis{},
		Criteria:   domain.EvaluationCriteria{},
		Results:    []domain.RankingResult{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.write(s, true); err != nil {
		return nil, err
	}
	return s, nil
}

// Save upserts the full session state.
func (r *Repository) Save(s *Session) error {
	if s.ID == "" {
		return errors.New("session id is required")
	}
	s.UpdatedAt = time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = s.UpdatedAt
	}
	return r.write(s, false)
}

// Load returns a session by id.
func (r *Repository) Load(id string) (*Session, error) {
	row := r.db.QueryRow(`SELECT id, company_ids, analyses, criteria, results, created_at, updated_at
		FROM sessions WHERE id = ?`, id)

	var s Session
	var companyIDs, analyses, criteria, results, createdAt, updatedAt string
	err := row.Scan(&s.ID, &companyIDs, &analyses, &criteria, &results, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := json.Unmarshal([]byte(companyIDs), &s.CompanyIDs); err != nil {
		return nil, fmt.Errorf("failed to decode company ids: %w", err)
	}
	if err := json.Unmarshal([]byte(analyses), &s.Analyses); err != nil {
		return nil, fmt.Errorf("failed to decode analyses: %w", err)
	}
	if err := json.Unmarshal([]byte(criteria), &s.Criteria); err != nil {
		return nil, fmt.Errorf("failed to decode criteria: %w", err)
	}
	if err := json.Unmarshal([]byte(results), &s.Results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if s.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return &s, nil
}

// Clear deletes a session. Clearing an unknown id is not an error.
func (r *Repository) Clear(id string) error {
	if _, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (r *Repository) write(s *Session, insertOnly bool) error {
	companyIDs, err := json.Marshal(s.CompanyIDs)
	if err != nil {
		return fmt.Errorf("failed to encode company ids: %w", err)
	}
	analyses, err := json.Marshal(s.Analyses)
	if err != nil {
		return fmt.Errorf("failed to encode analyses: %w", err)
	}
	criteria, err := json.Marshal(s.Criteria)
	if err != nil {
		return fmt.Errorf("failed to encode criteria: %w", err)
	}
	results, err := json.Marshal(s.Results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	query := `INSERT INTO sessions (id, company_ids, analyses, criteria, results, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if !insertOnly {
		query += ` ON CONFLICT(id) DO UPDATE SET
			company_ids = excluded.company_ids,
			analyses = excluded.analyses,
			criteria = excluded.criteria,
			results = excluded.results,
			updated_at = excluded.updated_at`
	}
	_, err = r.db.Exec(query,
		s.ID, string(companyIDs), string(analyses), string(criteria), string(results),
		s.CreatedAt.Format(time.RFC3339Nano), s.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}
