package companies

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/atlasbio/atlas/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	ticker TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	company_type TEXT NOT NULL DEFAULT '',
	domain_tags TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_companies_ticker ON companies(ticker);
`

// Repository is a sqlite-backed company store.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a company repository on the given database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InitSchema creates the companies table if it does not exist.
func (r *Repository) InitSchema() error {
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create companies schema: %w", err)
	}
	return nil
}

// List returns all registered companies ordered by creation time.
func (r *Repository) List() ([]domain.Company, error) {
	rows, err := r.db.Query(`SELECT id, name, ticker, description, company_type, domain_tags, created_at, updated_at
		FROM companies ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	companies := make([]domain.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	return companies, rows.Err()
}

// Get returns a single company by id.
func (r *Repository) Get(id string) (*domain.Company, error) {
	row := r.db.QueryRow(`SELECT id, name, ticker, description, company_type, domain_tags, created_at, updated_at
		FROM companies WHERE id = ?`, id)
	c, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

// Create registers a new company. The ticker is normalized to upper
// case and the id is derived from it so ids stay readable in exports.
func (r *Repository) Create(input CreateInput) (*domain.Company, error) {
	name := strings.TrimSpace(input.Name)
	ticker := strings.ToUpper(strings.TrimSpace(input.Ticker))
	if name == "" || ticker == "" {
		return nil, ErrMissingFields
	}

	now := time.Now().UTC()
	c := &domain.Company{
		ID:          fmt.Sprintf("%s-%d", ticker, now.UnixMilli()),
		Name:        name,
		Ticker:      ticker,
		Description: input.Description,
		CompanyType: input.CompanyType,
		DomainTags:  input.DomainTags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.DomainTags == nil {
		c.DomainTags = []string{}
	}

	tags, err := json.Marshal(c.DomainTags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode domain tags: %w", err)
	}
	_, err = r.db.Exec(`INSERT INTO companies (id, name, ticker, description, company_type, domain_tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Ticker, c.Description, c.CompanyType, string(tags),
		c.CreatedAt.Format(time.RFC3339Nano), c.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("failed to insert company: %w", err)
	}
	return c, nil
}

// Update applies the non-nil fields of input to an existing company.
func (r *Repository) Update(id string, input UpdateInput) (*domain.Company, error) {
	c, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		c.Name = strings.TrimSpace(*input.Name)
	}
	if input.Ticker != nil {
		c.Ticker = strings.ToUpper(strings.TrimSpace(*input.Ticker))
	}
	if input.Description != nil {
		c.Description = *input.Description
	}
	if input.CompanyType != nil {
		c.CompanyType = *input.CompanyType
	}
	if input.DomainTags != nil {
		c.DomainTags = *input.DomainTags
	}
	if c.Name == "" || c.Ticker == "" {
		return nil, ErrMissingFields
	}
	c.UpdatedAt = time.Now().UTC()

	tags, err := json.Marshal(c.DomainTags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode domain tags: %w", err)
	}
	_, err = r.db.Exec(`UPDATE companies SET name = ?, ticker = ?, description = ?, company_type = ?, domain_tags = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Ticker, c.Description, c.CompanyType, string(tags),
		c.UpdatedAt.Format(time.RFC3339Nano), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return c, nil
}

// Delete removes a company and returns the removed record.
func (r *Repository) Delete(id string) (*domain.Company, error) {
	c, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.Exec(`DELETE FROM companies WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete company: %w", err)
	}
	return c, nil
}

// BulkCreate registers several companies in one transaction. Either
// all of them are created or none are.
func (r *Repository) BulkCreate(inputs []CreateInput) ([]domain.Company, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	created := make([]domain.Company, 0, len(inputs))
	for i, input := range inputs {
		name := strings.TrimSpace(input.Name)
		ticker := strings.ToUpper(strings.TrimSpace(input.Ticker))
		if name == "" || ticker == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrMissingFields)
		}

		now := time.Now().UTC()
		c := domain.Company{
			// Offset keeps ids unique when two entries share a ticker
			// within the same millisecond.
			ID:          fmt.Sprintf("%s-%d", ticker, now.UnixMilli()+int64(i)),
			Name:        name,
			Ticker:      ticker,
			Description: input.Description,
			CompanyType: input.CompanyType,
			DomainTags:  input.DomainTags,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if c.DomainTags == nil {
			c.DomainTags = []string{}
		}
		tags, err := json.Marshal(c.DomainTags)
		if err != nil {
			return nil, fmt.Errorf("failed to encode domain tags: %w", err)
		}
		_, err = tx.Exec(`INSERT INTO companies (id, name, ticker, description, company_type, domain_tags, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Ticker, c.Description, c.CompanyType, string(tags),
			c.CreatedAt.Format(time.RFC3339Nano), c.UpdatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return nil, fmt.Errorf("failed to insert company %s: %w", c.Ticker, err)
		}
		created = append(created, c)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bulk create: %w", err)
	}
	return created, nil
}

// Clear removes all companies and returns how many were removed.
func (r *Repository) Clear() (int, error) {
	res, err := r.db.Exec(`DELETE FROM companies`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear companies: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared rows: %w", err)
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*domain.Company, error) {
	var c domain.Company
	var tags, createdAt, updatedAt string
	err := row.Scan(&c.ID, &c.Name, &c.Ticker, &c.Description, &c.CompanyType, &tags, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &c.DomainTags); err != nil {
		return nil, fmt.Errorf("failed to decode domain tags: %w", err)
	}
	if c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if c.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return &c, nil
}
