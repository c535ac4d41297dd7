// Package companies manages the research company registry.
package companies

import (
	"errors"

	"github.com/atlasbio/atlas/internal/domain"
)

// ErrNotFound is returned when a company id does not exist.
var ErrNotFound = errors.New("company not found")

// ErrMissingFields is returned when a create lacks name or ticker.
var ErrMissingFields = errors.New("name and ticker are required")

// CreateInput carries the fields accepted when registering a company.
type CreateInput struct {
	Name        string   `json:"name"`
	Ticker      string   `json:"ticker"`
	Description string   `json:"description"`
	CompanyType string   `json:"company_type"`
	DomainTags  []string `json:"domain_tags"`
}

// UpdateInput carries the fields accepted when updating a company.
// Nil fields are left unchanged.
type UpdateInput struct {
	Name        *string   `json:"name"`
	Ticker      *string   `json:"ticker"`
	Description *string   `json:"description"`
	CompanyType *string   `json:"company_type"`
	DomainTags  *[]string `json:"domain_tags"`
}

// Store abstracts company persistence so the backing store can be
// swapped without touching callers.
type Store interface {
	List() ([]domain.Company, error)
	Get(id string) (*domain.Company, error)
	Create(input CreateInput) (*domain.Company, error)
	Update(id string, input UpdateInput) (*domain.Company, error)
	Delete(id string) (*domain.Company, error)
	BulkCreate(inputs []CreateInput) ([]domain.Company, error)
	Clear() (int, error)
}
