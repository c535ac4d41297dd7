package companies

import (
	"testing"

	"github.com/atlasbio/atlas/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewRepository(db.Conn())
	require.NoError(t, repo.InitSchema())
	return repo
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(CreateInput{
		Name:       "Pfizer Inc.",
		Ticker:     "pfe",
		DomainTags: []string{"oncology", "vaccines"},
	})
	require.NoError(t, err)

	assert.Equal(t, "PFE", created.Ticker, "ticker should be upper-cased")
	assert.Contains(t, created.ID, "PFE-")
	assert.Equal(t, []string{"oncology", "vaccines"}, created.DomainTags)

	got, err := repo.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.DomainTags, got.DomainTags)
}

func TestRepository_CreateRequiresNameAndTicker(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Create(CreateInput{Name: "No Ticker Co"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = repo.Create(CreateInput{Ticker: "NT"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestRepository_GetNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get("MISSING-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Update(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(CreateInput{Name: "Moderna", Ticker: "MRNA"})
	require.NoError(t, err)

	desc := "mRNA therapeutics"
	tags := []string{"mrna", "vaccines"}
	updated, err := repo.Update(created.ID, UpdateInput{
		Description: &desc,
		DomainTags:  &tags,
	})
	require.NoError(t, err)

	assert.Equal(t, "Moderna", updated.Name, "untouched fields stay")
	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, tags, updated.DomainTags)

	got, err := repo.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, desc, got.Description)
}

func TestRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(CreateInput{Name: "Gilead", Ticker: "GILD"})
	require.NoError(t, err)

	removed, err := repo.Delete(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)

	_, err = repo.Get(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_BulkCreateAllOrNothing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.BulkCreate([]CreateInput{
		{Name: "Amgen", Ticker: "AMGN"},
		{Name: "", Ticker: "BAD"},
	})
	assert.ErrorIs(t, err, ErrMissingFields)

	companies, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, companies, "failed bulk create should not leave partial rows")

	created, err := repo.BulkCreate([]CreateInput{
		{Name: "Amgen", Ticker: "AMGN"},
		{Name: "Biogen", Ticker: "BIIB"},
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)
}

func TestRepository_Clear(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Create(CreateInput{Name: "Pfizer", Ticker: "PFE"})
	require.NoError(t, err)
	_, err = repo.Create(CreateInput{Name: "Moderna", Ticker: "MRNA"})
	require.NoError(t, err)

	removed, err := repo.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	companies, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, companies)
}
