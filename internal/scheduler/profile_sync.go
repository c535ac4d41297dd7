package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atlasbio/atlas/internal/domain"
	"github.com/atlasbio/atlas/internal/events"
	"github.com/atlasbio/atlas/internal/modules/companies"
	"github.com/rs/zerolog"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS profile_snapshots (
	ticker TEXT PRIMARY KEY,
	profile TEXT NOT NULL,
	synced_at TEXT NOT NULL
);
`

// ProfileFetcher fetches a financial profile for a ticker.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, ticker string) (*domain.FinancialProfile, error)
}

// ProfileSyncJob refreshes the stored financial snapshot for every
// registered company. Runs nightly; providers are called one at a
// time, same as the analysis pipeline.
type ProfileSyncJob struct {
	store    companies.Store
	profiles ProfileFetcher
	db       *sql.DB
	events   *events.Manager
	log      zerolog.Logger
	timeout  time.Duration
}

// NewProfileSyncJob creates the nightly profile sync job.
func NewProfileSyncJob(store companies.Store, profiles ProfileFetcher, db *sql.DB, eventManager *events.Manager, log zerolog.Logger) *ProfileSyncJob {
	return &ProfileSyncJob{
		store:    store,
		profiles: profiles,
		db:       db,
		events:   eventManager,
		log:      log.With().Str("job", "profile_sync").Logger(),
		timeout:  10 * time.Minute,
	}
}

// Name returns the job name.
func (j *ProfileSyncJob) Name() string {
	return "profile_sync"
}

// InitSchema creates the snapshot table if it does not exist.
func (j *ProfileSyncJob) InitSchema() error {
	if _, err := j.db.Exec(snapshotSchema); err != nil {
		return fmt.Errorf("failed to create profile_snapshots schema: %w", err)
	}
	return nil
}

// Run syncs every registered company's profile. A single company
// failing does not stop the sweep.
func (j *ProfileSyncJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	registered, err := j.store.List()
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	j.events.Emit(events.ProfileSyncStart, "scheduler", map[string]interface{}{
		"companies": len(registered),
	})

	var synced, failed int
	for _, company := range registered {
		if company.Ticker == "" {
			continue
		}
		if err := j.syncOne(ctx, company.Ticker); err != nil {
			j.log.Warn().Err(err).Str("ticker", company.Ticker).Msg("Profile sync failed for company")
			failed++
			continue
		}
		synced++
	}

	j.log.Info().Int("synced", synced).Int("failed", failed).Msg("Profile sync finished")
	j.events.Emit(events.ProfileSyncComplete, "scheduler", map[string]interface{}{
		"synced": synced,
		"failed": failed,
	})
	return nil
}

func (j *ProfileSyncJob) syncOne(ctx context.Context, ticker string) error {
	profile, err := j.profiles.GetProfile(ctx, ticker)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	_, err = j.db.Exec(`INSERT INTO profile_snapshots (ticker, profile, synced_at) VALUES (?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET profile = excluded.profile, synced_at = excluded.synced_at`,
		ticker, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Snapshot returns the stored profile for a ticker, if any.
func (j *ProfileSyncJob) Snapshot(ticker string) (*domain.FinancialProfile, time.Time, error) {
	row := j.db.QueryRow(`SELECT profile, synced_at FROM profile_snapshots WHERE ticker = ?`, ticker)

	var payload, syncedAt string
	if err := row.Scan(&payload, &syncedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var profile domain.FinancialProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, syncedAt)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to parse synced_at: %w", err)
	}
	return &profile, ts, nil
}
