package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/faredrop/fare-discovery-engine/internal/domain"
	"github.com/faredrop/fare-discovery-engine/internal/usecase"
)

// DealStore persists discovery runs and expanded deals. Deals are inserted
// without a uniqueness constraint; repeated observations of the same route
// and dates are kept for historical price tracking.
type DealStore struct {
	pool *pgxpool.Pool
}

// NewDealStore creates a DealStore over an existing connection pool.
func NewDealStore(pool *pgxpool.Pool) (*DealStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("connection pool is required")
	}
	return &DealStore{pool: pool}, nil
}

var _ usecase.DealStore = (*DealStore)(nil)

// schema creates the run and deal tables when they do not exist yet.
const schema = `
CREATE TABLE IF NOT EXISTS scrape_runs (
	id             BIGSERIAL PRIMARY KEY,
	started_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at   TIMESTAMPTZ,
	origins_count  INT NOT NULL,
	search_region  TEXT,
	candidates     INT NOT NULL DEFAULT 0,
	expansions_attempted INT NOT NULL DEFAULT 0,
	expansions_succeeded INT NOT NULL DEFAULT 0,
	status         TEXT NOT NULL DEFAULT 'running'
);

CREATE TABLE IF NOT EXISTS expanded_deals (
	id                 BIGSERIAL PRIMARY KEY,
	scrape_run_id      BIGINT REFERENCES scrape_runs(id),
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	origin             TEXT NOT NULL,
	destination        TEXT NOT NULL,
	outbound_date      DATE NOT NULL,
	return_date        DATE NOT NULL,
	price              INT NOT NULL,
	reference_price    INT NOT NULL,
	similar_date_count INT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_expanded_deals_route
	ON expanded_deals (origin, destination);
`

// EnsureSchema creates the tables if they are missing.
func (s *DealStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// BeginRun records the start of a discovery run and returns its ID.
func (s *DealStore) BeginRun(ctx context.Context, origins []string, region domain.Region) (int64, error) {
	const sql = `
		INSERT INTO scrape_runs (origins_count, search_region, status)
		VALUES ($1, $2, 'running')
		RETURNING id`

	var runID int64
	if err := s.pool.QueryRow(ctx, sql, len(origins), region.String()).Scan(&runID); err != nil {
		return 0, fmt.Errorf("failed to create scrape run: %w", err)
	}
	return runID, nil
}

// SaveExpansion inserts the similar-priced deals of one expanded route.
// One row per calendar point that fell within the price band.
func (s *DealStore) SaveExpansion(ctx context.Context, runID int64, result *domain.ExpansionResult) error {
	if result == nil || len(result.SimilarPriced) == 0 {
		return nil
	}

	const sql = `
		INSERT INTO expanded_deals
			(scrape_run_id, origin, destination, outbound_date, return_date,
			 price, reference_price, similar_date_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	batch := &pgx.Batch{}
	for _, p := range result.SimilarPriced {
		batch.Queue(sql,
			runID, result.Origin, result.Destination,
			p.OutboundDate, p.ReturnDate,
			p.Price, result.ReferencePrice, len(result.SimilarPriced))
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert deals for %s-%s: %w", result.Origin, result.Destination, err)
	}
	return nil
}

// CompleteRun marks a run as finished and records its final statistics.
func (s *DealStore) CompleteRun(ctx context.Context, runID int64, summary *usecase.RunSummary) error {
	const sql = `
		UPDATE scrape_runs
		SET completed_at = NOW(),
			candidates = $1,
			expansions_attempted = $2,
			expansions_succeeded = $3,
			status = 'completed'
		WHERE id = $4`

	attempted := summary.SucceededData + summary.SucceededEmpty + summary.Failed
	if _, err := s.pool.Exec(ctx, sql, summary.Candidates, attempted, summary.SucceededData, runID); err != nil {
		return fmt.Errorf("failed to complete scrape run %d: %w", runID, err)
	}
	return nil
}
