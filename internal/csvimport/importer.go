// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package csvimport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danw628/cinelog/internal/config"
	"github.com/danw628/cinelog/internal/database"
	"github.com/danw628/cinelog/internal/metrics"
	"github.com/danw628/cinelog/internal/models"
	"github.com/danw628/cinelog/internal/tmdb"
	"github.com/danw628/cinelog/internal/validation"
)

const (
	// maxDirectorCredits caps how many directors become cast rows per movie.
	maxDirectorCredits = 3

	// postImportEnrichLimit bounds the enrichment pass chained after a
	// successful import. Anything beyond it waits for the next enrichment
	// request.
	postImportEnrichLimit = 1000

	// defaultProgressEvery is used when the configured cadence is unset.
	defaultProgressEvery = 25
)

// Store is the slice of the database layer the importer writes through.
type Store interface {
	CreateImportRun(ctx context.Context, run *models.ImportRun) error
	UpdateImportRunProgress(ctx context.Context, run *models.ImportRun) error
	FinishImportRun(ctx context.Context, id, status, errMsg string) error
	GetMovieByID(ctx context.Context, imdbID string) (*models.Movie, error)
	UpsertMovie(ctx context.Context, m *models.Movie) error
	AddCastMembers(ctx context.Context, imdbID string, credits []models.CastCredit) error
	GetRatingForMovie(ctx context.Context, imdbID string) (*models.UserRating, error)
	CreateRating(ctx context.Context, r *models.UserRating) error
	DeleteAllPreferences(ctx context.Context) error
}

// CacheInvalidator drops derived caches once the collection has changed.
// *recommend.Engine satisfies it.
type CacheInvalidator interface {
	InvalidateCache()
}

// Enricher starts poster enrichment after a successful import.
// *tmdb.Enricher satisfies it; nil disables the post-import hook.
type Enricher interface {
	Run(ctx context.Context, batch int) (*tmdb.RunResult, error)
}

// Options control a single import run.
type Options struct {
	// Path of the CSV file to read. Empty means the configured default.
	Path string

	// EnrichPosters chains a poster enrichment pass once the run
	// completes.
	EnrichPosters bool
}

// Importer runs CSV imports in the background, one at a time.
type Importer struct {
	store    Store
	caches   CacheInvalidator
	enricher Enricher
	cfg      config.ImportConfig
	logger   zerolog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewImporter wires an importer. caches and enricher may be nil; a nil
// enricher turns the EnrichPosters option into a logged no-op.
func NewImporter(store Store, caches CacheInvalidator, enricher Enricher, cfg config.ImportConfig, logger zerolog.Logger) *Importer {
	return &Importer{
		store:    store,
		caches:   caches,
		enricher: enricher,
		cfg:      cfg,
		logger:   logger.With().Str("component", "import").Logger(),
	}
}

// Start registers a run and processes the file in the background. The
// returned run is a snapshot of the pending row; poll the store for live
// progress. Fails with database.ErrImportRunActive while another run
// holds the single-import slot.
func (imp *Importer) Start(ctx context.Context, opts Options) (*models.ImportRun, error) {
	path := opts.Path
	if path == "" {
		path = imp.cfg.CSVPath
	}

	imp.mu.Lock()
	if imp.running {
		imp.mu.Unlock()
		return nil, database.ErrImportRunActive
	}
	imp.running = true
	imp.mu.Unlock()

	run := &models.ImportRun{
		ID:        uuid.NewString(),
		Status:    models.ImportPending,
		Source:    path,
		StartedAt: time.Now().UTC(),
	}
	if err := imp.store.CreateImportRun(ctx, run); err != nil {
		imp.mu.Lock()
		imp.running = false
		imp.mu.Unlock()
		return nil, err
	}

	// The worker outlives the request that started it, so it gets its
	// own context; Stop cancels it.
	runCtx, cancel := context.WithCancel(context.Background())
	imp.mu.Lock()
	imp.cancel = cancel
	imp.mu.Unlock()

	snapshot := *run
	imp.wg.Add(1)
	go func() {
		defer imp.wg.Done()
		defer func() {
			cancel()
			imp.mu.Lock()
			imp.running = false
			imp.cancel = nil
			imp.mu.Unlock()
		}()
		imp.process(runCtx, run, path, opts.EnrichPosters)
	}()

	return &snapshot, nil
}

// Stop cancels the active run between rows. It reports whether a run was
// in flight.
func (imp *Importer) Stop() bool {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	if !imp.running || imp.cancel == nil {
		return false
	}
	imp.cancel()
	return true
}

// Wait blocks until the background run, if any, has finished. Called on
// shutdown after Stop.
func (imp *Importer) Wait() {
	imp.wg.Wait()
}

// process drives one run to a terminal state and records its outcome.
func (imp *Importer) process(ctx context.Context, run *models.ImportRun, path string, enrichAfter bool) {
	start := time.Now()
	err := imp.importFile(ctx, run, path)
	metrics.RecordImportRun(time.Since(start), run.ProcessedRows, run.SkippedRows, err)

	// The run context dies with Stop, so terminal writes get a fresh one.
	finishCtx := context.Background()

	switch {
	case err == nil:
		if ferr := imp.store.FinishImportRun(finishCtx, run.ID, models.ImportCompleted, ""); ferr != nil {
			imp.logger.Error().Err(ferr).Str("run_id", run.ID).Msg("Failed to finish import run")
		}
		imp.logger.Info().
			Str("run_id", run.ID).
			Int("movies", run.ImportedMovies).
			Int("ratings", run.ImportedRatings).
			Int("skipped", run.SkippedRows).
			Dur("duration", time.Since(start)).
			Msg("Import completed")
		imp.afterSuccess(finishCtx, enrichAfter)
	case errors.Is(err, context.Canceled):
		if ferr := imp.store.FinishImportRun(finishCtx, run.ID, models.ImportStopped, "import stopped"); ferr != nil {
			imp.logger.Error().Err(ferr).Str("run_id", run.ID).Msg("Failed to finish import run")
		}
		imp.logger.Warn().
			Str("run_id", run.ID).
			Int("processed", run.ProcessedRows).
			Msg("Import stopped")
	default:
		if ferr := imp.store.FinishImportRun(finishCtx, run.ID, models.ImportFailed, err.Error()); ferr != nil {
			imp.logger.Error().Err(ferr).Str("run_id", run.ID).Msg("Failed to finish import run")
		}
		imp.logger.Error().Err(err).Str("run_id", run.ID).Msg("Import failed")
	}
}

// afterSuccess drops caches built from the previous collection and
// optionally chains one poster enrichment pass.
func (imp *Importer) afterSuccess(ctx context.Context, enrichAfter bool) {
	if imp.caches != nil {
		imp.caches.InvalidateCache()
	}
	if err := imp.store.DeleteAllPreferences(ctx); err != nil {
		imp.logger.Warn().Err(err).Msg("Failed to clear cached analyses")
	}

	if !enrichAfter {
		return
	}
	if imp.enricher == nil {
		imp.logger.Warn().Msg("Poster enrichment requested but not configured")
		return
	}
	res, err := imp.enricher.Run(ctx, postImportEnrichLimit)
	if err != nil {
		imp.logger.Warn().Err(err).Msg("Post-import enrichment failed")
		return
	}
	if res.Processed > 0 {
		imp.logger.Info().
			Int("enriched", res.Enriched).
			Int("not_found", res.NotFound).
			Msg("Post-import enrichment finished")
	}
}

// importFile reads the export and feeds every row through the store,
// persisting progress as it goes.
func (imp *Importer) importFile(ctx context.Context, run *models.ImportRun, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open csv file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	// Export rows occasionally miss trailing cells; the row accessor
	// treats those as empty instead of failing the whole file.
	reader.FieldsPerRecord = -1

	fields, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read csv header: %w", err)
	}
	cols, err := parseHeader(fields)
	if err != nil {
		return err
	}

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read csv rows: %w", err)
	}

	run.Status = models.ImportRunning
	run.TotalRows = len(records)
	if err := imp.store.UpdateImportRunProgress(ctx, run); err != nil {
		return err
	}

	every := imp.cfg.ProgressEvery
	if every <= 0 {
		every = defaultProgressEvery
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := imp.importRow(ctx, run, row{header: cols, fields: rec}); err != nil {
			return err
		}
		run.ProcessedRows = i + 1
		if run.ProcessedRows%every == 0 || run.ProcessedRows == len(records) {
			if err := imp.store.UpdateImportRunProgress(ctx, run); err != nil {
				return err
			}
		}
	}
	return nil
}

// importRow feeds one export row into the store. Unusable rows are
// counted and skipped; store failures abort the run.
func (imp *Importer) importRow(ctx context.Context, run *models.ImportRun, r row) error {
	imdbID := r.get(colConst)
	if !validation.ValidIMDbID(imdbID) {
		run.SkippedRows++
		imp.logger.Debug().Str("const", imdbID).Msg("Skipping row without IMDb ID")
		return nil
	}

	rec, ok := parseRecord(r)
	if !ok {
		run.SkippedRows++
		imp.logger.Debug().Str("imdb_id", imdbID).Msg("Skipping row without title or year")
		return nil
	}
	run.CurrentTitle = rec.movie.Title

	existing, err := imp.store.GetMovieByID(ctx, imdbID)
	if err != nil {
		return err
	}
	if existing == nil {
		if err := imp.store.UpsertMovie(ctx, rec.movie); err != nil {
			return err
		}
		if credits := directorCredits(rec.directors); len(credits) > 0 {
			if err := imp.store.AddCastMembers(ctx, imdbID, credits); err != nil {
				return err
			}
		}
		run.ImportedMovies++
	}

	if rec.rating == nil {
		return nil
	}
	current, err := imp.store.GetRatingForMovie(ctx, imdbID)
	if err != nil {
		return err
	}
	if current == nil {
		rec.rating.ImdbID = imdbID
		if err := imp.store.CreateRating(ctx, rec.rating); err != nil {
			return err
		}
		run.ImportedRatings++
	}
	return nil
}

// directorCredits maps up to the first three directors to cast rows so
// person lookups cover directors of unenriched movies.
func directorCredits(directors []string) []models.CastCredit {
	if len(directors) > maxDirectorCredits {
		directors = directors[:maxDirectorCredits]
	}
	credits := make([]models.CastCredit, 0, len(directors))
	for _, name := range directors {
		credits = append(credits, models.CastCredit{Name: name, Role: models.RoleDirector})
	}
	return credits
}
