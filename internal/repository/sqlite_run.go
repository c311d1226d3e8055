package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/kurikula/internal/db"
	"github.com/alexanderramin/kurikula/internal/domain"
)

// SQLiteRunRepo implements RunRepo on top of any DBTX, so it can be used
// directly against the database or inside a unit of work.
type SQLiteRunRepo struct {
	db db.DBTX
}

// NewSQLiteRunRepo creates a new SQLiteRunRepo.
func NewSQLiteRunRepo(db db.DBTX) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: db}
}

const runColumns = `id, narrative, context_json, active_stage, created_at, updated_at`

// Save upserts the run row and replaces its stage results. Empty stages are
// not stored. Call it inside a unit of work so both writes commit together.
func (r *SQLiteRunRepo) Save(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		return fmt.Errorf("saving run: missing ID")
	}
	now := nowUTC()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	run.UpdatedAt = now
	if run.ActiveStage == "" {
		run.ActiveStage = domain.StageObjectives
	}

	ctxJSON, err := json.Marshal(run.Context)
	if err != nil {
		return fmt.Errorf("encoding curriculum context: %w", err)
	}

	query := `INSERT INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			narrative = excluded.narrative,
			context_json = excluded.context_json,
			active_stage = excluded.active_stage,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.Narrative,
		string(ctxJSON),
		string(run.ActiveStage),
		formatTime(run.CreatedAt),
		formatTime(run.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting run: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM stage_results WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("clearing stage results: %w", err)
	}

	for _, stage := range domain.Stages {
		n := run.Plan.Len(stage)
		if n == 0 {
			continue
		}
		payload, err := stagePayload(run.Plan, stage)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", stage, err)
		}
		generatedAt, ok := run.GeneratedAt[stage]
		if !ok || generatedAt.IsZero() {
			generatedAt = run.UpdatedAt
		}
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO stage_results (run_id, stage, payload_json, item_count, generated_at) VALUES (?, ?, ?, ?, ?)`,
			run.ID, string(stage), string(payload), n, formatTime(generatedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting %s results: %w", stage, err)
		}
	}
	return nil
}

func (r *SQLiteRunRepo) GetByID(ctx context.Context, id string) (*domain.Run, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := r.scanRun(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadStages(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// GetByPrefix resolves a full ID or a unique ID prefix, such as the
// eight-character display ID.
func (r *SQLiteRunRepo) GetByPrefix(ctx context.Context, prefix string) (*domain.Run, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, ErrNotFound
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM runs WHERE id LIKE ? ESCAPE '\' LIMIT 2`, escaped+"%")
	if err != nil {
		return nil, fmt.Errorf("resolving run prefix: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run ids: %w", err)
	}
	rows.Close()

	switch len(ids) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return r.GetByID(ctx, ids[0])
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousID, prefix)
	}
}

// Latest returns the most recently updated run.
func (r *SQLiteRunRepo) Latest(ctx context.Context) (*domain.Run, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY updated_at DESC, id LIMIT 1`)
	run, err := r.scanRun(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadStages(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// List returns every run, most recently updated first, with per-stage
// record counts.
func (r *SQLiteRunRepo) List(ctx context.Context) ([]RunSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, context_json, active_stage, updated_at FROM runs ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	index := make(map[string]int)
	for rows.Next() {
		var s RunSummary
		var ctxJSON, stage, updatedAt string
		if err := rows.Scan(&s.ID, &ctxJSON, &stage, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		var cc domain.CurriculumContext
		if err := json.Unmarshal([]byte(ctxJSON), &cc); err != nil {
			return nil, fmt.Errorf("decoding context of run %s: %w", s.ID, err)
		}
		s.Subject = cc.Subject
		s.Level = cc.Level
		s.Phase = cc.Phase
		s.ActiveStage = domain.Stage(stage)
		s.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
		s.Counts = make(map[domain.Stage]int, len(domain.Stages))
		index[s.ID] = len(summaries)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	rows.Close()

	counts, err := r.db.QueryContext(ctx, `SELECT run_id, stage, item_count FROM stage_results`)
	if err != nil {
		return nil, fmt.Errorf("counting stage results: %w", err)
	}
	defer counts.Close()
	for counts.Next() {
		var runID, stage string
		var n int
		if err := counts.Scan(&runID, &stage, &n); err != nil {
			return nil, fmt.Errorf("scanning stage count: %w", err)
		}
		if i, ok := index[runID]; ok {
			summaries[i].Counts[domain.Stage(stage)] = n
		}
	}
	if err := counts.Err(); err != nil {
		return nil, fmt.Errorf("iterating stage counts: %w", err)
	}
	return summaries, nil
}

// Delete removes a run; its stage results go with it.
func (r *SQLiteRunRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRunRepo) scanRun(row *sql.Row) (*domain.Run, error) {
	var run domain.Run
	var ctxJSON, stage, createdAt, updatedAt string
	err := row.Scan(&run.ID, &run.Narrative, &ctxJSON, &stage, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	if err := json.Unmarshal([]byte(ctxJSON), &run.Context); err != nil {
		return nil, fmt.Errorf("decoding curriculum context: %w", err)
	}
	run.ActiveStage = domain.Stage(stage)
	if t := parseNullableTime(sql.NullString{String: createdAt, Valid: true}, timeLayout); t != nil {
		run.CreatedAt = *t
	}
	if t := parseNullableTime(sql.NullString{String: updatedAt, Valid: true}, timeLayout); t != nil {
		run.UpdatedAt = *t
	}
	return &run, nil
}

func (r *SQLiteRunRepo) loadStages(ctx context.Context, run *domain.Run) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT stage, payload_json, generated_at FROM stage_results WHERE run_id = ?`, run.ID)
	if err != nil {
		return fmt.Errorf("loading stage results: %w", err)
	}
	defer rows.Close()

	run.GeneratedAt = make(map[domain.Stage]time.Time, len(domain.Stages))
	for rows.Next() {
		var stage, payload string
		var generatedAt sql.NullString
		if err := rows.Scan(&stage, &payload, &generatedAt); err != nil {
			return fmt.Errorf("scanning stage result: %w", err)
		}
		st := domain.Stage(stage)
		if err := decodeStage(&run.Plan, st, []byte(payload)); err != nil {
			return err
		}
		if t := parseNullableTime(generatedAt, timeLayout); t != nil {
			run.GeneratedAt[st] = *t
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating stage results: %w", err)
	}
	return nil
}
