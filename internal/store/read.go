package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/mfsm/internal/fsm"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ReadRun returns a run and its steps ordered by seq.
// Returns an error wrapping ErrNotFound when id is unknown.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, []fsm.Step, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, spec_hash, input, strict, accepted, derailed, consumed, final_state, seq, engine_version
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, nil, err
	}

	steps, err := s.ReadSteps(ctx, id)
	if err != nil {
		return Run{}, nil, err
	}
	return run, steps, nil
}

// ReadSteps returns the trace of a run ordered by seq.
// Returns an empty slice (not nil) when the run recorded no steps.
func (s *Store) ReadSteps(ctx context.Context, runID string) ([]fsm.Step, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, from_state, symbol, to_state, rule, matched
		FROM steps
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []fsm.Step{}
	for rows.Next() {
		var step fsm.Step
		if err := rows.Scan(&step.Seq, &step.From, &step.Symbol, &step.To, &step.Rule, &step.Matched); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return steps, nil
}

// ListRuns returns the runs of one automaton, or of all automata when
// specHash is empty, ordered by seq ASC, id ASC COLLATE BINARY.
func (s *Store) ListRuns(ctx context.Context, specHash string) ([]Run, error) {
	query := `
		SELECT id, spec_hash, input, strict, accepted, derailed, consumed, final_state, seq, engine_version
		FROM runs
	`
	var args []any
	if specHash != "" {
		query += " WHERE spec_hash = ?"
		args = append(args, specHash)
	}
	query += " ORDER BY seq ASC, id COLLATE BINARY ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadAutomaton returns the definition stored under hash.
func (s *Store) ReadAutomaton(ctx context.Context, hash string) (AutomatonRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT spec_hash, name, definition, ir_version, created_at_seq
		FROM automata
		WHERE spec_hash = ?
	`, hash)

	rec, err := scanAutomaton(row)
	if errors.Is(err, sql.ErrNoRows) {
		return AutomatonRecord{}, fmt.Errorf("automaton %s: %w", hash, ErrNotFound)
	}
	return rec, err
}

// ListAutomata returns every stored definition ordered by created_at_seq.
func (s *Store) ListAutomata(ctx context.Context) ([]AutomatonRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT spec_hash, name, definition, ir_version, created_at_seq
		FROM automata
		ORDER BY created_at_seq ASC, spec_hash COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query automata: %w", err)
	}
	defer rows.Close()

	recs := []AutomatonRecord{}
	for rows.Next() {
		rec, err := scanAutomaton(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate automata: %w", err)
	}
	return recs, nil
}

// LastSeq returns the highest seq recorded in any table, or 0 for an empty
// store. A clock resumed from it keeps seq values unique across processes.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM (
			SELECT created_at_seq AS seq FROM automata
			UNION ALL SELECT seq FROM runs
			UNION ALL SELECT seq FROM steps
		)
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("query last seq: %w", err)
	}
	return seq, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	err := sc.Scan(
		&run.ID,
		&run.SpecHash,
		&run.Input,
		&run.Strict,
		&run.Accepted,
		&run.Derailed,
		&run.Consumed,
		&run.FinalState,
		&run.Seq,
		&run.EngineVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}

func scanAutomaton(sc scanner) (AutomatonRecord, error) {
	var rec AutomatonRecord
	var definition string
	err := sc.Scan(&rec.SpecHash, &rec.Name, &definition, &rec.IRVersion, &rec.CreatedAtSeq)
	if errors.Is(err, sql.ErrNoRows) {
		return AutomatonRecord{}, err
	}
	if err != nil {
		return AutomatonRecord{}, fmt.Errorf("scan automaton: %w", err)
	}

	rec.Spec, err = unmarshalDefinition(definition)
	if err != nil {
		return AutomatonRecord{}, err
	}
	return rec, nil
}
