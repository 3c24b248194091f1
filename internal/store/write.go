package store

import (
	"context"
	"fmt"

	"github.com/roach88/mfsm/internal/fsm"
	"github.com/roach88/mfsm/internal/ir"
)

// WriteAutomaton stores a definition under its SpecHash and returns the hash.
// Uses ON CONFLICT DO NOTHING: writing the same definition twice keeps the
// first row and its created_at_seq.
func (s *Store) WriteAutomaton(ctx context.Context, spec ir.AutomatonSpec, seq int64) (string, error) {
	hash, err := ir.SpecHash(spec)
	if err != nil {
		return "", fmt.Errorf("write automaton: %w", err)
	}
	definition, err := marshalDefinition(spec)
	if err != nil {
		return "", fmt.Errorf("write automaton: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO automata (spec_hash, name, definition, ir_version, created_at_seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(spec_hash) DO NOTHING
	`, hash, spec.Name, definition, ir.IRVersion, seq)
	if err != nil {
		return "", fmt.Errorf("write automaton: %w", err)
	}
	return hash, nil
}

// WriteRun inserts a run and its steps in one transaction.
// The automaton referenced by run.SpecHash must already exist.
func (s *Store) WriteRun(ctx context.Context, run Run, steps []fsm.Step) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, spec_hash, input, strict, accepted, derailed, consumed, final_state, seq, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.SpecHash,
		run.Input,
		run.Strict,
		run.Accepted,
		run.Derailed,
		run.Consumed,
		run.FinalState,
		run.Seq,
		run.EngineVersion,
	)
	if err != nil {
		return fmt.Errorf("write run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO steps (run_id, seq, from_state, symbol, to_state, rule, matched)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write run %s: prepare steps: %w", run.ID, err)
	}
	defer stmt.Close()

	for _, step := range steps {
		if _, err := stmt.ExecContext(ctx,
			run.ID, step.Seq, step.From, step.Symbol, step.To, step.Rule, step.Matched,
		); err != nil {
			return fmt.Errorf("write run %s: step %d: %w", run.ID, step.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run %s: commit: %w", run.ID, err)
	}
	return nil
}
