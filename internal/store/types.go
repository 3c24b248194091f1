package store

import (
	"github.com/roach88/mfsm/internal/fsm"
	"github.com/roach88/mfsm/internal/ir"
)

// Run is one recorded drive of an automaton over an input.
type Run struct {
	ID            string `json:"id"`
	SpecHash      string `json:"spec_hash"`
	Input         string `json:"input"`
	Strict        bool   `json:"strict"`
	Accepted      bool   `json:"accepted"`
	Derailed      bool   `json:"derailed"`
	Consumed      int    `json:"consumed"`
	FinalState    string `json:"final_state"`
	Seq           int64  `json:"seq"`
	EngineVersion string `json:"engine_version"`
}

// NewRun builds the record for an outcome.
func NewRun(id, specHash, input string, strict bool, out fsm.Outcome, seq int64) Run {
	return Run{
		ID:            id,
		SpecHash:      specHash,
		Input:         input,
		Strict:        strict,
		Accepted:      out.Accepted,
		Derailed:      out.Derailed,
		Consumed:      out.Consumed,
		FinalState:    out.Final,
		Seq:           seq,
		EngineVersion: ir.EngineVersion,
	}
}

// AutomatonRecord is a stored definition.
type AutomatonRecord struct {
	SpecHash     string           `json:"spec_hash"`
	Name         string           `json:"name"`
	Spec         ir.AutomatonSpec `json:"spec"`
	IRVersion    string           `json:"ir_version"`
	CreatedAtSeq int64            `json:"created_at_seq"`
}
