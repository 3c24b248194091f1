package ir

// Version constants for the automaton IR.
const (
	// IRVersion is the AutomatonSpec schema version.
	IRVersion = "1"

	// EngineVersion is the mfsm release.
	EngineVersion = "0.1.0"
)
