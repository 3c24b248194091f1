package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/mfsm/internal/ir"
)

// marshalDefinition converts a spec to canonical JSON TEXT for storage.
func marshalDefinition(spec ir.AutomatonSpec) (string, error) {
	data, err := ir.MarshalCanonical(spec.ToMap())
	if err != nil {
		return "", fmt.Errorf("marshal definition: %w", err)
	}
	return string(data), nil
}

// unmarshalDefinition parses a stored definition.
func unmarshalDefinition(data string) (ir.AutomatonSpec, error) {
	var spec ir.AutomatonSpec
	if err := json.Unmarshal([]byte(data), &spec); err != nil {
		return ir.AutomatonSpec{}, fmt.Errorf("unmarshal definition: %w", err)
	}
	return spec, nil
}
