package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/mfsm/internal/ir"
)

// CompileAutomaton parses a CUE value into an AutomatonSpec.
//
// The value should be the automaton struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(src)
//	spec, err := CompileAutomaton(v.LookupPath(cue.ParsePath("automaton.aab")))
func CompileAutomaton(v cue.Value) (*ir.AutomatonSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.AutomatonSpec{}

	// Name comes from the struct label.
	if sels := v.Path().Selectors(); len(sels) > 0 {
		spec.Name = sels[len(sels)-1].String()
	}

	var err error
	if spec.Start, err = optionalString(v, "start"); err != nil {
		return nil, err
	}
	if spec.Strict, err = optionalBool(v, "strict"); err != nil {
		return nil, err
	}

	spec.States, err = parseStates(v)
	if err != nil {
		return nil, err
	}

	spec.Connections, err = parseConnections(v)
	if err != nil {
		return nil, err
	}

	return spec, nil
}

// parseStates reads the optional states struct in declaration order.
func parseStates(v cue.Value) ([]ir.StateSpec, error) {
	statesVal := v.LookupPath(cue.ParsePath("states"))
	if !statesVal.Exists() {
		return nil, nil
	}

	iter, err := statesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var states []ir.StateSpec
	for iter.Next() {
		final, err := optionalBool(iter.Value(), "final")
		if err != nil {
			return nil, err
		}
		states = append(states, ir.StateSpec{
			Name:  iter.Label(),
			Final: final,
		})
	}
	return states, nil
}

// parseConnections reads the required connections list.
func parseConnections(v cue.Value) ([]ir.ConnectionSpec, error) {
	connsVal := v.LookupPath(cue.ParsePath("connections"))
	if !connsVal.Exists() {
		return nil, &CompileError{
			Field:   "connections",
			Message: "connections is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := connsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var conns []ir.ConnectionSpec
	for iter.Next() {
		cv := iter.Value()
		var c ir.ConnectionSpec
		if c.From, err = requiredString(cv, "from"); err != nil {
			return nil, err
		}
		if c.To, err = requiredString(cv, "to"); err != nil {
			return nil, err
		}
		if c.Rule, err = requiredString(cv, "rule"); err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	return conns, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalBool(v cue.Value, field string) (bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return false, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}
