package nn

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/go-multierror"
)

// StateDict returns a map of parameter names to their current values.
func StateDict(m Module) map[string]float64 {
	state := make(map[string]float64)
	for _, p := range m.Parameters() {
		state[p.Name()] = p.Data()
	}
	return state
}

// LoadStateDict copies values from state into the parameters of m.
//
// Every parameter of m must be present in state and state must not hold
// unknown names. All problems are reported together, and no parameter is
// modified unless the whole state matches.
func LoadStateDict(m Module, state map[string]float64) error {
	params := m.Parameters()
	known := make(map[string]struct{}, len(params))

	var result *multierror.Error
	for _, p := range params {
		known[p.Name()] = struct{}{}
		if _, ok := state[p.Name()]; !ok {
			result = multierror.Append(result, fmt.Errorf("%w: missing parameter %q", ErrShapeMismatch, p.Name()))
		}
	}
	for _, name := range slices.Sorted(maps.Keys(state)) {
		if _, ok := known[name]; !ok {
			result = multierror.Append(result, fmt.Errorf("%w: unexpected parameter %q", ErrShapeMismatch, name))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	for _, p := range params {
		p.SetData(state[p.Name()])
	}
	return nil
}

// StateDict returns the current parameter values keyed by name.
func (m *MLP) StateDict() map[string]float64 {
	return StateDict(m)
}

// LoadStateDict restores parameter values saved by StateDict.
func (m *MLP) LoadStateDict(state map[string]float64) error {
	return LoadStateDict(m, state)
}
