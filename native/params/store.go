package params

import (
	"fmt"

	"mcashchain/core/types"
)

// StoreState captures the subset of state manager capabilities required by the
// parameter helpers.
type StoreState interface {
	ChainParams() (*types.ChainParams, bool, error)
	PutChainParams(params *types.ChainParams) error
}

// Store provides typed access to the persisted chain parameter record.
type Store struct {
	state StoreState
}

// NewStore constructs a parameter store wrapper using the supplied state
// backend.
func NewStore(state StoreState) *Store {
	return &Store{state: state}
}

func (s *Store) withState() (StoreState, error) {
	if s == nil || s.state == nil {
		return nil, fmt.Errorf("params: state not configured")
	}
	return s.state, nil
}

// Load returns the persisted parameters. Missing parameters mean genesis was
// never applied and are reported as an error.
func (s *Store) Load() (*types.ChainParams, error) {
	state, err := s.withState()
	if err != nil {
		return nil, err
	}
	cp, ok, err := state.ChainParams()
	if err != nil {
		return nil, fmt.Errorf("params: load: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("params: chain parameters not initialised")
	}
	return cp, nil
}

// Save persists the parameters.
func (s *Store) Save(cp *types.ChainParams) error {
	state, err := s.withState()
	if err != nil {
		return err
	}
	if cp == nil {
		return fmt.Errorf("params: nil chain parameters")
	}
	return state.PutChainParams(cp)
}
