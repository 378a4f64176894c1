package authmock

import (
	"context"

	"github.com/avencore/devops-agent/internal/auth"
	"github.com/avencore/devops-agent/internal/serviceerr"
)

type Repository struct {
	States map[string]auth.State

	loadStateErr, storeStateErr, deleteStateErr error
}

func NewInMemRepository(loadStateErr, storeStateErr, deleteStateErr error) *Repository {
	return &Repository{
		States:         make(map[string]auth.State),
		loadStateErr:   loadStateErr,
		storeStateErr:  storeStateErr,
		deleteStateErr: deleteStateErr,
	}
}

func (r *Repository) LoadState(ctx context.Context, stateID string) (auth.State, error) {
	if r.loadStateErr != nil {
		return auth.State{}, r.loadStateErr
	}

	if state, ok := r.States[stateID]; ok {
		return state, nil
	}

	return auth.State{}, serviceerr.ErrNotFound
}

func (r *Repository) StoreState(ctx context.Context, state auth.State) error {
	if r.storeStateErr != nil {
		return r.storeStateErr
	}

	if _, ok := r.States[state.ID]; ok {
		return serviceerr.ErrConflict
	}

	r.States[state.ID] = state

	return nil
}

func (r *Repository) DeleteState(ctx context.Context, stateID string) error {
	if r.deleteStateErr != nil {
		return r.deleteStateErr
	}

	if _, ok := r.States[stateID]; !ok {
		return serviceerr.ErrNotFound
	}

	delete(r.States, stateID)

	return nil
}
