// Package authvalkey persists login states in Valkey. States carry their own
// TTL so abandoned logins disappear without housekeeping.
package authvalkey

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/avencore/devops-agent/internal/auth"
)

const objectTypeState = "state"

type Repository struct {
	store *store
}

func NewRepository(valkeyClient valkey.Client, prefix string) *Repository {
	return &Repository{
		store: newStore(valkeyClient, prefix),
	}
}

func (r *Repository) StoreState(ctx context.Context, state auth.State) error {
	ttl := time.Until(state.Expiry)
	if err := r.store.Set(ctx, objectTypeState, state.ID, state, ttl); err != nil {
		return fmt.Errorf("setting state into storage: %w", err)
	}

	return nil
}

func (r *Repository) LoadState(ctx context.Context, stateID string) (state auth.State, _ error) {
	if err := r.store.Get(ctx, objectTypeState, stateID, &state); err != nil {
		return auth.State{}, fmt.Errorf("getting state from store: %w", err)
	}

	return state, nil
}

func (r *Repository) DeleteState(ctx context.Context, stateID string) error {
	if err := r.store.Destroy(ctx, objectTypeState, stateID); err != nil {
		return fmt.Errorf("deleting state from store: %w", err)
	}

	return nil
}
