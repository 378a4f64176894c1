package auth

import "context"

// StateRepository persists login states between the authorization request
// and the code exchange.
type StateRepository interface {
	StoreState(ctx context.Context, state State) error
	LoadState(ctx context.Context, stateID string) (State, error)
	DeleteState(ctx context.Context, stateID string) error
}
