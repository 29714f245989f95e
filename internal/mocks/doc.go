// Package mocks provides centralized mock implementations for testing.
//
// Every mock has a function field per interface method. Store mocks fall
// back to a small in-memory implementation when the field is nil, so a test
// only overrides the calls it cares about:
//
//	users := mocks.NewMockUserStore()
//	users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
//	    return nil, store.ErrUnavailable
//	}
//
// Service mocks return zero values when the field is nil.
package mocks
