// Package service contains the application use cases: registering and
// authenticating users, recording transactions, maintaining monthly budgets
// and serving the analytics built from them.
//
// Services depend on the store interfaces, never on a database driver.
// They translate domain validation failures to ErrInvalidInput and store
// outages to ErrServiceUnavailable; not-found and duplicate errors from the
// store pass through wrapped, so callers match them with errors.Is against
// the store sentinels. Writes emit an events.Event after they succeed.
package service
