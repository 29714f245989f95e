// Package store defines interfaces for data persistence operations.
// These interfaces keep the services independent of the storage backend;
// internal/platform/postgres implements them and internal/mocks fakes them.
package store
