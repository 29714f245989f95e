// Package cache provides the in-process LRU cache that holds computed
// analytics results, and a cron-driven janitor that purges expired entries.
package cache
