// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config.yaml, a .env file and FINTRACK_*
// environment variables. Settings are grouped by the component that uses them.
package config
