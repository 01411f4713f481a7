// Package config loads and validates the curator TOML configuration.
//
// Configuration is read once at process entry and handed to component
// constructors; nothing in the repository reads ambient global state.
package config
