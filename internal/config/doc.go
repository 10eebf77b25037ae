// Package config handles configuration loading, parsing, and validation.
// Settings come from an optional YAML file and from environment variables
// with the MCBL_ prefix, which take precedence. It provides type-safe
// access to application settings needed by different components while
// keeping configuration details separate from business logic.
package config
