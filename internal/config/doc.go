// Package config provides client configuration for artesanato.
//
// Settings come from a YAML file in the OS configuration directory and may
// be overridden by environment variables carrying the ARTESANATO_ prefix.
// Command-line flags override both; the cmd package applies them on top of
// the loaded Config.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/artesanato/config.yaml or $HOME/.config/artesanato/config.yaml
//   - macOS: $HOME/.config/artesanato/config.yaml
//   - Windows: %LOCALAPPDATA%\artesanato\config.yaml
//
// # Example
//
//	api:
//	  url: http://localhost:3000
//	  timeout: 10s
//	  rate_limit: 5
//	session:
//	  backend: redis
//	redis:
//	  addr: localhost:6379
//
// # Security
//
// Passwords are never written to the configuration file or to the session
// store. The session only keeps the artisan id, name and email returned at
// login.
package config
