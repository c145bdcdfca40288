// Package session stores the logged-in artisan's identifiers (id, nome,
// email) in a client-local key-value Store.
//
// Three backends exist: a YAML file in the config directory (default),
// process memory, and Redis. Open picks one from the loaded configuration.
// Nothing here knows about HTTP; the login flow calls Save after the
// backend accepts the credentials, and listing and product creation call
// Load to obtain the artisan id.
package session
