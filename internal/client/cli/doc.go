// Package cli provides the interactive journal command-line client.
//
// NewApp wires configuration, the local SQLite store, the HTTP client and
// the services through a samber/do injector. App.Run restores a stored
// session and starts the REPL, which blocks until the user exits.
//
// Entries are edited either line by line ("write") or in an external
// editor ("edit"); both feed an autosave machine whose switch is the
// stored autosave preference.
package cli
