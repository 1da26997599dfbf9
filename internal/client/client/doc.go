// Package client talks to the journal REST API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface and the
//     narrower AuthAPI, EntryAPI, FolderAPI, ShareAPI, MediaAPI and
//     AccountAPI it is composed of).
//  2. A concrete HTTP implementation (see HTTPClient) that attaches the
//     bearer session token and a request id, throttles outbound calls,
//     refuses to send a locally expired session, and maps HTTP statuses to
//     sentinel errors.
//  3. Token stores: an in-memory one and one backed by the local metadata
//     repository.
//
// # Identifiers
//
// Request bodies pass through ids.Encode and untyped responses through
// ids.Decode, so 64-bit identifiers travel as decimal strings only. Path
// segments are escaped with url.PathEscape and kept verbatim on the wire.
//
// # Error Handling
//
// Failures are returned as *APIError wrapping one of common.ErrUnauthorized,
// common.ErrNotFound, common.ErrConflict, common.ErrRejected or
// common.ErrUnavailable; match them with errors.Is. A 401 also clears the
// stored token and fires the OnUnauthorized hook.
//
// HTTPClient is safe for concurrent use.
package client
