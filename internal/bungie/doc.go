// Package bungie provides read access to the Destiny platform API and the
// cross-save resolution algorithm that picks one canonical account from a
// player's linked platform accounts.
//
// Absence of a resolvable account is a nil Member, never a zero-valued
// record: the pipeline must not surface an account with an empty membership
// id. Non-200 responses surface as *StatusError and malformed payloads as
// decode errors; both are terminal for a single lookup, not for the process.
package bungie
