// Package identity defines the BungieID value type and the parsing rules for
// turning raw extracted text into a validated player identifier.
//
// Invalidity is a value, not an error: Parse always succeeds and callers gate
// on IsValid before handing an identifier to the account resolver.
package identity
