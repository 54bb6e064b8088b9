package identity

import (
	"fmt"
	"regexp"
	"strings"
)

var codePattern = regexp.MustCompile(`^[0-9]{4}$`)

// BungieID is a player identifier: a display name plus a four-digit
// discriminator code. The zero value is invalid. BungieIDs are comparable
// and can be used as map keys.
type BungieID struct {
	Name string
	Code string
}

// Parse builds a BungieID from a raw string such as "mesh#3230". The split
// happens on the last '#', so names containing '#' survive intact. Parse
// never fails; malformed input yields an invalid BungieID.
func Parse(raw string) BungieID {
	if raw == "" {
		return BungieID{}
	}
	idx := strings.LastIndex(raw, "#")
	if idx < 0 {
		return BungieID{Name: raw}
	}
	return BungieID{Name: raw[:idx], Code: raw[idx+1:]}
}

// FormatCode renders a numeric discriminator as the zero-padded four-digit
// form the platform displays.
func FormatCode(code int) string {
	if code < 0 || code > 9999 {
		return ""
	}
	return fmt.Sprintf("%04d", code)
}

// IsValid reports whether the identifier carries a non-empty name and a code
// of exactly four decimal digits.
func (id BungieID) IsValid() bool {
	return id.Name != "" && codePattern.MatchString(id.Code)
}

func (id BungieID) String() string {
	return id.Name + "#" + id.Code
}
