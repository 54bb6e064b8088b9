package bungie

import "strconv"

// platformNames maps Destiny membership types to display names.
var platformNames = map[int]string{
	1: "xbox",
	2: "psn",
	3: "steam",
	4: "blizzard",
	5: "stadia",
	6: "egs",
}

// PlatformName renders a membership type for display, falling back to the
// numeric value for types this build does not know about.
func PlatformName(membershipType int) string {
	if name, ok := platformNames[membershipType]; ok {
		return name
	}
	return strconv.Itoa(membershipType)
}
