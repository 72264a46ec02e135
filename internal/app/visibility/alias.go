package visibility

import "strings"

// aliases maps field names from the older client schema onto the current
// one so both generations of clients produce identical projections.
var aliases = map[string]string{
	"given_name":  "first_name",
	"family_name": "last_name",
	"surname":     "last_name",
	"motto":       "thought",
	"avatar_url":  "photo_url",
	"avatar_v":    "photo_v",
}

// CustomPrefix marks policy keys that govern dynamic custom fields.
const CustomPrefix = "custom."

// CanonicalKey strips the custom prefix and resolves schema aliases,
// returning the raw key every other lookup uses.
func CanonicalKey(fieldKey string) string {
	raw := strings.TrimPrefix(fieldKey, CustomPrefix)
	if canon, ok := aliases[raw]; ok {
		return canon
	}
	return raw
}
