package visibility

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/leaguehub/leaguehub/internal/app/system/normalize"
	"github.com/leaguehub/leaguehub/internal/domain/models"
)

// internalKeys never leave the profile document, whatever the policy says.
var internalKeys = map[string]struct{}{
	"privacy":           {},
	"share_preferences": {},
	"fcm_tokens":        {},
	"push_tokens":       {},
	"auth_claims":       {},
}

// Projection is the partition of one profile into its downstream buckets.
type Projection struct {
	// Public, League, and Shared hold disjoint field sets keyed by
	// canonical field name.
	Public map[string]any
	League map[string]any
	Shared map[string]any

	// Allow-list targets and audience flags for the Shared bucket.
	EmailsLower    []string
	UIDs           []string
	Owner          bool
	Special        bool
	SameDepartment bool

	// Derived display and search keys recomputed on every run.
	Derived models.DerivedFields

	// Privacy is the raw policy map, persisted for audit.
	Privacy map[string]models.FieldPolicy
}

// Project partitions u's profile fields by visibility class and computes
// the derived display fields.
func Project(cfg Config, u *models.User) Projection {
	custom := map[string]any{}
	privacy := map[string]models.FieldPolicy{}
	if u.Profile.Custom != nil {
		for k, v := range u.Profile.Custom {
			custom[CanonicalKey(k)] = v
		}
	}
	if u.Profile.Privacy != nil {
		for k, p := range u.Profile.Privacy {
			if strings.HasPrefix(k, CustomPrefix) {
				privacy[CustomPrefix+CanonicalKey(k)] = p
			} else {
				privacy[CanonicalKey(k)] = p
			}
		}
	}

	out := Projection{
		Public:  map[string]any{},
		League:  map[string]any{},
		Shared:  map[string]any{},
		Privacy: privacy,
	}

	for k, v := range custom {
		if _, internal := internalKeys[k]; internal {
			continue
		}
		switch c := Classify(cfg, CustomPrefix+k, privacy); {
		case c == Public:
			out.Public[k] = v
		case c == League:
			out.League[k] = v
		case c.InAllowList():
			out.Shared[k] = v
		}
	}

	// Allow-list targets and audience flags come from scanning every
	// policy entry, not just the ones with a populated field.
	emailSeen := map[string]struct{}{}
	uidSeen := map[string]struct{}{}
	for key, p := range privacy {
		c := Classify(cfg, key, privacy)
		switch c {
		case Owner:
			out.Owner = true
		case Special:
			out.Special = true
		case Department:
			out.SameDepartment = true
		}
		if c == Emails || c == UIDs {
			for _, e := range p.Emails {
				if e = normalize.Email(e); e != "" {
					emailSeen[e] = struct{}{}
				}
			}
			for _, id := range p.UIDs {
				if id = strings.TrimSpace(id); id != "" {
					uidSeen[id] = struct{}{}
				}
			}
		}
	}
	for e := range emailSeen {
		out.EmailsLower = append(out.EmailsLower, e)
	}
	for id := range uidSeen {
		out.UIDs = append(out.UIDs, id)
	}
	sort.Strings(out.EmailsLower)
	sort.Strings(out.UIDs)

	pub := resolvePublic(u, custom)
	out.Derived = deriveFields(pub, u)

	// Always-public fields are forced into the public bucket so a hostile
	// or stale policy map cannot hide them.
	forceString(out.Public, "first_name", pub.firstName)
	forceString(out.Public, "last_name", pub.lastName)
	forceString(out.Public, "nickname", pub.nickname)
	forceString(out.Public, "photo_url", pub.photoURL)
	out.Public["photo_v"] = pub.photoV
	forceString(out.Public, "cover_url", pub.coverURL)
	out.Public["cover_v"] = pub.coverV
	if pub.thought != "" {
		out.Public["thought"] = pub.thought
	}

	return out
}

// publicFields is the resolved always-public view of a profile.
type publicFields struct {
	firstName string
	lastName  string
	nickname  string
	photoURL  string
	photoV    int
	coverURL  string
	coverV    int
	thought   string
}

// resolvePublic prefers custom values, then the legacy top-level copies.
func resolvePublic(u *models.User, custom map[string]any) publicFields {
	return publicFields{
		firstName: firstNonEmpty(asString(custom["first_name"]), u.FirstName),
		lastName:  firstNonEmpty(asString(custom["last_name"]), u.LastName),
		nickname:  firstNonEmpty(asString(custom["nickname"]), u.Nickname),
		photoURL:  asString(custom["photo_url"]),
		photoV:    asInt(custom["photo_v"]),
		coverURL:  asString(custom["cover_url"]),
		coverV:    asInt(custom["cover_v"]),
		thought:   asString(custom["thought"]),
	}
}

// deriveFields computes the display and search keys every projection
// carries. Display name is surname-first with empty parts omitted.
func deriveFields(pub publicFields, u *models.User) models.DerivedFields {
	displayName := joinNonEmpty(pub.lastName, pub.firstName)
	return models.DerivedFields{
		FirstName:        pub.firstName,
		LastName:         pub.lastName,
		FirstNameLower:   strings.ToLower(pub.firstName),
		LastNameLower:    strings.ToLower(pub.lastName),
		DisplayName:      displayName,
		DisplayNameLower: strings.ToLower(displayName),
		FullNameLower:    strings.ToLower(joinNonEmpty(pub.lastName, pub.firstName)),
		ReverseNameLower: strings.ToLower(joinNonEmpty(pub.firstName, pub.lastName)),
		Nickname:         pub.nickname,
		NicknameLower:    strings.ToLower(pub.nickname),
		PhotoURL:         pub.photoURL,
		PhotoV:           pub.photoV,
		CoverURL:         pub.coverURL,
		CoverV:           pub.coverV,
		EmailLogin:       u.Email,
		EmailLower:       firstNonEmpty(u.EmailLower, strings.ToLower(u.Email)),
	}
}

// helpers

func forceString(m map[string]any, key, v string) {
	if strings.TrimSpace(v) != "" {
		m[key] = strings.TrimSpace(v)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}
	return strings.Join(out, " ")
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func asInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int32:
		return int(t)
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}
