package visibility

import (
	"strings"

	"github.com/leaguehub/leaguehub/internal/domain/models"
)

// Class is the resolved visibility of one field.
type Class string

const (
	// Public fields land in the public directory and every member record.
	Public Class = "public"
	// League fields are visible to every member of each shared league.
	League Class = "league"
	// Emails, UIDs, Owner, Special, and Department all land in the
	// allow-list projection; the first two carry explicit targets, the
	// rest are named audience flags resolved by the reader.
	Emails     Class = "emails"
	UIDs       Class = "uids"
	Owner      Class = "owner"
	Special    Class = "special"
	Department Class = "department"
	// Private fields never leave the profile document.
	Private Class = "private"
)

// InAllowList reports whether c belongs in the allow-list projection.
func (c Class) InAllowList() bool {
	switch c {
	case Emails, UIDs, Owner, Special, Department:
		return true
	}
	return false
}

// Classify resolves fieldKey ("thought" or "custom.thought") against the
// privacy map. The precedence encodes two policy-schema generations: an
// explicit mode wins, legacy private/shared entries are reinterpreted from
// their target fields, and a bare public flag is honored last. Anything
// unrecognized falls through to private.
func Classify(cfg Config, fieldKey string, privacy map[string]models.FieldPolicy) Class {
	raw := CanonicalKey(fieldKey)

	if _, ok := cfg.AlwaysPublic[raw]; ok {
		return Public
	}

	p, ok := privacy[raw]
	if !ok {
		p, ok = privacy[fieldKey]
	}
	if !ok {
		// No policy entry. Sensitive fields are forced private; so is
		// everything else, which keeps the branch as belt and suspenders.
		if _, sensitive := cfg.Sensitive[raw]; sensitive {
			return Private
		}
		return Private
	}

	switch mode := Class(strings.ToLower(strings.TrimSpace(p.Mode))); mode {
	case Public, League, Emails, UIDs, Owner, Special, Department:
		return mode
	case Private, "shared":
		// Legacy sentinel: the real audience lives in the target fields.
		switch {
		case p.League:
			return League
		case len(p.UIDs) > 0 && len(p.Emails) == 0:
			return UIDs
		case len(p.Emails) > 0:
			return Emails
		}
		return Private
	case "":
		if p.Public {
			return Public
		}
		return Private
	}
	return Private
}
