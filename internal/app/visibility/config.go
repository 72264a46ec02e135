// Package visibility decides, per profile field, who may see it: everyone,
// the whole league, an allow-list, or nobody. The classifier and projector
// are pure; all I/O lives in the sync engine that consumes them.
package visibility

// Config carries the two static field sets the classifier needs. It is
// injected rather than hardcoded so tests can vary it.
type Config struct {
	// AlwaysPublic fields ignore the privacy map entirely.
	AlwaysPublic map[string]struct{}
	// Sensitive fields default to private when no policy entry exists.
	Sensitive map[string]struct{}
}

// DefaultConfig returns the production field sets.
func DefaultConfig() Config {
	return Config{
		AlwaysPublic: setOf(
			"first_name",
			"last_name",
			"nickname",
			"photo_url",
			"photo_v",
			"cover_url",
			"cover_v",
			"thought",
		),
		Sensitive: setOf(
			// identity
			"gender",
			"birth_date",
			"birth_place",
			"tax_code",
			"citizenship",
			"marital_status",

			// contact / residence
			"address_street",
			"address_zip",
			"address_city",
			"address_province",
			"address_country",
			"personal_email",
			"work_email",
			"phone",
			"emergency_contact_name",
			"emergency_contact_phone",

			// employment
			"hire_date",
			"contract_type",
			"job_title",
			"department",
			"work_schedule",
			"work_site",
			"termination_date",

			// documents / pay
			"id_document_type",
			"id_document_expiry",
			"license_expiry",
			"iban",
			"base_salary",
			"allowances",
			"benefits",

			// medical / notes / consents
			"medical_exam_result",
			"medical_exam_expiry",
			"hr_notes",
			"disciplinary_notes",
			"privacy_consent",
			"photo_consent",
		),
	}
}

func setOf(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}
