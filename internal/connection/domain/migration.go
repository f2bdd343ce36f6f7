package domain

// Outcome is what the migration did to a single record.
type Outcome int

const (
	// OutcomeUnchanged means the record had no plaintext password to protect.
	OutcomeUnchanged Outcome = iota
	// OutcomeChanged means the password was replaced by an envelope.
	OutcomeChanged
	// OutcomeFailed means encryption failed and the record was left as it was.
	OutcomeFailed
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeChanged:
		return "changed"
	case OutcomeFailed:
		return "failed"
	default:
		return "unchanged"
	}
}

// MigrationResult summarizes one migration run.
type MigrationResult struct {
	Total    int `json:"total"`
	Migrated int `json:"migrated"`
	Failed   int `json:"failed"`
}

// Add counts one record outcome.
func (r *MigrationResult) Add(o Outcome) {
	r.Total++
	switch o {
	case OutcomeChanged:
		r.Migrated++
	case OutcomeFailed:
		r.Failed++
	}
}
