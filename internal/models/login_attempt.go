package models

import "time"

// Outcome indicates whether the submitted credential matched expectation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFail    Outcome = "fail"
)

// LoginAttempt represents a single login attempt in the system.
// Attempts are append-only: created once per request, never mutated.
type LoginAttempt struct {
	ID                 string    `db:"id" json:"id"`
	Address            string    `db:"address" json:"address"`
	AttemptTime        time.Time `db:"attempt_time" json:"attempt_time"`
	Username           string    `db:"username" json:"username"`
	CredentialLength   int       `db:"credential_length" json:"credential_length"`
	RecentAttemptCount int       `db:"recent_attempt_count" json:"recent_attempt_count"`
	Verdict            bool      `db:"verdict" json:"verdict"`
	Outcome            Outcome   `db:"outcome" json:"outcome"`
}

// BlockEntry represents a temporary denial for one source address.
// At most one live entry exists per address; a later detection overwrites
// the expiry rather than stacking.
type BlockEntry struct {
	Address   string    `json:"address"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the entry is still enforced at the given time.
func (e BlockEntry) Active(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}
