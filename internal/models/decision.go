package models

// DecisionStatus is the client-visible status tag for a login attempt.
type DecisionStatus string

const (
	StatusSuccess DecisionStatus = "success"
	StatusFail    DecisionStatus = "fail"
	StatusBlocked DecisionStatus = "blocked"
)

// Decision is the structured result of evaluating one login attempt.
type Decision struct {
	Status  DecisionStatus `json:"status"`
	Message string         `json:"message"`
}
