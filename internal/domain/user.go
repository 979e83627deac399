// Package domain holds the core types of the Moodlift training engine.
// Domain types are pure — no infrastructure dependency.
package domain

import "time"

// Cohort is the registration cohort a user is assigned at sign-up.
// The first N registrants go to cohort A, the rest to cohort B.
// Immutable after creation.
type Cohort string

const (
	CohortA Cohort = "A"
	CohortB Cohort = "B"
)

// User is a registered account. Cohort and CreatedAt never change.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Cohort    Cohort    `json:"cohort"`
	CreatedAt time.Time `json:"created_at"`
}

// Tenure is a user's derived position in the program: cohort group plus
// the 1-based count of calendar days since the account was created.
// Recomputed on every access, never stored.
type Tenure struct {
	Group     Cohort `json:"group"`
	DayNumber int    `json:"day_number"`
}

// DefaultTenure is the fail-soft tenure for a missing or unreadable
// profile: day 1, cohort A.
func DefaultTenure() Tenure {
	return Tenure{Group: CohortA, DayNumber: 1}
}
