// Package account handles user registration and cohort assignment.
package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moodlift/moodlift/internal/domain"
)

// Service registers users. Cohort is decided by registration order: the
// first CohortCutoff registrants go to cohort A, everyone after to B.
// Cohort and the creation timestamp are immutable once written.
type Service struct {
	users  domain.UserStore
	cutoff int
	now    func() time.Time
}

// NewService creates an account service with the given cohort-A cutoff.
func NewService(users domain.UserStore, cohortCutoff int) *Service {
	return &Service{users: users, cutoff: cohortCutoff, now: time.Now}
}

// SetNow overrides the clock. Tests only.
func (s *Service) SetNow(now func() time.Time) { s.now = now }

// Register creates a new user. Duplicate usernames return ErrUserExists.
func (s *Service) Register(username string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, domain.ErrEmptyName
	}

	rank, err := s.users.CountUsers()
	if err != nil {
		return domain.User{}, fmt.Errorf("count users: %w", err)
	}

	cohort := domain.CohortB
	if rank < s.cutoff {
		cohort = domain.CohortA
	}

	u := domain.User{
		ID:        uuid.New().String(),
		Username:  username,
		Cohort:    cohort,
		CreatedAt: s.now(),
	}
	if err := s.users.CreateUser(u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Lookup finds a user by id. Returns ErrUserNotFound when absent.
func (s *Service) Lookup(id string) (domain.User, error) {
	u, err := s.users.GetUser(id)
	if err != nil {
		return domain.User{}, err
	}
	if u == nil {
		return domain.User{}, domain.ErrUserNotFound
	}
	return *u, nil
}

// LookupByName finds a user by username. Returns ErrUserNotFound when
// absent. Used by the CLI, where usernames are friendlier than ids.
func (s *Service) LookupByName(username string) (domain.User, error) {
	u, err := s.users.GetUserByName(username)
	if err != nil {
		return domain.User{}, err
	}
	if u == nil {
		return domain.User{}, domain.ErrUserNotFound
	}
	return *u, nil
}
