package usecase

import (
	"errors"

	"github.com/pixelcast/backend/internal/infra/adapters/memory"
)

// ErrMissingParameter is returned when a required request parameter is
// absent; handlers map it to a client error.
var ErrMissingParameter = errors.New("missing required parameter")

type PresenceUsecase interface {
	Update(room, identity, action string) error
	List(room string) ([]string, error)
}

type presenceUsecase struct {
	presenceRepo memory.PresenceRepository
}

func NewPresenceUsecase(presenceRepo memory.PresenceRepository) PresenceUsecase {
	return &presenceUsecase{presenceRepo: presenceRepo}
}

// Update applies a join or leave signal. Any action other than "leave" is
// treated as a join; a repeated join just refreshes the last-seen stamp.
func (u *presenceUsecase) Update(room, identity, action string) error {
	if room == "" || identity == "" {
		return ErrMissingParameter
	}

	if action == "leave" {
		u.presenceRepo.Leave(room, identity)
	} else {
		u.presenceRepo.Join(room, identity)
	}

	return nil
}

func (u *presenceUsecase) List(room string) ([]string, error) {
	if room == "" {
		return nil, ErrMissingParameter
	}

	return u.presenceRepo.ListActive(room), nil
}
