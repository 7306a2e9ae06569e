package output

import "toolgen/internal/domain/entity"

// ProfileStore persists the durable authentication profile. Load returns
// (nil, nil) when no profile has been saved yet.
type ProfileStore interface {
	Load() (*entity.AuthProfile, error)
	Save(profile *entity.AuthProfile) error
}
