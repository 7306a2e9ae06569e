package output

import (
	"context"

	"toolgen/internal/domain/entity"
)

// Detector is one image-based element detection backend. Implementations are
// interchangeable: the vision coordinator's fallback-and-merge semantics hold
// regardless of which backend is plugged in.
type Detector interface {
	Name() string
	Detect(ctx context.Context, shot *entity.Screenshot, page *entity.PageContext) (*entity.Detection, error)
}
