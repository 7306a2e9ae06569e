package input

import (
	"context"

	"toolgen/internal/domain/entity"
)

// PipelineRunner drives one full inspection run. Failures are reported
// inside the RunResult, never as a separate error.
type PipelineRunner interface {
	Run(ctx context.Context, url, site string, opts entity.RunOptions) *entity.RunResult
}
