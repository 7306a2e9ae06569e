package output

import (
	"context"
	"time"

	"toolgen/internal/domain/entity"
)

// SessionPort is the narrow contract the pipeline needs from a live browser
// session. One session belongs to exactly one run.
type SessionPort interface {
	// Navigate enforces the given finite wait bound; exceeding it is an
	// error, never a silent hang.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	PageContext(ctx context.Context) (*entity.PageContext, error)
	ExtractElements(ctx context.Context) ([]entity.RawElement, error)
	Exists(ctx context.Context, selector string) (bool, error)
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, text string) error
	CurrentURL() string
	Close()
}

type SessionProvider interface {
	Open(ctx context.Context) (SessionPort, error)
}
