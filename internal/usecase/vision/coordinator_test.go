package vision

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"toolgen/internal/domain/entity"
	"toolgen/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDetector struct {
	name      string
	detection *entity.Detection
	err       error
	calls     int
}

func (d *stubDetector) Name() string { return d.name }

func (d *stubDetector) Detect(_ context.Context, _ *entity.Screenshot, _ *entity.PageContext) (*entity.Detection, error) {
	d.calls++
	return d.detection, d.err
}

func shot(data string) *entity.Screenshot {
	return &entity.Screenshot{Data: []byte(data), Format: "jpeg"}
}

func TestAnalyze_PrimarySucceeds(t *testing.T) {
	primary := &stubDetector{name: "primary", detection: &entity.Detection{
		Method:     "primary",
		Confidence: 0.9,
		Elements:   []entity.DetectedElement{{Type: "button", Label: "Save"}},
	}}
	secondary := &stubDetector{name: "secondary"}

	c := New(primary, secondary, logger.Nop(), DefaultConfig())
	result := c.Analyze(context.Background(), shot("a"), nil)

	require.NotNil(t, result)
	assert.Equal(t, "primary", result.Method)
	assert.Equal(t, 0.9, result.Confidence)
	assert.Len(t, result.Elements, 1)
	assert.False(t, result.MultiSource)
	assert.Equal(t, 0, secondary.calls, "secondary must not run when primary is complete")
}

func TestAnalyze_FallbackMerge(t *testing.T) {
	// Scenario: primary returns zero elements, secondary returns two with
	// confidence 0.6 -> merged list is non-empty and confidence is 0.6.
	primary := &stubDetector{name: "primary", detection: &entity.Detection{
		Method:     "primary",
		Confidence: 0.2,
	}}
	secondary := &stubDetector{name: "secondary", detection: &entity.Detection{
		Method:     "secondary",
		Confidence: 0.6,
		Elements: []entity.DetectedElement{
			{Type: "button", Label: "One"},
			{Type: "link", Label: "Two"},
		},
	}}

	c := New(primary, secondary, logger.Nop(), DefaultConfig())
	result := c.Analyze(context.Background(), shot("b"), nil)

	require.NotNil(t, result)
	assert.True(t, result.MultiSource)
	assert.NotEmpty(t, result.Elements)
	assert.Equal(t, 0.6, result.Confidence)
	require.NotNil(t, result.Backup)
	assert.Equal(t, "secondary", result.Backup.Method)
}

func TestAnalyze_MergeTakesMaxConfidence(t *testing.T) {
	primary := &stubDetector{name: "primary", detection: &entity.Detection{Method: "primary", Confidence: 0.8}}
	secondary := &stubDetector{name: "secondary", detection: &entity.Detection{Method: "secondary", Confidence: 0.3}}

	c := New(primary, secondary, logger.Nop(), DefaultConfig())
	result := c.Analyze(context.Background(), shot("c"), nil)

	assert.Equal(t, 0.8, result.Confidence)
}

func TestAnalyze_BothFail(t *testing.T) {
	primary := &stubDetector{name: "primary", err: errors.New("boom")}
	secondary := &stubDetector{name: "secondary", err: errors.New("also boom")}

	c := New(primary, secondary, logger.Nop(), DefaultConfig())
	result := c.Analyze(context.Background(), shot("d"), nil)

	require.NotNil(t, result, "Analyze must never return nil")
	assert.Equal(t, "fallback", result.Method)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Empty(t, result.Elements)
	assert.False(t, result.AuthFlow.Detected)
	assert.Empty(t, result.Navigation.Links)
	assert.Empty(t, result.Navigation.Menus)
}

func TestAnalyze_NilScreenshot(t *testing.T) {
	primary := &stubDetector{name: "primary", err: errors.New("no screenshot")}
	secondary := &stubDetector{name: "secondary", err: errors.New("no page")}

	c := New(primary, secondary, logger.Nop(), DefaultConfig())
	result := c.Analyze(context.Background(), nil, nil)

	require.NotNil(t, result)
	assert.Equal(t, "fallback", result.Method)
}

func TestAnalyze_AuthFlowSummary(t *testing.T) {
	primary := &stubDetector{name: "primary", detection: &entity.Detection{
		Method:     "primary",
		Confidence: 0.9,
		Elements: []entity.DetectedElement{
			{Type: "button", Label: "Sign in with Google"},
			{Type: "link", Label: "Pricing"},
		},
	}}

	c := New(primary, nil, logger.Nop(), DefaultConfig())
	result := c.Analyze(context.Background(), shot("e"), nil)

	assert.True(t, result.AuthFlow.Detected)
	assert.Equal(t, "google", result.AuthFlow.Provider)
	assert.Equal(t, []string{"Pricing"}, result.Navigation.Links)
}

func TestAnalyze_AccessibilitySnapshotCapped(t *testing.T) {
	primary := &stubDetector{name: "primary", detection: &entity.Detection{
		Method: "primary", Confidence: 0.9,
		Elements: []entity.DetectedElement{{Type: "button", Label: "x"}},
	}}

	page := &entity.PageContext{}
	for i := 0; i < 120; i++ {
		page.Elements = append(page.Elements, entity.RawElement{Tag: "button", Text: fmt.Sprintf("b%d", i)})
	}

	c := New(primary, nil, logger.Nop(), DefaultConfig())
	result := c.Analyze(context.Background(), shot("f"), page)

	assert.Len(t, result.Accessibility, 50)
}

func TestAnalyze_CachedByScreenshot(t *testing.T) {
	primary := &stubDetector{name: "primary", detection: &entity.Detection{
		Method: "primary", Confidence: 0.9,
		Elements: []entity.DetectedElement{{Type: "button", Label: "x"}},
	}}

	c := New(primary, nil, logger.Nop(), DefaultConfig())
	c.Analyze(context.Background(), shot("same"), nil)
	c.Analyze(context.Background(), shot("same"), nil)

	assert.Equal(t, 1, primary.calls, "identical screenshots must hit the cache")

	c.Analyze(context.Background(), shot("different"), nil)
	assert.Equal(t, 2, primary.calls)
}

func TestAnalyze_DegradedResultNotCached(t *testing.T) {
	primary := &stubDetector{name: "primary", err: errors.New("transient outage")}
	secondary := &stubDetector{name: "secondary", err: errors.New("transient outage")}

	c := New(primary, secondary, logger.Nop(), DefaultConfig())

	result := c.Analyze(context.Background(), shot("same"), nil)
	require.Equal(t, "fallback", result.Method)

	// The primary recovers; the same screenshot must be analyzed again
	// instead of replaying the degraded result.
	primary.err = nil
	primary.detection = &entity.Detection{
		Method: "primary", Confidence: 0.9,
		Elements: []entity.DetectedElement{{Type: "button", Label: "Save"}},
	}

	result = c.Analyze(context.Background(), shot("same"), nil)
	assert.Equal(t, "primary", result.Method)
	assert.Equal(t, 2, primary.calls)
}

func TestResultCache_EvictsOldest(t *testing.T) {
	cache := newResultCache(2)
	cache.put("a", &entity.VisionResult{Method: "a"})
	cache.put("b", &entity.VisionResult{Method: "b"})
	cache.put("c", &entity.VisionResult{Method: "c"})

	assert.Equal(t, 2, cache.len())
	_, ok := cache.get("a")
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = cache.get("c")
	assert.True(t, ok)
}

func TestResultCache_RecencyOnGet(t *testing.T) {
	cache := newResultCache(2)
	cache.put("a", &entity.VisionResult{Method: "a"})
	cache.put("b", &entity.VisionResult{Method: "b"})

	// Touching "a" makes "b" the eviction candidate.
	_, ok := cache.get("a")
	require.True(t, ok)

	cache.put("c", &entity.VisionResult{Method: "c"})

	_, ok = cache.get("a")
	assert.True(t, ok)
	_, ok = cache.get("b")
	assert.False(t, ok)
}
