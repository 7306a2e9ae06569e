package vision

import (
	"context"
	"strings"

	"toolgen/internal/application/port/output"
	"toolgen/internal/domain/entity"
)

const (
	defaultSnapshotCap = 50
	defaultCacheCap    = 32

	// Method and confidence reported when every detector fails. Policy
	// constants.
	degradedMethod     = "fallback"
	degradedConfidence = 0.5
)

type Config struct {
	SnapshotCap int
	CacheCap    int
}

func DefaultConfig() Config {
	return Config{
		SnapshotCap: defaultSnapshotCap,
		CacheCap:    defaultCacheCap,
	}
}

// Coordinator runs the primary detector, falls back to the secondary one on
// incomplete results and merges the two. Analyze never fails: detector
// errors are converted into degraded-but-well-formed results at this
// boundary.
type Coordinator struct {
	primary   output.Detector
	secondary output.Detector
	logger    output.LoggerPort
	cfg       Config
	cache     *resultCache
}

func New(primary, secondary output.Detector, logger output.LoggerPort, cfg Config) *Coordinator {
	if cfg.SnapshotCap <= 0 {
		cfg.SnapshotCap = defaultSnapshotCap
	}
	if cfg.CacheCap <= 0 {
		cfg.CacheCap = defaultCacheCap
	}
	return &Coordinator{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
		cfg:       cfg,
		cache:     newResultCache(cfg.CacheCap),
	}
}

func (c *Coordinator) Analyze(ctx context.Context, shot *entity.Screenshot, page *entity.PageContext) *entity.VisionResult {
	var result *entity.VisionResult

	key := screenshotDigest(shot)
	if key != "" {
		if cached, ok := c.cache.get(key); ok {
			c.logger.Debug("vision result served from cache", "key", key[:12])
			result = cached
		}
	}

	if result == nil {
		result = c.detect(ctx, shot, page)
		// A degraded result reflects a detector outage, not the screenshot;
		// caching it would pin the outage to this screenshot for the whole
		// process.
		if key != "" && result.Method != degradedMethod {
			c.cache.put(key, result)
		}
	}

	// The accessibility snapshot depends on the page, not the screenshot, so
	// it is attached outside the cache on a per-call copy.
	out := *result
	out.Accessibility = accessibilitySnapshot(page, c.cfg.SnapshotCap)
	return &out
}

func (c *Coordinator) detect(ctx context.Context, shot *entity.Screenshot, page *entity.PageContext) *entity.VisionResult {
	primary := c.runDetector(ctx, c.primary, shot, page)
	if primary != nil && len(primary.Elements) > 0 {
		result := &entity.VisionResult{
			Method:     primary.Method,
			Confidence: primary.Confidence,
			Elements:   primary.Elements,
		}
		summarize(result)
		return result
	}

	// Secondary runs independently, not chained on the primary's output.
	secondary := c.runDetector(ctx, c.secondary, shot, page)
	if primary == nil && secondary == nil {
		c.logger.Warn("all detectors failed, returning degraded vision result")
		return degradedResult()
	}

	result := merge(primary, secondary)
	summarize(result)
	return result
}

func (c *Coordinator) runDetector(ctx context.Context, d output.Detector, shot *entity.Screenshot, page *entity.PageContext) *entity.Detection {
	if d == nil {
		return nil
	}
	det, err := d.Detect(ctx, shot, page)
	if err != nil {
		c.logger.Warn("detector returned no result", "detector", d.Name(), "error", err)
		return nil
	}
	return det
}

// merge keeps the primary's fields, attaches the secondary verbatim as
// backup and takes the higher confidence, treating a missing side as 0.
func merge(primary, secondary *entity.Detection) *entity.VisionResult {
	result := &entity.VisionResult{MultiSource: true}

	var primaryConf, secondaryConf float64
	if primary != nil {
		result.Method = primary.Method
		result.Elements = primary.Elements
		primaryConf = primary.Confidence
	}
	if secondary != nil {
		result.Backup = secondary
		secondaryConf = secondary.Confidence
		if result.Method == "" {
			result.Method = secondary.Method
		}
		if len(result.Elements) == 0 {
			result.Elements = secondary.Elements
		}
	}

	result.Confidence = primaryConf
	if secondaryConf > result.Confidence {
		result.Confidence = secondaryConf
	}
	return result
}

func degradedResult() *entity.VisionResult {
	return &entity.VisionResult{
		Method:     degradedMethod,
		Confidence: degradedConfidence,
		Elements:   []entity.DetectedElement{},
		AuthFlow:   entity.AuthFlow{Detected: false},
	}
}

var authLabelKeywords = []string{"login", "log in", "sign in", "signin", "password", "continue with"}

// summarize derives the auth-flow and navigation affordance summaries from
// the detected element list.
func summarize(result *entity.VisionResult) {
	for _, el := range result.Elements {
		label := strings.ToLower(el.Label)
		typ := strings.ToLower(el.Type)

		if !result.AuthFlow.Detected {
			for _, kw := range authLabelKeywords {
				if strings.Contains(label, kw) || strings.Contains(typ, "login") {
					result.AuthFlow.Detected = true
					result.AuthFlow.Provider = authProvider(label)
					break
				}
			}
		}

		switch typ {
		case "link", "nav", "navigation":
			result.Navigation.Links = append(result.Navigation.Links, el.Label)
		case "menu", "menubar":
			result.Navigation.Menus = append(result.Navigation.Menus, el.Label)
		}
	}
}

func authProvider(label string) string {
	if strings.Contains(label, "google") {
		return "google"
	}
	return "email"
}

func accessibilitySnapshot(page *entity.PageContext, limit int) []entity.AccessibilityNode {
	if page == nil {
		return nil
	}
	nodes := make([]entity.AccessibilityNode, 0, len(page.Elements))
	for _, el := range page.Elements {
		if len(nodes) >= limit {
			break
		}
		nodes = append(nodes, entity.AccessibilityNode{
			Tag:       el.Tag,
			Text:      el.Text,
			Role:      el.Role,
			AriaLabel: el.AriaLabel,
		})
	}
	return nodes
}
