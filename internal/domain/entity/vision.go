package entity

type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type DetectedElement struct {
	Type       string      `json:"type"`
	Label      string      `json:"label"`
	Box        BoundingBox `json:"box"`
	Confidence float64     `json:"confidence"`
}

// Detection is the output of a single detector backend.
type Detection struct {
	Method     string
	Confidence float64
	Elements   []DetectedElement
	Raw        string
}

type AuthFlow struct {
	Detected bool
	Provider string
	Selector string
}

type NavigationSummary struct {
	Menus []string
	Links []string
}

type AccessibilityNode struct {
	Tag       string `json:"tag"`
	Text      string `json:"text"`
	Role      string `json:"role"`
	AriaLabel string `json:"ariaLabel"`
}

// VisionResult is always well-formed: when every detector fails the
// coordinator returns a fixed degraded value instead of an error, so callers
// branch on fields, never on detector availability.
type VisionResult struct {
	Method        string
	Confidence    float64
	Elements      []DetectedElement
	Backup        *Detection
	MultiSource   bool
	AuthFlow      AuthFlow
	Navigation    NavigationSummary
	Accessibility []AccessibilityNode
}
