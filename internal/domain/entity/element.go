package entity

// Category is the exclusive bucket an interactive element is classified into.
type Category string

const (
	CategoryAuthentication Category = "authentication"
	CategoryNavigation     Category = "navigation"
	CategoryForms          Category = "forms"
	CategoryActions        Category = "actions"
	CategoryContent        Category = "content"
)

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RawElement is the untouched record the in-page extractor returns for one
// DOM node. The mapper normalizes it into an ElementDescriptor.
type RawElement struct {
	Tag         string   `json:"tag"`
	Text        string   `json:"text"`
	Placeholder string   `json:"placeholder"`
	Value       string   `json:"value"`
	Href        string   `json:"href"`
	ID          string   `json:"id"`
	Classes     []string `json:"classes"`
	Role        string   `json:"role"`
	AriaLabel   string   `json:"ariaLabel"`
	TestID      string   `json:"testId"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	HasOnClick  bool     `json:"hasOnClick"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
}

type ElementAttributes struct {
	ID        string
	Classes   []string
	Role      string
	AriaLabel string
	TestID    string
	Name      string
	Type      string
}

// ElementDescriptor is a normalized record of one interactive page element,
// immutable once produced by the mapper.
type ElementDescriptor struct {
	Tag         string
	Text        string
	Placeholder string
	Value       string
	Href        string
	Rect        Rect
	Attrs       ElementAttributes
	Selector    string
	IsVisible   bool
	IsClickable bool
	Category    Category
}

// CategorizedElements is a partition: every mapped element appears in
// exactly one of the five buckets.
type CategorizedElements struct {
	Authentication []ElementDescriptor
	Navigation     []ElementDescriptor
	Forms          []ElementDescriptor
	Actions        []ElementDescriptor
	Content        []ElementDescriptor
}

func (c *CategorizedElements) Add(el ElementDescriptor) {
	switch el.Category {
	case CategoryAuthentication:
		c.Authentication = append(c.Authentication, el)
	case CategoryNavigation:
		c.Navigation = append(c.Navigation, el)
	case CategoryForms:
		c.Forms = append(c.Forms, el)
	case CategoryActions:
		c.Actions = append(c.Actions, el)
	default:
		c.Content = append(c.Content, el)
	}
}

func (c *CategorizedElements) Total() int {
	return len(c.Authentication) + len(c.Navigation) + len(c.Forms) + len(c.Actions) + len(c.Content)
}

// AutomationPotential is a capped linear proxy, not a calibrated probability.
func (c *CategorizedElements) AutomationPotential() int {
	score := c.Total() * 10
	if score > 100 {
		return 100
	}
	return score
}
