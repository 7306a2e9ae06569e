package synth

import (
	"fmt"
	"net/url"
	"strings"

	"toolgen/internal/domain/entity"
)

const (
	defaultActionToolCap = 10
	defaultNavToolCap    = 5
	defaultNameMaxLen    = 20

	fallbackSiteLabel = "site"
)

type Config struct {
	ActionToolCap int
	NavToolCap    int
	NameMaxLen    int
}

func DefaultConfig() Config {
	return Config{
		ActionToolCap: defaultActionToolCap,
		NavToolCap:    defaultNavToolCap,
		NameMaxLen:    defaultNameMaxLen,
	}
}

// Synthesizer converts categorized elements and a vision result into a tool
// set. Synthesize is a pure function of its inputs: identical inputs yield
// an identical tool set.
type Synthesizer struct {
	cfg Config
}

func New(cfg Config) *Synthesizer {
	if cfg.ActionToolCap <= 0 {
		cfg.ActionToolCap = defaultActionToolCap
	}
	if cfg.NavToolCap <= 0 {
		cfg.NavToolCap = defaultNavToolCap
	}
	if cfg.NameMaxLen <= 0 {
		cfg.NameMaxLen = defaultNameMaxLen
	}
	return &Synthesizer{cfg: cfg}
}

func (s *Synthesizer) Synthesize(elements *entity.CategorizedElements, vision *entity.VisionResult, pageURL string) *entity.ToolSet {
	site := SiteLabel(pageURL)
	b := newBuilder(site)

	s.baseTools(b, pageURL)
	if elements != nil {
		s.authTools(b, elements.Authentication)
		s.actionTools(b, elements.Actions)
		s.formTools(b, elements.Forms)
		s.navTools(b, elements.Navigation)
	}
	if vision != nil && vision.AuthFlow.Detected {
		s.visionAuthTool(b, vision.AuthFlow)
	}

	return &entity.ToolSet{Site: site, Tools: b.tools}
}

// baseTools are emitted for every page regardless of content.
func (s *Synthesizer) baseTools(b *builder, pageURL string) {
	b.add(entity.ToolDescriptor{
		Name:        b.site + "_initialize",
		Description: fmt.Sprintf("Open a browser session and navigate to %s", pageURL),
		Schema:      map[string]entity.SchemaField{},
		Action:      "initialize",
	})
	b.add(entity.ToolDescriptor{
		Name:        b.site + "_screenshot",
		Description: "Capture a screenshot of the current page state",
		Schema:      map[string]entity.SchemaField{},
		Action:      "screenshot",
	})
	b.add(entity.ToolDescriptor{
		Name:        b.site + "_get_status",
		Description: "Report the current URL, title and session state",
		Schema:      map[string]entity.SchemaField{},
		Action:      "status",
	})
}

var loginTextKeywords = []string{"login", "log in", "sign in", "signin"}

var signupTextKeywords = []string{"signup", "sign up", "register", "create account"}

func (s *Synthesizer) authTools(b *builder, elements []entity.ElementDescriptor) {
	if el, ok := firstMatching(elements, loginTextKeywords); ok {
		b.add(entity.ToolDescriptor{
			Name:        b.site + "_login",
			Description: "Log in with email and password",
			Schema: map[string]entity.SchemaField{
				"email":    {Type: "string", Description: "Account email address", Required: true},
				"password": {Type: "string", Description: "Account password", Required: true},
			},
			Action:  "login",
			Binding: &entity.ToolBinding{Selector: el.Selector, Element: el.Text},
		})
	}

	if el, ok := firstMatching(elements, signupTextKeywords); ok {
		b.add(entity.ToolDescriptor{
			Name:        b.site + "_signup",
			Description: "Create a new account",
			Schema: map[string]entity.SchemaField{
				"email":    {Type: "string", Description: "Email address for the new account", Required: true},
				"password": {Type: "string", Description: "Password for the new account", Required: true},
				"name":     {Type: "string", Description: "Full name", Required: false},
			},
			Action:  "signup",
			Binding: &entity.ToolBinding{Selector: el.Selector, Element: el.Text},
		})
	}
}

// actionTools emits one click tool per clickable element with text, in DOM
// discovery order, capped to bound package size.
func (s *Synthesizer) actionTools(b *builder, elements []entity.ElementDescriptor) {
	count := 0
	for _, el := range elements {
		if count >= s.cfg.ActionToolCap {
			break
		}
		if !el.IsClickable || el.Text == "" {
			continue
		}
		b.add(entity.ToolDescriptor{
			Name:        b.site + "_" + SanitizeName(el.Text, s.cfg.NameMaxLen),
			Description: fmt.Sprintf("Click the %q control", el.Text),
			Schema:      map[string]entity.SchemaField{},
			Action:      "click",
			Binding:     &entity.ToolBinding{Selector: el.Selector, Element: el.Text},
		})
		count++
	}
}

// formTools treats all form elements on the page as one group and emits a
// single fill tool with a schema field per addressable element.
func (s *Synthesizer) formTools(b *builder, elements []entity.ElementDescriptor) {
	schema := map[string]entity.SchemaField{}
	for _, el := range elements {
		key := el.Attrs.Name
		if key == "" {
			key = el.Placeholder
		}
		if key == "" {
			continue
		}
		schema[SanitizeName(key, s.cfg.NameMaxLen)] = entity.SchemaField{
			Type:        "string",
			Description: fmt.Sprintf("Value for the %q field", key),
		}
	}
	if len(schema) == 0 {
		return
	}

	b.add(entity.ToolDescriptor{
		Name:        b.site + "_fill_form",
		Description: "Fill the page's form fields",
		Schema:      schema,
		Action:      "fill_form",
	})
}

func (s *Synthesizer) navTools(b *builder, elements []entity.ElementDescriptor) {
	count := 0
	for _, el := range elements {
		if count >= s.cfg.NavToolCap {
			break
		}
		if el.Href == "" || el.Text == "" {
			continue
		}
		b.add(entity.ToolDescriptor{
			Name:        b.site + "_goto_" + SanitizeName(el.Text, s.cfg.NameMaxLen),
			Description: fmt.Sprintf("Navigate to %q", el.Text),
			Schema:      map[string]entity.SchemaField{},
			Action:      "navigate",
			Binding:     &entity.ToolBinding{Selector: el.Selector, Element: el.Text, Href: el.Href},
		})
		count++
	}
}

func (s *Synthesizer) visionAuthTool(b *builder, flow entity.AuthFlow) {
	b.add(entity.ToolDescriptor{
		Name:        b.site + "_vision_login",
		Description: "Authenticate via the visually detected login flow",
		Schema: map[string]entity.SchemaField{
			"email":    {Type: "string", Description: "Account email address", Required: true},
			"password": {Type: "string", Description: "Account password", Required: true},
		},
		Action:  "login",
		Binding: &entity.ToolBinding{Selector: flow.Selector, Provider: flow.Provider},
	})
}

func firstMatching(elements []entity.ElementDescriptor, keywords []string) (entity.ElementDescriptor, bool) {
	for _, el := range elements {
		text := strings.ToLower(el.Text)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return el, true
			}
		}
	}
	return entity.ElementDescriptor{}, false
}

// builder collects tools and keeps names unique by appending a numeric
// suffix on collision.
type builder struct {
	site  string
	tools []entity.ToolDescriptor
	used  map[string]int
}

func newBuilder(site string) *builder {
	return &builder{site: site, used: make(map[string]int)}
}

func (b *builder) add(tool entity.ToolDescriptor) {
	b.used[tool.Name]++
	if n := b.used[tool.Name]; n > 1 {
		tool.Name = fmt.Sprintf("%s_%d", tool.Name, n)
	}
	b.tools = append(b.tools, tool)
}

// SanitizeName replaces every non-alphanumeric character with an underscore,
// preserving case, and truncates to max characters.
func SanitizeName(s string, max int) string {
	var sb strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	out := sb.String()
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// SiteLabel derives the tool-name prefix from the URL host, falling back to
// a literal default when the URL cannot be parsed.
func SiteLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return fallbackSiteLabel
	}
	var sb strings.Builder
	for _, r := range u.Host {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return fallbackSiteLabel
	}
	return sb.String()
}
