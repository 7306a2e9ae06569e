package rod

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"time"

	"toolgen/internal/application/port/output"
	"toolgen/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"
)

const (
	defaultNavTimeout = 30 * time.Second
	queryTimeout      = 3 * time.Second
	maxImageWidth     = 1024
)

var _ output.SessionProvider = (*Provider)(nil)

type Config struct {
	Headless  bool
	NoSandbox bool
	Stealth   bool
}

func DefaultConfig() Config {
	return Config{
		Headless:  true,
		NoSandbox: false,
		Stealth:   true,
	}
}

type Provider struct {
	cfg    Config
	logger output.LoggerPort
}

func NewProvider(cfg Config, logger output.LoggerPort) *Provider {
	return &Provider{cfg: cfg, logger: logger}
}

func (p *Provider) Open(ctx context.Context) (output.SessionPort, error) {
	l := launcher.New().
		Headless(p.cfg.Headless).
		NoSandbox(p.cfg.NoSandbox)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	var page *rod.Page
	if p.cfg.Stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	p.logger.Debug("browser session opened", "headless", p.cfg.Headless, "stealth", p.cfg.Stealth)
	return &Session{browser: browser, launcher: l, page: page}, nil
}

var _ output.SessionPort = (*Session)(nil)

type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
}

func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultNavTimeout
	}

	page := s.page.Context(ctx).Timeout(timeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("page load exceeded %s: %w", timeout, err)
	}
	_ = s.page.WaitIdle(2 * time.Second)
	return nil
}

func (s *Session) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := s.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (s *Session) PageContext(ctx context.Context) (*entity.PageContext, error) {
	info, err := s.page.Info()
	if err != nil {
		return nil, fmt.Errorf("page info failed: %w", err)
	}

	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to get HTML: %w", err)
	}

	elements, err := s.ExtractElements(ctx)
	if err != nil {
		elements = nil
	}

	return &entity.PageContext{
		URL:      info.URL,
		Title:    info.Title,
		HTML:     html,
		Elements: elements,
	}, nil
}

func (s *Session) ExtractElements(ctx context.Context) ([]entity.RawElement, error) {
	res, err := s.page.Context(ctx).Eval(extractScript)
	if err != nil {
		return nil, fmt.Errorf("element extraction script failed: %w", err)
	}

	data, err := json.Marshal(res.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extraction result: %w", err)
	}

	var raw []entity.RawElement
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode extraction result: %w", err)
	}
	return raw, nil
}

func (s *Session) Exists(ctx context.Context, selector string) (bool, error) {
	elements, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return false, fmt.Errorf("selector query failed: %s: %w", selector, err)
	}
	return len(elements) > 0, nil
}

func (s *Session) Click(ctx context.Context, selector string) error {
	el, err := s.page.Context(ctx).Timeout(queryTimeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	_ = s.page.WaitIdle(2 * time.Second)
	return nil
}

func (s *Session) Fill(ctx context.Context, selector, text string) error {
	el, err := s.page.Context(ctx).Timeout(queryTimeout).Element(selector)
	if err != nil {
		return fmt.Errorf("field not found: %s: %w", selector, err)
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}

	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (s *Session) CurrentURL() string {
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (s *Session) Close() {
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
}
