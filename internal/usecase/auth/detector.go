package auth

import (
	"context"
	"sync"

	"toolgen/internal/application/port/output"
	"toolgen/internal/domain/entity"
)

// Confidence constants for the login-state heuristic. These are policy
// values, not computed statistics, and are kept stable for compatibility.
const (
	loggedInConfidence  = 0.8
	loggedOutConfidence = 0.9
)

var loggedInSelectors = []string{
	`a[href*="logout"]`,
	`a[href*="signout"]`,
	`a[href*="account"]`,
	`a[href*="profile"]`,
	`a[href*="dashboard"]`,
	`[data-testid*="user-menu"]`,
	`.user-avatar`,
	`button[aria-label*="account"]`,
}

var loginFormSelectors = []string{
	`input[type="password"]`,
	`form[id*="login"]`,
	`form[class*="login"]`,
	`form[action*="login"]`,
	`button[id*="login"]`,
	`button[class*="login"]`,
}

var googleAuthSelectors = []string{
	`[data-provider="google"]`,
	`button[class*="google"]`,
	`a[href*="accounts.google.com"]`,
	`[aria-label*="Google"]`,
}

var emailFormSelectors = []string{
	`input[type="email"]`,
	`input[name*="email"]`,
	`input[type="password"]`,
}

const (
	emailFieldSelector    = `input[type="email"], input[name*="email"]`
	passwordFieldSelector = `input[type="password"]`
	loginSubmitSelector   = `button[type="submit"], input[type="submit"]`
	googleButtonSelector  = `[data-provider="google"], button[class*="google"], a[href*="accounts.google.com"]`
)

// Detector determines login state and drives the authentication affordance
// the page offers. DetectAndHandle never returns an uncaught error: every
// failure degrades into the returned AuthResult.
type Detector struct {
	store  output.ProfileStore
	logger output.LoggerPort
	seed   entity.AuthProfile

	once    sync.Once
	profile *entity.AuthProfile
}

func New(store output.ProfileStore, logger output.LoggerPort, seed entity.AuthProfile) *Detector {
	return &Detector{
		store:  store,
		logger: logger,
		seed:   seed,
	}
}

func (d *Detector) DetectAndHandle(ctx context.Context, session output.SessionPort, url string) *entity.AuthResult {
	loggedIn, confidence := d.checkLoginState(ctx, session)
	if loggedIn {
		d.logger.Info("already logged in", "url", url, "confidence", confidence)
		return &entity.AuthResult{
			Success:    true,
			LoggedIn:   true,
			Confidence: confidence,
		}
	}

	profile := d.Profile()

	// Decision table, fixed order: preferred SSO first, then the plain
	// email/password form, otherwise unsupported (non-fatal).
	if d.anyExists(ctx, session, googleAuthSelectors) && profile.PreferGoogleAuth {
		return d.handleGoogle(ctx, session, confidence)
	}
	if d.anyExists(ctx, session, emailFormSelectors) {
		return d.handleEmailPassword(ctx, session, profile, confidence)
	}

	d.logger.Warn("no supported authentication affordance found", "url", url)
	return &entity.AuthResult{
		Success:    false,
		Method:     entity.AuthMethodNone,
		Confidence: confidence,
		Error:      entity.ErrUnsupportedAuth.Error(),
	}
}

// checkLoginState applies the fixed rule: logged in when logged-in
// indicators are present and no login form is.
func (d *Detector) checkLoginState(ctx context.Context, session output.SessionPort) (bool, float64) {
	hasIndicators := d.anyExists(ctx, session, loggedInSelectors)
	hasLoginForms := d.anyExists(ctx, session, loginFormSelectors)

	loggedIn := hasIndicators && !hasLoginForms
	if loggedIn {
		return true, loggedInConfidence
	}
	return false, loggedOutConfidence
}

func (d *Detector) handleGoogle(ctx context.Context, session output.SessionPort, confidence float64) *entity.AuthResult {
	if err := session.Click(ctx, googleButtonSelector); err != nil {
		d.logger.Error("google sign-in click failed", "error", err)
		return &entity.AuthResult{
			Success:    false,
			Method:     entity.AuthMethodGoogle,
			Confidence: confidence,
			Error:      err.Error(),
		}
	}
	return &entity.AuthResult{
		Success:    true,
		Method:     entity.AuthMethodGoogle,
		Confidence: confidence,
	}
}

func (d *Detector) handleEmailPassword(ctx context.Context, session output.SessionPort, profile *entity.AuthProfile, confidence float64) *entity.AuthResult {
	fail := func(err error) *entity.AuthResult {
		d.logger.Error("email/password login failed", "error", err)
		return &entity.AuthResult{
			Success:    false,
			Method:     entity.AuthMethodEmailPassword,
			Confidence: confidence,
			Error:      err.Error(),
		}
	}

	if err := session.Fill(ctx, emailFieldSelector, profile.Email); err != nil {
		return fail(err)
	}
	if err := session.Fill(ctx, passwordFieldSelector, profile.Password); err != nil {
		return fail(err)
	}
	if err := session.Click(ctx, loginSubmitSelector); err != nil {
		return fail(err)
	}

	return &entity.AuthResult{
		Success:    true,
		Method:     entity.AuthMethodEmailPassword,
		Confidence: confidence,
	}
}

// Profile loads the persisted profile at most once per process, creating and
// saving one from the seed configuration when none exists yet.
func (d *Detector) Profile() *entity.AuthProfile {
	d.once.Do(func() {
		stored, err := d.store.Load()
		if err != nil {
			d.logger.Warn("profile load failed, using seed values", "error", err)
		}
		if stored != nil {
			d.profile = stored
			return
		}

		created := d.seed
		if created.Name == "" {
			created.Name = "Automation User"
		}
		if created.Email == "" {
			created.Email = "automation@example.com"
		}
		if created.Password == "" {
			created.Password = "change-me"
		}

		if err := d.store.Save(&created); err != nil {
			d.logger.Warn("profile save failed", "error", err)
		}
		d.profile = &created
	})
	return d.profile
}

func (d *Detector) anyExists(ctx context.Context, session output.SessionPort, selectors []string) bool {
	for _, sel := range selectors {
		found, err := session.Exists(ctx, sel)
		if err != nil {
			d.logger.Debug("selector query failed", "selector", sel, "error", err)
			continue
		}
		if found {
			return true
		}
	}
	return false
}
