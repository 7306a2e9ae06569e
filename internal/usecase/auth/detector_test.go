package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"toolgen/internal/domain/entity"
	"toolgen/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession answers Exists from a set of selector fragments present on
// the imaginary page and records Fill/Click calls.
type fakeSession struct {
	present  []string
	fills    map[string]string
	clicks   []string
	fillErr  error
	clickErr error
}

func newFakeSession(present ...string) *fakeSession {
	return &fakeSession{present: present, fills: make(map[string]string)}
}

func (s *fakeSession) Navigate(context.Context, string, time.Duration) error { return nil }

func (s *fakeSession) Screenshot(context.Context) (*entity.Screenshot, error) { return nil, nil }

func (s *fakeSession) PageContext(context.Context) (*entity.PageContext, error) { return nil, nil }

func (s *fakeSession) ExtractElements(context.Context) ([]entity.RawElement, error) {
	return nil, nil
}

func (s *fakeSession) Exists(_ context.Context, selector string) (bool, error) {
	for _, fragment := range s.present {
		if strings.Contains(selector, fragment) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeSession) Click(_ context.Context, selector string) error {
	if s.clickErr != nil {
		return s.clickErr
	}
	s.clicks = append(s.clicks, selector)
	return nil
}

func (s *fakeSession) Fill(_ context.Context, selector, text string) error {
	if s.fillErr != nil {
		return s.fillErr
	}
	s.fills[selector] = text
	return nil
}

func (s *fakeSession) CurrentURL() string { return "https://example.com" }

func (s *fakeSession) Close() {}

type memoryStore struct {
	profile *entity.AuthProfile
	loadErr error
	saves   int
}

func (m *memoryStore) Load() (*entity.AuthProfile, error) { return m.profile, m.loadErr }

func (m *memoryStore) Save(p *entity.AuthProfile) error {
	m.profile = p
	m.saves++
	return nil
}

func TestDetectAndHandle_AlreadyLoggedIn(t *testing.T) {
	// A logout link and no password field means logged in, confidence 0.8.
	session := newFakeSession("logout")
	d := New(&memoryStore{}, logger.Nop(), entity.AuthProfile{})

	result := d.DetectAndHandle(context.Background(), session, "https://example.com")

	assert.True(t, result.Success)
	assert.True(t, result.LoggedIn)
	assert.Equal(t, 0.8, result.Confidence)
}

func TestDetectAndHandle_LoginFormPresentMeansLoggedOut(t *testing.T) {
	// Logged-in indicators are overruled by a visible login form.
	session := newFakeSession("logout", "password")
	d := New(&memoryStore{}, logger.Nop(), entity.AuthProfile{
		Email: "u@example.com", Password: "secret",
	})

	result := d.DetectAndHandle(context.Background(), session, "https://example.com")

	assert.False(t, result.LoggedIn)
	assert.Equal(t, 0.9, result.Confidence)
	// The password input doubles as an email/password form affordance.
	assert.Equal(t, entity.AuthMethodEmailPassword, result.Method)
}

func TestDetectAndHandle_GooglePreferred(t *testing.T) {
	session := newFakeSession("google", "email")
	d := New(&memoryStore{}, logger.Nop(), entity.AuthProfile{PreferGoogleAuth: true})

	result := d.DetectAndHandle(context.Background(), session, "https://example.com")

	require.True(t, result.Success)
	assert.Equal(t, entity.AuthMethodGoogle, result.Method)
	require.Len(t, session.clicks, 1)
	assert.Contains(t, session.clicks[0], "google")
}

func TestDetectAndHandle_GooglePresentButNotPreferred(t *testing.T) {
	session := newFakeSession("google", "email", "password")
	d := New(&memoryStore{}, logger.Nop(), entity.AuthProfile{
		Email: "u@example.com", Password: "secret", PreferGoogleAuth: false,
	})

	result := d.DetectAndHandle(context.Background(), session, "https://example.com")

	require.True(t, result.Success)
	assert.Equal(t, entity.AuthMethodEmailPassword, result.Method)
	for _, clicked := range session.clicks {
		assert.NotContains(t, clicked, "google")
	}
	assert.Equal(t, "u@example.com", session.fills[emailFieldSelector])
	assert.Equal(t, "secret", session.fills[passwordFieldSelector])
}

func TestDetectAndHandle_Unsupported(t *testing.T) {
	session := newFakeSession()
	d := New(&memoryStore{}, logger.Nop(), entity.AuthProfile{})

	result := d.DetectAndHandle(context.Background(), session, "https://example.com")

	assert.False(t, result.Success)
	assert.Equal(t, entity.AuthMethodNone, result.Method)
	assert.Equal(t, entity.ErrUnsupportedAuth.Error(), result.Error)
	assert.Equal(t, "Unsupported authentication method", result.Error)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestDetectAndHandle_FillFailureDegrades(t *testing.T) {
	session := newFakeSession("email")
	session.fillErr = errors.New("field detached")
	d := New(&memoryStore{}, logger.Nop(), entity.AuthProfile{Email: "u@example.com"})

	result := d.DetectAndHandle(context.Background(), session, "https://example.com")

	assert.False(t, result.Success)
	assert.Equal(t, entity.AuthMethodEmailPassword, result.Method)
	assert.Contains(t, result.Error, "field detached")
}

func TestProfile_CreatedOnceWithDefaults(t *testing.T) {
	store := &memoryStore{}
	d := New(store, logger.Nop(), entity.AuthProfile{Email: "seeded@example.com"})

	first := d.Profile()
	second := d.Profile()

	assert.Same(t, first, second, "profile must load at most once per process")
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, "seeded@example.com", first.Email)
	assert.Equal(t, "Automation User", first.Name, "unset fields get literal defaults")
	assert.Equal(t, "change-me", first.Password)
}

func TestProfile_ExistingNotRegenerated(t *testing.T) {
	store := &memoryStore{profile: &entity.AuthProfile{Name: "Stored", Email: "stored@example.com"}}
	d := New(store, logger.Nop(), entity.AuthProfile{Email: "seeded@example.com"})

	p := d.Profile()

	assert.Equal(t, "stored@example.com", p.Email)
	assert.Equal(t, 0, store.saves)
}
