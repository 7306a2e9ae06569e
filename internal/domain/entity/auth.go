package entity

type AuthMethod string

const (
	AuthMethodGoogle        AuthMethod = "google"
	AuthMethodEmailPassword AuthMethod = "email_password"
	AuthMethodNone          AuthMethod = ""
)

// AuthResult is always well-formed; detector failures degrade into
// Success=false with an error message instead of propagating.
type AuthResult struct {
	Success    bool
	LoggedIn   bool
	Method     AuthMethod
	Confidence float64
	Error      string
}

// AuthProfile is the durable user identity used to drive login flows.
// Loaded at most once per process and persisted back when first created.
type AuthProfile struct {
	Name             string `yaml:"name"`
	Email            string `yaml:"email"`
	Phone            string `yaml:"phone"`
	Address          string `yaml:"address"`
	Password         string `yaml:"password"`
	PreferGoogleAuth bool   `yaml:"prefer_google_auth"`
}
