package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	Env      string
	HTTPAddr string

	DBDriver string
	DBDSN    string

	EnableLocalAuth bool
	EnableGuestAuth bool
	AuthHMACSecret  string

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	// Marking service
	MarkingBaseURL string
	MarkingAPIKey  string
	MarkingTimeout time.Duration // 0 = transport default
	// MarkingRequireAPIKey makes a missing key fatal at startup instead of
	// falling back to unauthenticated calls.
	MarkingRequireAPIKey bool

	QuestionTypesFile string

	RollbarToken string
}

// LoadDotEnv loads path (default ".env") into the environment when it
// exists. Variables already set win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:               mode,
		Env:                envOr("ENV", "development"),
		HTTPAddr:           envOr("HTTP_ADDR", ":8080"),
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		EnableLocalAuth:    envBool("ENABLE_LOCAL_AUTH", true),
		EnableGuestAuth:    envBool("ENABLE_GUEST_AUTH", true),
		AuthHMACSecret:     envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://app.examprep.example"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),

		MarkingBaseURL:       envOr("MARKING_BASE_URL", "http://localhost:8000"),
		MarkingAPIKey:        os.Getenv("MARKING_API_KEY"),
		MarkingTimeout:       envDuration("MARKING_TIMEOUT", 0),
		MarkingRequireAPIKey: envBool("MARKING_REQUIRE_API_KEY", false),

		QuestionTypesFile: os.Getenv("QUESTION_TYPES_FILE"),
		RollbarToken:      os.Getenv("ROLLBAR_TOKEN"),
	}
}

// CORSOrigins returns the allowed origins for the current mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return def
	}
	return d
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
