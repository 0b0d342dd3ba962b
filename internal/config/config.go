package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort             = "8080"
	DefaultWhatsAppNumber   = "923194635913"
	DefaultCartTTL          = 30 * 24 * time.Hour
	DefaultSessionMaxAge    = 86400 * 30
	DefaultTypingDelay      = time.Second
	DefaultSlideInterval    = 3 * time.Second
	DefaultRateLimitPerMin  = 30
	DefaultSMTPPort         = 587
	DefaultDevSessionSecret = "dotscent-dev-session-secret"
)

// Config regroupe toute la configuration du serveur, lue depuis l'environnement.
type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	SessionSecret string
	SessionMaxAge int
	SecureCookies bool

	RedisHost     string
	RedisPassword string
	CartTTL       time.Duration

	WhatsAppNumber string
	TypingDelay    time.Duration
	SlideInterval  time.Duration

	CORSOrigins        []string
	RateLimitPerMinute int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	ContactEmail string
}

// Load charge le fichier .env (optionnel) puis construit la configuration.
// envLoaded indique si .env a été lu ; le logger, qui dépend de LOG_LEVEL, n'existe pas encore.
func Load() (cfg *Config, envLoaded bool) {
	envLoaded = godotenv.Load(".env") == nil
	return FromEnv(), envLoaded
}

// FromEnv lit les variables d'environnement sans toucher au fichier .env.
func FromEnv() *Config {
	cfg := &Config{
		Port:     getString("PORT", DefaultPort),
		GinMode:  os.Getenv("GIN_MODE"),
		LogLevel: getString("LOG_LEVEL", "info"),

		SessionSecret: getString("SESSION_SECRET", DefaultDevSessionSecret),
		SessionMaxAge: getInt("SESSION_MAX_AGE", DefaultSessionMaxAge),
		SecureCookies: getBool("SECURE_COOKIES", false),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CartTTL:       getDuration("CART_TTL", DefaultCartTTL),

		WhatsAppNumber: getString("WHATSAPP_NUMBER", DefaultWhatsAppNumber),
		TypingDelay:    getDuration("CHAT_TYPING_DELAY", DefaultTypingDelay),
		SlideInterval:  getDuration("SLIDE_INTERVAL", DefaultSlideInterval),

		CORSOrigins:        getList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", DefaultRateLimitPerMin),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getInt("SMTP_PORT", DefaultSMTPPort),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		ContactEmail: os.Getenv("CONTACT_EMAIL"),
	}
	return cfg
}

// RedisEnabled indique si un serveur Redis est configuré.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// MailEnabled indique si les copies e-mail du formulaire de contact sont actives.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.ContactEmail != ""
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
