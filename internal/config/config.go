package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN    string   `env:"DATABASE_URI"`
	AuthSecret     string   `env:"AUTH_SECRET"`
	RateLimitRPS   float64  `env:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST"`
	AdminEmails    []string `env:"ADMIN_EMAILS" envSeparator:","`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres DSN или путь SQLite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.Float64Var(&cfg.RateLimitRPS, "rps", cfg.RateLimitRPS, "лимит запросов на запись в секунду на пользователя")
	flag.IntVar(&cfg.RateLimitBurst, "burst", cfg.RateLimitBurst, "размер всплеска для лимита запросов")
	adminEmails := flag.String("admin-emails", strings.Join(cfg.AdminEmails, ","), "email администраторов через запятую")

	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the LostFound server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.AdminEmails = splitList(*adminEmails)

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 5
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 10
	}
	// BaseURL только в виде "address:port", иначе дефолт
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	if cfg.TokenFile == "" {
		home, _ := os.UserHomeDir()
		cfg.TokenFile = filepath.Join(home, ".lostfound_token")
	}

	return cfg
}

// splitList разбирает список через запятую, пропуская пустые элементы.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
