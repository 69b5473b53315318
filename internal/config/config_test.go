package config

import (
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Storage.LinksBackend != BackendPostgres {
		t.Errorf("backend = %q, want %q", cfg.Storage.LinksBackend, BackendPostgres)
	}
	if cfg.Redirect.Status != 301 {
		t.Errorf("redirect status = %d, want 301", cfg.Redirect.Status)
	}
	if cfg.Redis.MetricsKey != "metrics" {
		t.Errorf("metrics key = %q, want %q", cfg.Redis.MetricsKey, "metrics")
	}
	if cfg.Metrics.Mode != "score" || cfg.Metrics.DefaultLimit != 50 {
		t.Errorf("metrics = %+v, want score/50", cfg.Metrics)
	}
	if cfg.Clicks.Mode != ClicksModeDirect || cfg.Clicks.Timeout != 2*time.Second {
		t.Errorf("clicks = %+v", cfg.Clicks)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "mongo")
	t.Setenv("METRICS_MODE", "rank")
	t.Setenv("CLICKS_MODE", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("REDIRECT_STATUS", "302")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Storage.LinksBackend != BackendMongo {
		t.Errorf("backend = %q", cfg.Storage.LinksBackend)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Redirect.Status != 302 {
		t.Errorf("redirect status = %d", cfg.Redirect.Status)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{"redirect status", func(c *Config) { c.Redirect.Status = 307 }, "REDIRECT_STATUS"},
		{"backend", func(c *Config) { c.Storage.LinksBackend = "sqlite" }, "STORAGE_BACKEND"},
		{"metrics mode", func(c *Config) { c.Metrics.Mode = "top" }, "METRICS_MODE"},
		{"metrics limit", func(c *Config) { c.Metrics.DefaultLimit = 0 }, "METRICS_DEFAULT_LIMIT"},
		{"clicks mode", func(c *Config) { c.Clicks.Mode = "sync" }, "CLICKS_MODE"},
		{"kafka brokers", func(c *Config) { c.Clicks.Mode = ClicksModeKafka; c.Kafka.Brokers = nil }, "KAFKA_BROKERS"},
		{"click timeout", func(c *Config) { c.Clicks.Timeout = 0 }, "CLICK_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.wantMsg)
			}
		})
	}
}

func TestPostgresConfig_DSNAndURL(t *testing.T) {
	p := PostgresConfig{
		Host:     "db",
		Port:     "5432",
		User:     "docker",
		Password: "p@ss",
		Database: "shortlinks",
		SSLMode:  "disable",
	}

	if got, want := p.URL(), "postgres://docker:p%40ss@db:5432/shortlinks?sslmode=disable"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
	if p.DSN() != p.URL() {
		t.Errorf("DSN() = %q, want the URL form %q", p.DSN(), p.URL())
	}
}

func TestPostgresConfig_DSNKeepsAwkwardPasswords(t *testing.T) {
	passwords := []string{"p@ss", "with space", `quote'and"double`, "back\\slash", "semi;colon=eq"}

	for _, pw := range passwords {
		t.Run(pw, func(t *testing.T) {
			p := PostgresConfig{
				Host:     "db",
				Port:     "5432",
				User:     "docker",
				Password: pw,
				Database: "shortlinks",
				SSLMode:  "disable",
			}

			parsed, err := pgconn.ParseConfig(p.DSN())
			if err != nil {
				t.Fatalf("ParseConfig: %v", err)
			}
			if parsed.Password != pw {
				t.Errorf("password = %q, want %q", parsed.Password, pw)
			}
			if parsed.User != "docker" || parsed.Database != "shortlinks" || parsed.Host != "db" || parsed.Port != 5432 {
				t.Errorf("unexpected config %+v", parsed)
			}
		})
	}
}
