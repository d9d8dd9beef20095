package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const maxEnvSources = 20

type Config struct {
	DSN        string           `toml:"dsn"`
	Monitor    MonitorConfig    `toml:"monitor"`
	Pararius   SiteConfig       `toml:"pararius"`
	Funda      SiteConfig       `toml:"funda"`
	Politeness PolitenessConfig `toml:"politeness"`
	Server     ServerConfig     `toml:"server"`
	Logging    LoggingConfig    `toml:"logging"`
	Twilio     TwilioConfig     `toml:"-"`
}

type MonitorConfig struct {
	CheckInterval  string  `toml:"check_interval"`
	JitterFraction float64 `toml:"jitter_fraction"`
}

type SiteConfig struct {
	Sources  []string `toml:"sources"`
	DataFile string   `toml:"data_file"`
}

type PolitenessConfig struct {
	SourceDelay   string `toml:"source_delay"`
	NotifyDelay   string `toml:"notify_delay"`
	FetchTimeout  string `toml:"fetch_timeout"`
	RespectRobots bool   `toml:"respect_robots"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// TwilioConfig comes from the environment, never from the config file,
// so credentials stay out of checked-in configuration.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	ToNumber   string
}

func (t TwilioConfig) Complete() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != "" && t.ToNumber != ""
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	cfg.Monitor.CheckInterval = "15m"
	cfg.Monitor.JitterFraction = 0.1
	cfg.Pararius.DataFile = "seen_listings.json"
	cfg.Funda.DataFile = "seen_funda_listings.json"
	cfg.Politeness.SourceDelay = "3s"
	cfg.Politeness.NotifyDelay = "2s"
	cfg.Politeness.FetchTimeout = "20s"
	cfg.Server.Addr = ":5000"
	cfg.Logging.Format = "text"
	cfg.Logging.Level = "info"

	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()

	return &cfg, nil
}

// applyEnv overlays the deployment environment on top of the file:
// CHECK_INTERVAL (seconds), PARARIUS_SEARCH_URL_1..20, FUNDA_SEARCH_URL,
// and the Twilio credentials.
func (c *Config) applyEnv() {
	if v := os.Getenv("CHECK_INTERVAL"); v != "" {
		var secs int
		if _, err := fmt.Sscanf(v, "%d", &secs); err == nil && secs > 0 {
			c.Monitor.CheckInterval = fmt.Sprintf("%ds", secs)
		}
	}

	for i := 1; i <= maxEnvSources; i++ {
		// numbering may be non-sequential, so check every slot
		if url := os.Getenv(fmt.Sprintf("PARARIUS_SEARCH_URL_%d", i)); url != "" {
			c.Pararius.Sources = append(c.Pararius.Sources, url)
		}
	}
	if url := os.Getenv("FUNDA_SEARCH_URL"); url != "" {
		c.Funda.Sources = append(c.Funda.Sources, url)
	}

	c.Twilio = TwilioConfig{
		AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		FromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		ToNumber:   os.Getenv("NOTIFICATION_NUMBER"),
	}
}

func (c *MonitorConfig) GetCheckInterval() time.Duration {
	d, err := time.ParseDuration(c.CheckInterval)
	if err != nil {
		return 15 * time.Minute // Fallback
	}
	return d
}

func (c *PolitenessConfig) GetSourceDelay() time.Duration {
	return parseDuration(c.SourceDelay, 3*time.Second)
}

func (c *PolitenessConfig) GetNotifyDelay() time.Duration {
	return parseDuration(c.NotifyDelay, 2*time.Second)
}

func (c *PolitenessConfig) GetFetchTimeout() time.Duration {
	return parseDuration(c.FetchTimeout, 20*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
