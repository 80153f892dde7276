package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"eitsapi/internal/configutil"
	"eitsapi/internal/scraper"
	"eitsapi/internal/telemetry"
)

type Config struct {
	Url            string `json:"url"`
	Version        int    `json:"version"`
	Html           bool   `json:"html"`
	Output         string `json:"output"`
	RisksOutput    string `json:"risks_output"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// VerifyTls defaults to true when left out.
	VerifyTls        *bool  `json:"verify_tls"`
	UserAgent        string `json:"user_agent"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`
	// RiskTable is the path of a JSON risk table used instead of the bundled one.
	RiskTable string           `json:"risk_table"`
	Telemetry telemetry.Config `json:"telemetry"`
}

const (
	defaultVersion     = 2023
	defaultOutput      = "modules_and_measures.json"
	defaultRisksOutput = "risks.json"
	defaultTimeout     = 60
)

func (c Config) verifyTls() bool {
	return c.VerifyTls == nil || *c.VerifyTls
}

func (c *Config) applyDefaults() {
	if c.Url == "" {
		c.Url = scraper.DefaultBaseUrl
	}
	if c.Version == 0 {
		c.Version = defaultVersion
	}
	if c.Output == "" {
		c.Output = defaultOutput
	}
	if c.RisksOutput == "" {
		c.RisksOutput = defaultRisksOutput
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeout
	}
}

func (c *Config) applyEnv() error {
	c.Url = configutil.EnvString("EITS_URL", c.Url)
	c.Html = configutil.EnvBool("EITS_OUTPUT_FORMAT_HTML", c.Html)
	c.Output = configutil.EnvString("EITS_OUTPUT_JSON", c.Output)
	c.TimeoutSeconds = configutil.EnvInt("EITS_TIMEOUT_SECONDS", c.TimeoutSeconds)

	version := configutil.EnvString("EITS_VERSION", "")
	if version == "" {
		return nil
	}
	parsed, err := strconv.Atoi(version)
	if err != nil {
		return fmt.Errorf("EITS_VERSION: %w", err)
	}
	c.Version = parsed
	return nil
}

// LoadConfig reads the config file and its local override, then applies
// variables from .env and the environment. A missing config file leaves
// every field at its default.
func LoadConfig(path, dotenv string) (Config, error) {
	err := configutil.LoadDotenv(dotenv)
	if err != nil {
		return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
	}

	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	cfg.applyDefaults()
	err = cfg.applyEnv()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
