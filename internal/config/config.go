package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "config.yaml"

// Config is the full runtime configuration. An optional YAML file supplies
// defaults, environment variables override it.
type Config struct {
	TelegramToken   string `yaml:"telegram_token"`
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	LogMode         string `yaml:"log_mode"`
	TempDir         string `yaml:"temp_dir"`
}

func Load() (Config, error) {
	cfg := Config{
		CredentialsFile: "credentials.json",
		TokenFile:       "token.json",
	}

	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if path == "" {
		path = defaultConfigFile
	}
	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	overrideString(&cfg.TelegramToken, "TELEGRAM_TOKEN")
	overrideString(&cfg.CredentialsFile, "CREDENTIALS_FILE")
	overrideString(&cfg.TokenFile, "TOKEN_FILE")
	overrideString(&cfg.LogMode, "LOG_MODE")
	overrideString(&cfg.TempDir, "TEMP_DIR")
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}

	if cfg.TelegramToken == "" {
		return Config{}, errors.New("config: telegram token is required (TELEGRAM_TOKEN)")
	}

	if err := materializeCredentialFiles(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overrideString(dst *string, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}

// materializeCredentialFiles writes the credential files from
// CREDENTIALS_JSON / TOKEN_JSON when the files themselves are absent. This
// supports container platforms where only environment variables survive a
// redeploy.
func materializeCredentialFiles(cfg Config) error {
	pairs := []struct{ path, env string }{
		{cfg.CredentialsFile, "CREDENTIALS_JSON"},
		{cfg.TokenFile, "TOKEN_JSON"},
	}
	for _, p := range pairs {
		if _, err := os.Stat(p.path); err == nil {
			continue
		}
		data := strings.TrimSpace(os.Getenv(p.env))
		if data == "" {
			continue
		}
		if err := os.WriteFile(p.path, []byte(data), 0o600); err != nil {
			return fmt.Errorf("config: write %s: %w", p.path, err)
		}
	}
	return nil
}
