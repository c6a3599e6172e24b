package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL      = "http://localhost:2024"
	DefaultAssistantID = "growthbot"
	DefaultGraphID     = "growthbot"
	DefaultSearchLimit = 100

	AppName = "growthbot"
)

type Config struct {
	APIURL        string `toml:"api_url"`
	APIKey        string `toml:"api_key,omitempty"`
	AssistantID   string `toml:"assistant_id"`
	GraphID       string `toml:"graph_id"`
	SearchLimit   int    `toml:"search_limit"`
	HideToolCalls bool   `toml:"hide_tool_calls"`
	Theme         string `toml:"theme"` // auto, dark or light
	DataDirectory string `toml:"data_directory,omitempty"`
	Debug         bool   `toml:"debug"`
}

func Default() Config {
	return Config{
		APIURL:      DefaultAPIURL,
		AssistantID: DefaultAssistantID,
		GraphID:     DefaultGraphID,
		SearchLimit: DefaultSearchLimit,
		Theme:       "auto",
	}
}

// DefaultDir is the per-user directory holding the config file, the
// database and the log.
func DefaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return "", err
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, AppName), nil
}

func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the TOML file at path on top of the defaults. A missing file is
// not an error. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if cfg.DataDirectory == "" && path != "" {
		cfg.DataDirectory = filepath.Dir(path)
	}
	cfg.DataDirectory = ExpandPath(cfg.DataDirectory)
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if u := os.Getenv("GROWTHBOT_API_URL"); u != "" {
		c.APIURL = u
	}
	if key := os.Getenv("GROWTHBOT_API_KEY"); key != "" {
		c.APIKey = key
	} else if key := os.Getenv("LANGSMITH_API_KEY"); key != "" && c.APIKey == "" {
		c.APIKey = key
	}
	if id := os.Getenv("GROWTHBOT_ASSISTANT_ID"); id != "" {
		c.AssistantID = id
	}
	if dir := os.Getenv("GROWTHBOT_DATA_DIR"); dir != "" {
		c.DataDirectory = dir
	}
	if d := os.Getenv("GROWTHBOT_DEBUG"); d == "1" || d == "true" {
		c.Debug = true
	}
}

func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q", c.APIURL)
	}
	if c.AssistantID == "" {
		return errors.New("assistant_id must not be empty")
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("search_limit must be positive, got %d", c.SearchLimit)
	}
	switch c.Theme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	return nil
}

// Save writes the config as TOML, creating the parent directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
