package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name looked up in the
// current and home directories.
const DefaultConfigFile = ".newsbrief"

// xdgConfigFile is the file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the YAML configuration file.
// Zero values mean "not set" and leave the current value untouched.
type File struct {
	Query           string        `yaml:"query,omitempty"`
	Articles        int           `yaml:"articles,omitempty"`
	SearchURL       string        `yaml:"searchURL,omitempty"`
	Model           string        `yaml:"model,omitempty"`
	BaseURL         string        `yaml:"baseURL,omitempty"`
	ArticleTimeout  time.Duration `yaml:"articleTimeout,omitempty"`
	MaxArticleChars int           `yaml:"maxArticleChars,omitempty"`
	MaxBodySize     int64         `yaml:"maxBodySize,omitempty"`
	Parallelism     int           `yaml:"parallelism,omitempty"`
	Extractor       string        `yaml:"extractor,omitempty"`
	UserAgent       string        `yaml:"userAgent,omitempty"`
	Format          string        `yaml:"format,omitempty"`
}

// LoadConfigFile loads a configuration file from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies every value set in the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	if cf.Query != "" {
		cfg.Query = cf.Query
	}
	if cf.Articles != 0 {
		cfg.ArticleCount = cf.Articles
	}
	if cf.SearchURL != "" {
		cfg.SearchURL = cf.SearchURL
	}
	if cf.Model != "" {
		cfg.Model = cf.Model
	}
	if cf.BaseURL != "" {
		cfg.BaseURL = cf.BaseURL
	}
	if cf.ArticleTimeout != 0 {
		cfg.ArticleTimeout = cf.ArticleTimeout
	}
	if cf.MaxArticleChars != 0 {
		cfg.MaxArticleChars = cf.MaxArticleChars
	}
	if cf.MaxBodySize != 0 {
		cfg.MaxBodySize = cf.MaxBodySize
	}
	if cf.Parallelism != 0 {
		cfg.Parallelism = cf.Parallelism
	}
	if cf.Extractor != "" {
		cfg.Extractor = cf.Extractor
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if cf.Format != "" {
		cfg.Format = cf.Format
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .newsbrief in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .newsbrief in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error. Variables already present in the
// environment are not overwritten.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}
