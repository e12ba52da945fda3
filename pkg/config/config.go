// Package config loads the tool's YAML configuration. Every field has a
// default, so a missing file means a usable configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath   string        `yaml:"db_path"`
	AudioDir string        `yaml:"audio_dir"`
	Timeout  time.Duration `yaml:"timeout"`
	DeckSize int           `yaml:"deck_size"`

	Dictionary ServiceConfig `yaml:"dictionary"`
	Synonyms   ServiceConfig `yaml:"synonyms"`
	Translate  ServiceConfig `yaml:"translate"`
	TTS        TTSConfig     `yaml:"tts"`
	Server     ServerConfig  `yaml:"server"`
}

type ServiceConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type TTSConfig struct {
	BaseURL string `yaml:"base_url"`
	Lang    string `yaml:"lang"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath:   "vocabtrack.db",
		AudioDir: "audio",
		Timeout:  5 * time.Second,
		DeckSize: 10,
		Dictionary: ServiceConfig{
			BaseURL: "https://dictionaryapi.com/api/v3/references/collegiate/json",
		},
		Synonyms: ServiceConfig{
			BaseURL: "https://api.datamuse.com",
		},
		Translate: ServiceConfig{
			BaseURL: "https://libretranslate.com",
		},
		TTS: TTSConfig{
			BaseURL: "https://translate.google.com/translate_tts",
			Lang:    "en",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must be set")
	}
	if c.Dictionary.BaseURL == "" {
		return fmt.Errorf("dictionary.base_url must be set")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.DeckSize < 0 {
		return fmt.Errorf("deck_size must not be negative")
	}
	return nil
}
