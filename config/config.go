// Package config loads orderdesk settings from a YAML file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoCredentials is returned when no usable service account key is found.
var ErrNoCredentials = errors.New("no service account credentials found")

type Config struct {
	Spreadsheet Spreadsheet `yaml:"spreadsheet"`
	Template    Template    `yaml:"template"`
	Forms       Forms       `yaml:"forms"`
	OutputDir   string      `yaml:"output_dir"`
	WorkDir     string      `yaml:"work_dir"`
	Credentials Credentials `yaml:"credentials"`
	Web         Web         `yaml:"web"`
}

// Spreadsheet selects the order spreadsheet. Workbook, when set, points at a
// local .xlsx file and takes precedence over the Google spreadsheet.
type Spreadsheet struct {
	Name        string `yaml:"name"`
	ID          string `yaml:"id"`
	MasterSheet string `yaml:"master_sheet"`
	Workbook    string `yaml:"workbook"`
}

// Template selects the order form template. Path, when set, points at a local
// text template and takes precedence over the Google Docs template.
type Template struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

type Forms struct {
	MaxOrders int `yaml:"max_orders"`
}

type Credentials struct {
	Env  string `yaml:"env"`
	File string `yaml:"file"`
}

type Web struct {
	Addr        string        `yaml:"addr"`
	PasswordEnv string        `yaml:"password_env"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Spreadsheet: Spreadsheet{
			Name:        "MASTER SPRING 2026",
			MasterSheet: "MASTER",
		},
		Template: Template{
			Name: "Order Template for PDF",
		},
		Forms:     Forms{MaxOrders: 50},
		OutputDir: ".",
		Credentials: Credentials{
			Env:  "GOOGLE_CREDENTIALS",
			File: "service_account.json",
		},
		Web: Web{
			Addr:        ":8080",
			PasswordEnv: "ORDERDESK_PASSWORD",
			SessionTTL:  12 * time.Hour,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Spreadsheet.MasterSheet == "" {
		return errors.New("spreadsheet.master_sheet must not be empty")
	}
	if c.Spreadsheet.Workbook == "" && c.Spreadsheet.ID == "" && c.Spreadsheet.Name == "" {
		return errors.New("one of spreadsheet.workbook, spreadsheet.id or spreadsheet.name is required")
	}
	if c.Forms.MaxOrders < 0 {
		return fmt.Errorf("forms.max_orders must be >= 0, got %d", c.Forms.MaxOrders)
	}
	return nil
}

// Password returns the web password from the configured environment variable.
func (w Web) Password() string {
	if w.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(w.PasswordEnv)
}

// Load returns the service account key, checking the environment variable
// before the file. source describes where the key came from.
func (c Credentials) Load() (key []byte, source string, err error) {
	if c.Env != "" {
		if v := os.Getenv(c.Env); v != "" {
			key, source = []byte(v), "$"+c.Env
		}
	}
	if key == nil && c.File != "" {
		data, err := os.ReadFile(c.File)
		switch {
		case err == nil:
			key, source = data, c.File
		case !errors.Is(err, os.ErrNotExist):
			return nil, "", fmt.Errorf("read credentials: %w", err)
		}
	}
	if key == nil {
		return nil, "", fmt.Errorf("%w: set $%s or provide %s", ErrNoCredentials, c.Env, c.File)
	}
	if err := checkKey(key); err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ErrNoCredentials, source, err)
	}
	return key, source, nil
}

func checkKey(key []byte) error {
	var k struct {
		Type        string `json:"type"`
		ClientEmail string `json:"client_email"`
		PrivateKey  string `json:"private_key"`
	}
	if err := json.Unmarshal(key, &k); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if k.Type != "service_account" {
		return fmt.Errorf("type is %q, want \"service_account\"", k.Type)
	}
	if k.ClientEmail == "" || k.PrivateKey == "" {
		return errors.New("client_email and private_key are required")
	}
	return nil
}
