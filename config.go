package stringql

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment variables read by LoadConfig, e.g.
// STRINGQL_HOST or STRINGQL_PASSWORD.
const envPrefix = "STRINGQL_"

// Config holds the connection settings for an Engine.
//
// ConnString, when set, is passed to the driver as-is and the individual
// fields are ignored. Otherwise a libpq key/value string is assembled from
// the fields, quoting values as needed. Zero-valued fields are omitted so
// the driver's own defaults (and PG* environment variables) still apply.
type Config struct {
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	User       string `koanf:"user"`
	Password   string `koanf:"password"`
	DBName     string `koanf:"dbname"`
	SSLMode    string `koanf:"sslmode"`
	ConnString string `koanf:"connstring"`

	// Schema, when set, becomes the connection's search_path and is created
	// on connect if absent. ConnectSchema overrides it per call.
	Schema string `koanf:"schema"`

	// Pool settings; zero leaves the database/sql default in place.
	MaxConns        int           `koanf:"maxconns"`
	MaxIdleConns    int           `koanf:"maxidleconns"`
	ConnMaxLifetime time.Duration `koanf:"connmaxlifetime"`
	ConnMaxIdleTime time.Duration `koanf:"connmaxidletime"`
}

// DSN renders the configuration as a libpq connection string.
func (c *Config) DSN() string {
	if c.ConnString != "" {
		return c.ConnString
	}
	parts := make([]string, 0, 6)
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+quoteDSN(value))
		}
	}
	add("host", c.Host)
	if c.Port > 0 {
		parts = append(parts, "port="+strconv.Itoa(c.Port))
	}
	add("user", c.User)
	add("password", c.Password)
	add("dbname", c.DBName)
	add("sslmode", c.SSLMode)
	return strings.Join(parts, " ")
}

// quoteDSN quotes a libpq connection string value. Empty values become ''
// and values with characters outside letters, digits and a few safe
// punctuation marks are single-quoted with backslash and quote escaped.
func quoteDSN(value string) string {
	if value == "" {
		return "''"
	}
	plain := true
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-' {
			continue
		}
		plain = false
		break
	}
	if plain {
		return value
	}
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}

// LoadConfig reads configuration in three layers, each overriding the last:
// built-in defaults, an optional YAML file and STRINGQL_* environment
// variables (e.g. STRINGQL_DBNAME maps to dbname). Pass an empty path to
// skip the file layer.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")
	defaults := map[string]any{
		"host":    "localhost",
		"port":    5432,
		"sslmode": "prefer",
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
