package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the location service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port of the HTTP API, also serving health checks and metrics.
// - SuggestProvider: The autocomplete provider (google, nominatim, photon).
// - GeocodeProvider: The reverse geocoding provider (google, nominatim, visicom).
// - APIKey: The API key for providers that need one.
// - RateLimit: Provider requests per second.
// - Country: Country the suggestions are restricted to.
// - Debounce: Quiet period after a keystroke before suggestions are fetched.
// - RequestTimeout: Timeout of a single provider call.
// - SessionTTL: Idle time after which a form session expires.
// - CacheEnabled: Whether reverse geocoding results are cached in PostgreSQL.
// - CORSOrigins: Origins allowed to call the API.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env             string         // Env is the current environment: local, development, production.
	Port            int            // Port is the HTTP API port.
	SuggestProvider string         // SuggestProvider specifies which autocomplete provider to use.
	GeocodeProvider string         // GeocodeProvider specifies which reverse geocoding provider to use.
	APIKey          string         // The API key for accessing external services.
	RateLimit       int            // Provider requests per second.
	Country         string         // Country code the suggestions are restricted to.
	CORSOrigins     []string       // Origins allowed to call the API, all when empty.
	Debounce        time.Duration  // Keystroke debounce window.
	RequestTimeout  time.Duration  // Timeout of a single provider call.
	SessionTTL      time.Duration  // Idle lifetime of a form session.
	CacheEnabled    bool           // Whether reverse geocoding results are cached in postgres.
	Database        PostgresConfig // Database holds the postgres database configuration
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

const envPrefix = "LOCATOR"

// MustLoad loads the configuration from the environment and an optional .env file
// in the working directory. It panics on malformed values.
func MustLoad() *Config {
	return MustLoadFile(".env")
}

// MustLoadFile loads the configuration from the environment and the given env file.
// Variables already set in the environment take precedence over the file. A missing
// file is ignored.
func MustLoadFile(path string) *Config {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	for _, key := range []string{"host", "port", "username", "password", "name"} {
		_ = v.BindEnv("db_"+key, "DB_"+strings.ToUpper(key))
	}

	fileValues, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("failed to read env file " + path)
	}
	if err = v.MergeConfigMap(configMap(fileValues)); err != nil {
		panic("failed to merge env file " + path)
	}

	return &Config{
		Env:             v.GetString("env"),
		Port:            mustInt(v, "port", "failed to parse port for API server from configuration"),
		SuggestProvider: v.GetString("suggest_provider"),
		GeocodeProvider: v.GetString("geocode_provider"),
		APIKey:          v.GetString("provider_key"),
		RateLimit: mustInt(v, "rate_limit",
			"failed to parse rate limit from configuration, must be an integer types"),
		Country:        strings.ToLower(v.GetString("country")),
		CORSOrigins:    splitList(v.GetString("cors_origins")),
		Debounce:       mustDuration(v, "debounce", "failed to parse debounce from configuration"),
		RequestTimeout: mustDuration(v, "request_timeout", "failed to parse request timeout from configuration"),
		SessionTTL:     mustDuration(v, "session_ttl", "failed to parse session ttl from configuration"),
		CacheEnabled:   mustBool(v, "cache_enabled", "failed to parse cache flag from configuration"),
		Database: PostgresConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetString("db_port"),
			User:     v.GetString("db_username"),
			Password: v.GetString("db_password"),
			Name:     v.GetString("db_name"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("port", "8080")
	v.SetDefault("suggest_provider", "photon")
	v.SetDefault("geocode_provider", "nominatim")
	v.SetDefault("provider_key", "")
	v.SetDefault("rate_limit", "1")
	v.SetDefault("country", "in")
	v.SetDefault("cors_origins", "")
	v.SetDefault("debounce", "300ms")
	v.SetDefault("request_timeout", "8s")
	v.SetDefault("session_ttl", "30m")
	v.SetDefault("cache_enabled", "false")
	v.SetDefault("db_port", "5432")
}

// configMap turns env file entries into viper keys: LOCATOR_SESSION_TTL becomes
// session_ttl and DB_HOST becomes db_host. Other entries are ignored.
func configMap(values map[string]string) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		switch {
		case strings.HasPrefix(key, envPrefix+"_"):
			out[strings.ToLower(strings.TrimPrefix(key, envPrefix+"_"))] = value
		case strings.HasPrefix(key, "DB_"):
			out[strings.ToLower(key)] = value
		}
	}
	return out
}

func mustInt(v *viper.Viper, key, msg string) int {
	value, err := strconv.Atoi(v.GetString(key))
	if err != nil {
		panic(msg)
	}
	return value
}

func mustDuration(v *viper.Viper, key, msg string) time.Duration {
	value, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		panic(msg)
	}
	return value
}

func mustBool(v *viper.Viper, key, msg string) bool {
	value, err := strconv.ParseBool(v.GetString(key))
	if err != nil {
		panic(msg)
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
