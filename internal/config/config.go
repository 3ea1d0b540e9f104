package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration keys as they appear in config.yaml.
const (
	KeyOMDBAPIKey        = "omdb.api_key"
	KeyFallbackKeys      = "omdb.fallback_keys"
	KeyBaseURL           = "omdb.base_url"
	KeyRequestsPerSecond = "omdb.requests_per_second"
	KeyTimeout           = "omdb.timeout"
	KeyFavoritesDB       = "favorites.dbfile"
	KeySessionCacheTTL   = "session.cache_ttl"
	KeyPosterDir         = "posters.dir"
)

// Environment variables bound to configuration keys.
var envBindings = map[string]string{
	KeyOMDBAPIKey:   "OMDB_API_KEY",
	KeyFallbackKeys: "OMDB_FALLBACK_KEYS",
	KeyBaseURL:      "OMDB_BASE_URL",
	KeyFavoritesDB:  "MARQUEE_FAVORITES_DB",
}

// SetDefaults registers default values for every key.
func SetDefaults() {
	viper.SetDefault(KeyOMDBAPIKey, "")
	viper.SetDefault(KeyFallbackKeys, []string{})
	viper.SetDefault(KeyBaseURL, "https://www.omdbapi.com")
	viper.SetDefault(KeyRequestsPerSecond, 5.0)
	viper.SetDefault(KeyTimeout, "10s")
	viper.SetDefault(KeyFavoritesDB, "./marquee.db")
	viper.SetDefault(KeySessionCacheTTL, "30m")
	viper.SetDefault(KeyPosterDir, "")
}

// BindEnv binds the supported environment variables to their keys.
func BindEnv() error {
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

// OMDBAPIKey returns the primary OMDb API key.
func OMDBAPIKey() string {
	return strings.TrimSpace(viper.GetString(KeyOMDBAPIKey))
}

// FallbackKeys returns the ordered fallback keys. A comma separated string,
// as set through the environment, is split into its parts.
func FallbackKeys() []string {
	var raw []string
	if s, ok := viper.Get(KeyFallbackKeys).(string); ok {
		raw = strings.Split(s, ",")
	} else {
		raw = viper.GetStringSlice(KeyFallbackKeys)
	}

	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// BaseURL returns the OMDb endpoint.
func BaseURL() string {
	return viper.GetString(KeyBaseURL)
}

// RequestsPerSecond returns the client-side request rate; zero disables limiting.
func RequestsPerSecond() float64 {
	return viper.GetFloat64(KeyRequestsPerSecond)
}

// Timeout returns the per-request HTTP timeout.
func Timeout() time.Duration {
	return viper.GetDuration(KeyTimeout)
}

// FavoritesDB returns the path of the favorites database.
func FavoritesDB() string {
	return viper.GetString(KeyFavoritesDB)
}

// SessionCacheTTL returns how long fetched details are reused within a session.
func SessionCacheTTL() time.Duration {
	return viper.GetDuration(KeySessionCacheTTL)
}

// PosterDir returns the directory posters are saved to; empty disables downloads.
func PosterDir() string {
	return viper.GetString(KeyPosterDir)
}
