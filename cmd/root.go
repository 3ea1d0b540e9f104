package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/marquee/internal/app"
	"github.com/lepinkainen/marquee/internal/config"
	"github.com/lepinkainen/marquee/internal/credentials"
	"github.com/lepinkainen/marquee/internal/favorites"
	"github.com/lepinkainen/marquee/internal/kvstore"
	"github.com/lepinkainen/marquee/internal/omdb"
)

var stdout io.Writer = os.Stdout

// CLI represents the complete command structure for the marquee application
type CLI struct {
	// Global flags
	Verbose bool `short:"v" help:"Enable debug logging"`

	// Overrides for config.yaml values
	APIKey            string   `name:"api-key" help:"OMDb API key (overrides omdb.api_key)"`
	FallbackKeys      []string `name:"fallback-key" help:"Fallback OMDb API key, may be repeated (overrides omdb.fallback_keys)"`
	BaseURL           string   `name:"base-url" help:"OMDb endpoint (overrides omdb.base_url)"`
	RequestsPerSecond float64  `name:"rps" help:"Maximum OMDb requests per second, 0 keeps the configured rate"`
	FavoritesDB       string   `name:"favorites-db" help:"Path to the favorites SQLite database (overrides favorites.dbfile)"`

	Search    SearchCmd    `cmd:"" help:"Search movies by title"`
	Details   DetailsCmd   `cmd:"" help:"Show the full record of one movie"`
	Favorites FavoritesCmd `cmd:"" help:"List or change favorite movies"`
	Browse    BrowseCmd    `cmd:"" help:"Browse search results interactively"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(slog.LevelInfo)
	initConfig()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var cli CLI

	// Parse command line with Kong; commands receive runCtx as their context
	ctx := kong.Parse(&cli,
		kong.Name("marquee"),
		kong.Description("Search OMDb for movies and keep a list of favorites."),
		kong.UsageOnError(),
		kong.BindTo(runCtx, (*context.Context)(nil)),
	)

	if cli.Verbose {
		initLogging(slog.LevelDebug)
	}

	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	config.SetDefaults()

	viper.AutomaticEnv()
	if err := config.BindEnv(); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
		slog.Info("Config file not found, writing default config file...")
		if err := viper.SafeWriteConfig(); err != nil {
			slog.Warn("Error writing config file", "error", err)
		}
	}
}

// updateGlobalConfig copies the flags that were given onto their config keys.
func updateGlobalConfig(cli *CLI) {
	if cli.APIKey != "" {
		viper.Set(config.KeyOMDBAPIKey, cli.APIKey)
	}
	if len(cli.FallbackKeys) > 0 {
		viper.Set(config.KeyFallbackKeys, cli.FallbackKeys)
	}
	if cli.BaseURL != "" {
		viper.Set(config.KeyBaseURL, cli.BaseURL)
	}
	if cli.RequestsPerSecond > 0 {
		viper.Set(config.KeyRequestsPerSecond, cli.RequestsPerSecond)
	}
	if cli.FavoritesDB != "" {
		viper.Set(config.KeyFavoritesDB, cli.FavoritesDB)
	}
}

func initLogging(level slog.Level) {
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}

// session bundles the App with the favorites database backing it.
type session struct {
	app   *app.App
	store *kvstore.Store
}

// openSession builds the App from the current configuration. An unusable
// favorites database leaves favorites in memory for this run.
func openSession(opts ...app.Option) *session {
	var backend favorites.Backend
	path := config.FavoritesDB()
	store, err := kvstore.Open(path)
	if err != nil {
		slog.Warn("Favorites database unavailable, keeping favorites in memory", "path", path, "error", err)
	} else {
		backend = store
	}

	client := omdb.NewClient(
		omdb.WithBaseURL(config.BaseURL()),
		omdb.WithTimeout(config.Timeout()),
		omdb.WithRequestsPerSecond(config.RequestsPerSecond()),
	)

	selector := credentials.NewSelector(config.OMDBAPIKey(), config.FallbackKeys()...)
	if selector.Len() == 0 {
		slog.Warn("No OMDb API key configured", "hint", "set OMDB_API_KEY or omdb.api_key in config.yaml")
	}
	slog.Debug("OMDb client ready", "base_url", config.BaseURL(), "keys", selector.Len())

	opts = append([]app.Option{app.WithSessionCacheTTL(config.SessionCacheTTL())}, opts...)
	a := app.New(client, selector, favorites.NewStore(backend), opts...)

	return &session{app: a, store: store}
}

func (s *session) Close() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		slog.Warn("Failed to close favorites database", "error", err)
	}
}

// userError carries the message shown to the user while keeping the
// underlying failure reachable through errors.Is/As.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

func newUserError(msg string, err error) error {
	return &userError{msg: msg, err: err}
}

func joinQuery(words []string) string {
	return strings.TrimSpace(strings.Join(words, " "))
}
