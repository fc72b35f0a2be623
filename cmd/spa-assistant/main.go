package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/somOone/spa-assistant/internal/api"
	"github.com/somOone/spa-assistant/internal/genai"
	"github.com/somOone/spa-assistant/internal/lockfile"
	"github.com/somOone/spa-assistant/internal/messaging"
	"github.com/somOone/spa-assistant/internal/spaapi"
	"github.com/somOone/spa-assistant/internal/store"
	"github.com/somOone/spa-assistant/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for spa assistant state data
	DefaultStateDir = "/var/lib/spa-assistant"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "spa-assistant.db"
)

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// File-based storage gets single-instance protection on its directory
	if store.DetectDSNType(*flags.dbDSN) != "postgres" {
		lock, err := lockfile.AcquireLock(filepath.Dir(*flags.dbDSN))
		if err != nil {
			slog.Error("Failed to lock state directory", "error", err)
			os.Exit(1)
		}
		defer lock.Release()
	}

	// Build module options
	storeOpts := buildStoreOptions(flags)
	genaiOpts := buildGenAIOptions(flags)
	spaOpts := buildSpaAPIOptions(flags)
	msgOpts := buildMessagingOptions(flags)
	apiOpts := buildAPIOptions(flags)

	// Start the service
	slog.Info("Bootstrapping spa assistant with configured modules")
	slog.Debug("Module options counts", "store", len(storeOpts), "genai", len(genaiOpts), "spaapi", len(spaOpts), "messaging", len(msgOpts), "api", len(apiOpts))
	slog.Debug("Final configuration", "dsn_set", *flags.dbDSN != "", "api_addr", *flags.apiAddr, "spa_api_url", *flags.spaAPIURL)
	if err := api.Run(storeOpts, genaiOpts, spaOpts, msgOpts, apiOpts); err != nil {
		slog.Error("spa assistant failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("spa assistant exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL string
	StateDir    string
	OpenAIKey   string
	APIAddr     string
	SpaAPIURL   string
	SMSEnabled  bool
}

// Flags holds command line flag values
type Flags struct {
	dbDSN      *string
	openaiKey  *string
	apiAddr    *string
	spaAPIURL  *string
	smsEnabled *bool
}

// initializeLogger sets up structured logging
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("SPA_ASSISTANT_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StateDir:    os.Getenv("SPA_ASSISTANT_STATE_DIR"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		APIAddr:     os.Getenv("API_ADDR"),
		SpaAPIURL:   os.Getenv("SPA_API_URL"),
		SMSEnabled:  util.ParseBoolEnv("SMS_NOTIFICATIONS_ENABLED", true),
	}

	// Set default state directory if not specified
	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No SPA_ASSISTANT_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}

	// If no database URL is provided, default to SQLite in the state directory
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"SPA_ASSISTANT_STATE_DIR", config.StateDir,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"API_ADDR", config.APIAddr,
		"SPA_API_URL", config.SpaAPIURL,
		"SMS_NOTIFICATIONS_ENABLED", config.SMSEnabled)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		dbDSN:      flag.String("db-dsn", config.DatabaseURL, "database DSN for the transcript store (overrides $DATABASE_URL)"),
		openaiKey:  flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key for the LLM fallback classifier (overrides $OPENAI_API_KEY)"),
		apiAddr:    flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		spaAPIURL:  flag.String("spa-api-url", config.SpaAPIURL, "base URL of the spa backend API (overrides $SPA_API_URL)"),
		smsEnabled: flag.Bool("sms-notifications", config.SMSEnabled, "send SMS notifications after appointment changes (overrides $SMS_NOTIFICATIONS_ENABLED)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"dbDSN_set", *flags.dbDSN != "",
		"openaiKeySet", *flags.openaiKey != "",
		"apiAddr", *flags.apiAddr,
		"spaAPIURL", *flags.spaAPIURL,
		"smsEnabled", *flags.smsEnabled)

	return flags
}

// buildStoreOptions constructs store configuration options
func buildStoreOptions(flags Flags) []store.Option {
	var storeOpts []store.Option
	if *flags.dbDSN != "" {
		if store.DetectDSNType(*flags.dbDSN) == "postgres" {
			slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store", "dsn_type", "postgresql", "dsn_set", true)
			storeOpts = append(storeOpts, store.WithPostgresDSN(*flags.dbDSN))
		} else {
			slog.Debug("Detected SQLite DSN, configuring SQLite store", "dsn_type", "sqlite", "db_path", *flags.dbDSN)
			storeOpts = append(storeOpts, store.WithSQLiteDSN(*flags.dbDSN))
		}
	} else {
		slog.Debug("No database DSN provided, will use in-memory store")
	}
	return storeOpts
}

// buildGenAIOptions constructs GenAI configuration options
func buildGenAIOptions(flags Flags) []genai.Option {
	var genaiOpts []genai.Option
	if *flags.openaiKey != "" {
		genaiOpts = append(genaiOpts, genai.WithAPIKey(*flags.openaiKey))
	}
	return genaiOpts
}

// buildSpaAPIOptions constructs spa backend client options
func buildSpaAPIOptions(flags Flags) []spaapi.Option {
	var spaOpts []spaapi.Option
	if *flags.spaAPIURL != "" {
		spaOpts = append(spaOpts, spaapi.WithBaseURL(*flags.spaAPIURL))
	}
	return spaOpts
}

// buildMessagingOptions constructs SMS notification options. Returning no
// options leaves Twilio to its environment fallbacks; credentials missing
// there means notifications fall back to the no-op service.
func buildMessagingOptions(flags Flags) []messaging.Option {
	if !*flags.smsEnabled {
		return []messaging.Option{messaging.WithDisabled()}
	}
	return nil
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	return apiOpts
}
