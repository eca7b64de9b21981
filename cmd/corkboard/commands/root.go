package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dyluth/corkboard/internal/config"
	"github.com/dyluth/corkboard/internal/logging"
	"github.com/dyluth/corkboard/internal/printer"
	"github.com/dyluth/corkboard/pkg/board"
	"github.com/dyluth/corkboard/pkg/kv"

	// Registered kv backends
	_ "github.com/dyluth/corkboard/pkg/kv/logging"
	_ "github.com/dyluth/corkboard/pkg/kv/mem"
	_ "github.com/dyluth/corkboard/pkg/kv/rediskv"
	_ "github.com/dyluth/corkboard/pkg/kv/sqlitekv"
)

var (
	configPath  string
	storeName   string
	redisURL    string
	sqlitePath  string
	namespace   string
	logLevel    string
	logFormat   string
	logStoreOps bool
)

// annotationNoStore marks commands that run without opening the store.
const annotationNoStore = "corkboard/no-store"

// Set up by PersistentPreRunE for every command that touches the store.
var (
	cfg     *config.Config
	backend kv.Store
	store   *board.Store
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "corkboard",
	Short: "Corkboard - a minimal bulletin board on a key-value store",
	Long: `Corkboard keeps named boards and the comments posted to them in Redis
(or SQLite, or memory).

Boards are created by name; creating a board that already exists returns its
id. Board and comment ids are short base-36 tokens handed out in sequence.`,
	// Prevent silent success when unknown flags are passed to root command
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE:  openStore,
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	defer closeStore()
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Config file (default: ./corkboard.yml if present)")
	pf.StringVar(&storeName, "store", "", "Store backend: redis, sqlite or mem")
	pf.StringVar(&redisURL, "redis-url", "", "Redis URL (redis store)")
	pf.StringVar(&sqlitePath, "sqlite-path", "", "Database file (sqlite store)")
	pf.StringVar(&namespace, "namespace", "", "Prefix for every key")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&logFormat, "log-format", "", "Log format: text or json")
	pf.BoolVar(&logStoreOps, "log-store-ops", false, "Log every store operation at debug level")
}

// openStore loads configuration, sets up logging and connects to the
// configured backend. Flags take precedence over the environment and the
// config file.
func openStore(cmd *cobra.Command, args []string) error {
	printer.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

	if cmd == rootCmd || cmd.Name() == "help" || cmd.Annotations[annotationNoStore] != "" {
		return nil
	}

	if err := config.LoadDotEnv(); err != nil {
		return printer.Error("failed to load .env", err.Error(), nil)
	}

	c, err := config.Load(configPath)
	if err != nil {
		return printer.Error(
			"invalid configuration",
			err.Error(),
			[]string{"Check corkboard.yml and the CORKBOARD_* environment variables."},
		)
	}
	applyFlags(cmd, c)
	if err := c.Validate(); err != nil {
		return printer.Error("invalid configuration", err.Error(), nil)
	}
	cfg = c

	if _, err := logging.Setup(cmd.ErrOrStderr(), c.Log.Level, c.Log.Format); err != nil {
		return printer.Error("invalid configuration", err.Error(), nil)
	}

	name, params := c.Backend()
	slog.Debug("opening store", "backend", name, "namespace", c.Namespace)

	b, err := kv.Open(commandContext(cmd), name, params)
	if err != nil {
		return printer.ErrorWithContext(
			"failed to open store",
			err.Error(),
			map[string]string{"Store": c.Store},
			nil,
		)
	}
	backend = b
	store = board.NewStore(b, board.WithNamespace(c.Namespace))
	return nil
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	changed := cmd.Flags().Changed
	if changed("store") {
		c.Store = storeName
	}
	if changed("redis-url") {
		c.Redis.URL = redisURL
	}
	if changed("sqlite-path") {
		c.SQLite.Path = sqlitePath
	}
	if changed("namespace") {
		c.Namespace = namespace
	}
	if changed("log-level") {
		c.Log.Level = logLevel
	}
	if changed("log-format") {
		c.Log.Format = logFormat
	}
	if changed("log-store-ops") {
		c.Log.Operations = logStoreOps
	}
}

func closeStore() {
	if backend == nil {
		return
	}
	if err := backend.Close(); err != nil {
		slog.Warn("closing store", "error", err)
	}
	backend, store = nil, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
