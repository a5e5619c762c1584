package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/balkashynov/wrkout/internal/api"
	"github.com/balkashynov/wrkout/internal/app"
	"github.com/balkashynov/wrkout/internal/config"
	"github.com/balkashynov/wrkout/internal/db"
	"github.com/balkashynov/wrkout/internal/logging"
	"github.com/balkashynov/wrkout/internal/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var viperCfg = config.New()

var (
	cfgFile string
	cfg     *config.Config
	logFile io.Closer

	sessionStore store.SessionStore
	storeCloser  func() error
)

const shutdownTimeout = 5 * time.Second

var rootCmd = &cobra.Command{
	Use:   "wrkout",
	Short: "A terminal workout logger",
	Long: `wrkout tracks a strength workout from the terminal: sets, reps, weights and
active time. The session survives suspends, closed terminals and crashes, and is
submitted to your workout log when you finish.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeRuntime()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wrkout %s (commit %s, built %s)\n", version, commit, date)
	},
}

// initConfig loads configuration and points the logger at the log file
func initConfig() error {
	loaded, err := config.Load(viperCfg, cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	var w io.Writer = os.Stderr
	if cfg.Log.File != "" {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		w = f
	}
	logging.InitLogger(cfg.Log.Level, cfg.Log.Format, w)
	return nil
}

// initDB opens the catalog database and the session store for the
// configured driver
func initDB() error {
	if err := db.Initialize(cfg.Storage.Path); err != nil {
		return err
	}

	switch cfg.Storage.Driver {
	case config.DriverRedis:
		kv, err := store.NewRedisKV(cfg.Storage.RedisURL)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := kv.Ping(ctx); err != nil {
			kv.Close()
			return fmt.Errorf("failed to reach redis: %w", err)
		}
		sessionStore = store.NewKVStore(kv)
		storeCloser = kv.Close
	case config.DriverMemory:
		sessionStore = store.NewKVStore(store.NewMemoryKV())
	default:
		sessionStore = store.NewKVStore(store.NewSQLiteKV(db.DB))
	}
	return nil
}

// withDB wraps a command function to initialize storage first and to print
// errors the way every command does
func withDB(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := initDB(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if err := fn(cmd, args); err != nil {
			logging.WithError(err).Debug("Command failed", "command", cmd.Name())
			fmt.Printf("Error: %v\n", err)
		}
	}
}

// newService builds the session service over the opened store
func newService(onTick func(time.Duration)) *app.Service {
	var submitter app.Submitter
	if cfg.API.BaseURL != "" {
		submitter = api.NewClient(api.Config{
			BaseURL:    cfg.API.BaseURL,
			Token:      cfg.API.Token,
			Timeout:    cfg.API.Timeout,
			MaxElapsed: cfg.API.MaxElapsed,
		}, slog.Default())
	}
	return app.NewService(app.Options{
		Store:       sessionStore,
		Submitter:   submitter,
		Clock:       clockwork.NewRealClock(),
		Logger:      slog.Default(),
		Tick:        cfg.Timer.Tick,
		RestDefault: cfg.Rest.Default,
		OnTick:      onTick,
	})
}

func closeRuntime() {
	if storeCloser != nil {
		storeCloser()
		storeCloser = nil
	}
	if db.DB != nil {
		db.Close()
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.wrkout/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("storage", "", "Session storage: sqlite, redis, memory")
	_ = viperCfg.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viperCfg.BindPFlag("storage.driver", rootCmd.PersistentFlags().Lookup("storage"))

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(unpauseCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(discardCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(gotoCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(exerciseCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(programCmd)
	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
