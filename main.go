package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"growthbot/internal/config"
	"growthbot/internal/db"
	"growthbot/internal/identity"
	"growthbot/internal/langgraph"
	"growthbot/internal/logging"
	"growthbot/internal/models"
	"growthbot/internal/styles"
	"growthbot/internal/threads"
	"growthbot/internal/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	apiURL     string
	debug      bool

	// Root flags
	threadID  string
	sidebar   bool
	hideTools bool

	cfg    config.Config
	conn   *sql.DB
	logger *zap.Logger
	ident  *identity.Store
	fresh  bool
)

var rootCmd = &cobra.Command{
	Use:   "growthbot",
	Short: "GrowthBot - terminal chat client for the GrowthBot assistant",
	Long: `GrowthBot talks to a LangGraph deployment of the growthbot assistant.

Conversations are stored as threads on the service and scoped to a locally
generated user id. Run without arguments to start the interactive chat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			configPath = p
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("api-url") {
			cfg.APIURL = apiURL
		}
		if cmd.Flags().Changed("hide-tools") {
			cfg.HideToolCalls = hideTools
		}
		if debug {
			cfg.Debug = true
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cmd.Name() == initCmd.Name() {
			return nil
		}

		conn, err = db.Open(cfg.DataDirectory)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.DataDirectory, cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ident = identity.New(conn)
		var id string
		id, fresh, err = ident.Load()
		if err != nil {
			return err
		}
		logger.Info("startup",
			zap.String("command", cmd.Name()),
			zap.String("api_url", cfg.APIURL),
			zap.String("user_id", id),
			zap.Bool("fresh_identity", fresh))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		if conn != nil {
			_ = conn.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List your conversations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		notify := func(n models.Notice) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", n.Title, n.Detail)
		}
		reg := threads.New(newClient(), cfg.GraphID, cfg.SearchLimit, logger, notify)
		current, _, err := db.GetSetting(conn, db.KeyThreadID)
		if err != nil {
			return err
		}
		for _, th := range reg.ListThreads(cmd.Context(), ident.UserID()) {
			marker := " "
			if th.ID == current {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n", marker, th.ID, threads.Label(th))
		}
		return nil
	},
}

var resetIdentityCmd = &cobra.Command{
	Use:   "reset-identity",
	Short: "Generate a new user id; existing conversations are no longer listed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ident.Reset()
		if err != nil {
			return err
		}
		if err := db.DeleteSetting(conn, db.KeyThreadID); err != nil {
			return err
		}
		logger.Info("identity reset", zap.String("user_id", id))
		fmt.Fprintf(cmd.OutOrStdout(), "new user id: %s\n", id)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config %s already exists", configPath)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := config.Save(configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <user config dir>/growthbot/config.toml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "LangGraph API URL (or set GROWTHBOT_API_URL env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.Flags().StringVar(&threadID, "thread", "", "Open this thread instead of the last one")
	rootCmd.Flags().BoolVar(&sidebar, "sidebar", false, "Open the history sidebar")
	rootCmd.Flags().BoolVar(&hideTools, "hide-tools", false, "Hide tool calls and results")

	rootCmd.AddCommand(threadsCmd)
	rootCmd.AddCommand(resetIdentityCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() *langgraph.Client {
	return langgraph.NewClient(cfg.APIURL,
		langgraph.WithAPIKey(cfg.APIKey),
		langgraph.WithLogger(logger))
}

func runChat(cmd *cobra.Command) error {
	theme := cfg.Theme
	if saved, ok, err := db.GetSetting(conn, db.KeyTheme); err == nil && ok {
		theme = saved
	}
	styles.InitTheme(theme)

	active := threadID
	if active == "" {
		saved, _, err := db.GetSetting(conn, db.KeyThreadID)
		if err != nil {
			return err
		}
		active = saved
	}

	open := sidebar
	if !cmd.Flags().Changed("sidebar") {
		v, err := db.GetBool(conn, db.KeySidebarOpen, false)
		if err != nil {
			return err
		}
		open = v
	}

	client := newClient()
	p, _ := ui.NewProgram(ui.Options{
		Config:      cfg,
		DB:          conn,
		Identity:    ident,
		Backend:     client,
		Threads:     client,
		Logger:      logger,
		ThreadID:    active,
		SidebarOpen: open,
		FreshUser:   fresh,
	})

	if _, err := p.Run(); err != nil {
		logger.Error("program exited", zap.Error(err))
		return err
	}
	return nil
}
