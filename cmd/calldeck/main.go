// ABOUTME: CLI entrypoint for calldeck: runs the terminal dashboard by default, plus serve-demo, export, and version.
// ABOUTME: Loads .env files and layered viper config once, then builds the logger every subcommand shares.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/2389-research/calldeck/config"
	"github.com/2389-research/calldeck/logger"
	"github.com/2389-research/calldeck/metricsapi"
	"github.com/2389-research/calldeck/tui"
)

var version = "dev"

// cli carries the state shared by every subcommand.
type cli struct {
	v          *viper.Viper
	dirs       config.Dirs
	dirsErr    error
	configFile string
	cfg        config.Config
	log        *logger.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree writing to out and errOut.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	// Without a home directory the config file and default log are skipped.
	dirs, dirsErr := config.DefaultDirs()
	c := &cli{v: config.New(dirs), dirs: dirs, dirsErr: dirsErr}

	root := &cobra.Command{
		Use:               "calldeck",
		Short:             "Terminal dashboard for negotiation call metrics",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) { c.close() },
		RunE:              c.runDashboard,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == root {
			printHelp(cmd.OutOrStdout(), version)
			return
		}
		defaultHelp(cmd, args)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/calldeck/config.yaml)")
	pf.String("base-url", metricsapi.DefaultBaseURL, "metrics API base URL")
	pf.String("api-key", metricsapi.DefaultAPIKey, "x-api-key sent with every request")
	pf.Int("limit", 20, "recent calls to fetch (10, 20, 50, 100)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-file", "", "log file path (default $XDG_STATE_HOME/calldeck/calldeck.log)")
	_ = c.v.BindPFlag("base_url", pf.Lookup("base-url"))
	_ = c.v.BindPFlag("api_key", pf.Lookup("api-key"))
	_ = c.v.BindPFlag("limit", pf.Lookup("limit"))
	_ = c.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = c.v.BindPFlag("log.file", pf.Lookup("log-file"))

	root.AddCommand(c.newServeDemoCmd(), c.newExportCmd(), newVersionCmd())
	return root
}

// setup loads .env files, the config file, and the logger.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.LoadDotEnvAuto()
	if err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}

	file, err := config.ReadFile(c.v, c.configFile, c.dirs.Config)
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	c.cfg = cfg

	log, err := logger.New(logger.Options{
		Level: cfg.Log.Level,
		Env:   cfg.Log.Env,
		File:  cfg.Log.File,
	})
	if err != nil {
		return err
	}
	c.log = log

	entry := c.log.WithField("command", cmd.Name())
	if file != "" {
		entry = entry.WithField("config", file)
	}
	if c.dirsErr != nil {
		entry.WithError(c.dirsErr).Warn("user directories unavailable")
	}
	entry.WithField("dotenv", loaded).Debug("configuration loaded")
	return nil
}

func (c *cli) close() {
	if c.log != nil {
		_ = c.log.Close()
	}
}

func (c *cli) client() *metricsapi.Client {
	return metricsapi.NewClient(
		metricsapi.WithBaseURL(c.cfg.BaseURL),
		metricsapi.WithLogger(c.log),
	)
}

// runDashboard runs the Bubble Tea dashboard until the user quits.
func (c *cli) runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	model := tui.NewAppModel(ctx, c.client(), tui.AppConfig{
		BaseURL: c.cfg.BaseURL,
		APIKey:  c.cfg.APIKey,
		Limit:   c.cfg.Limit,
		Logger:  c.log,
	})

	c.log.WithField("base_url", c.cfg.BaseURL).Info("starting dashboard")
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "calldeck %s\n", version)
		},
	}
}
