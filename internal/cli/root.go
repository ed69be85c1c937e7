// Package cli wires configuration, logging and the toast registry into the
// Bubble Tea program.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nateberkopec/toastdemo/internal/app"
	"github.com/nateberkopec/toastdemo/internal/config"
	applog "github.com/nateberkopec/toastdemo/internal/log"
	"github.com/nateberkopec/toastdemo/internal/toast"
)

const appName = "toastdemo"

// runProgram is swapped in tests so the command can be exercised without a
// terminal.
var runProgram = func(model tea.Model, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(model, opts...).Run()
	return err
}

// NewRootCommand builds the toastdemo command tree.
func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "toastdemo",
		Short:         "Interactive demo of auto-dismissing toast notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cfg, path)
		},
	}

	defaults := config.Default()
	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/toastdemo/config.yaml)")
	flags.String("log-level", defaults.LogLevel, "log level: debug, info, warn, error")
	flags.String("log-file", defaults.LogFile, "write logs to this file (logs are discarded when empty)")
	flags.Int("max-visible", defaults.MaxVisible, "maximum number of toasts on screen, 0 for no limit")
	flags.Bool("desktop", defaults.DesktopNotify, "mirror toasts as desktop notifications")
	flags.Bool("mouse", defaults.Mouse, "enable mouse support (click a toast to dismiss it)")

	root.AddCommand(newConfigCommand(&configPath))
	return root
}

func newConfigCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := config.Load(*configPath, cmd.Flags())
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return fmt.Errorf("render config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, out)
			return nil
		},
	}
}

func run(cfg config.Config, configPath string) error {
	logger, closeLog, err := applog.Open(appName, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	registry := newRegistry(cfg, logger)
	defer registry.Close()

	if cfg.DesktopNotify {
		beeep.AppName = appName
	}

	model := app.New(app.Config{
		Registry:       registry,
		Logger:         logger,
		StatusTimeout:  cfg.StatusTimeout,
		LoadingResolve: cfg.LoadingResolve,
		DesktopNotify:  cfg.DesktopNotify,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	logger.Info().
		Str("config", configPath).
		Int("max_visible", cfg.MaxVisible).
		Bool("desktop", cfg.DesktopNotify).
		Msg("starting toastdemo")
	if err := runProgram(model, opts...); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	logger.Info().Msg("toastdemo stopped")
	return nil
}

func newRegistry(cfg config.Config, logger *zerolog.Logger) *toast.Registry {
	return toast.NewRegistry(
		toast.WithLifetimes(cfg.Lifetimes.Toast()),
		toast.WithMaxVisible(cfg.MaxVisible),
		toast.WithLogger(*logger),
	)
}
