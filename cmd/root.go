package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/simple-osd/internal/config"
	"github.com/llehouerou/simple-osd/internal/daemon"
	"github.com/llehouerou/simple-osd/internal/errmsg"
	"github.com/llehouerou/simple-osd/internal/logging"
	"github.com/llehouerou/simple-osd/internal/notify"
	"github.com/llehouerou/simple-osd/internal/osd"
)

const appName = "simple-osd"

var logLevel string

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Small daemons showing system state as desktop notifications",
	Long: `simple-osd watches one piece of system state per daemon (battery, bluetooth,
screen brightness, volume, media player) and shows it as an on-screen
notification through the freedesktop notification service.

Settings live in $XDG_CONFIG_HOME/simple-osd/<daemon>.toml; common.toml is
shared by all daemons. Missing keys are written back with their defaults.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"trace, debug, info, warn or error (default $"+logging.EnvLevel+" or info)")
}

// Execute runs the command line and exits 1 on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (zerolog.Logger, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	return logging.New(os.Stderr, level), nil
}

// daemonCommand wires fn into a subcommand that runs until SIGINT or SIGTERM.
func daemonCommand(name, short string, fn daemon.Func) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd.Context(), name, func(ctx context.Context, env daemon.Env, _ notify.Service) error {
				return fn(ctx, env)
			})
		},
	}
}

func runDaemon(parent context.Context, name string, fn func(context.Context, daemon.Env, notify.Service) error) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := notify.New(appName, log)
	if err != nil {
		log.Error().Msg(errmsg.Format(errmsg.OpNotifierConnect, err))
		return err
	}
	defer func() {
		if err := svc.Shutdown(); err != nil {
			log.Debug().Err(err).Msg("notification service shutdown")
		}
	}()

	if info, err := svc.ServerInfo(ctx); err == nil {
		log.Debug().Str("server", info.Name).Str("version", info.Version).Msg("notification server")
	}

	env := daemon.Env{
		Notifier: svc,
		Common:   config.Open(osd.ConfigName, log),
		Log:      log,
	}
	return daemon.Run(ctx, name, env, func(ctx context.Context, env daemon.Env) error {
		return fn(ctx, env, svc)
	})
}
