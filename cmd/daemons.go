package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/simple-osd/internal/backlight"
	"github.com/llehouerou/simple-osd/internal/battery"
	"github.com/llehouerou/simple-osd/internal/bluetooth"
	"github.com/llehouerou/simple-osd/internal/daemon"
	"github.com/llehouerou/simple-osd/internal/demo"
	"github.com/llehouerou/simple-osd/internal/media"
	"github.com/llehouerou/simple-osd/internal/notify"
	"github.com/llehouerou/simple-osd/internal/volume"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Show three sample notifications and describe the notification server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDaemon(cmd.Context(), "demo", func(ctx context.Context, env daemon.Env, svc notify.Service) error {
			if err := demo.PrintServer(ctx, os.Stdout, svc); err != nil {
				env.Log.Warn().Err(err).Msg("could not describe the notification server")
			}
			return demo.Run(ctx, env)
		})
	},
}

func init() {
	rootCmd.AddCommand(
		daemonCommand("battery", "Warn about low battery and announce charging", battery.Run),
		daemonCommand("bluetooth", "Announce the connected bluetooth device", bluetooth.Run),
		daemonCommand("brightness", "Show the screen brightness when it changes", backlight.Run),
		daemonCommand("volume", "Show the volume of the default sink when it changes", volume.Run),
		daemonCommand("media", "Show the playing track when it changes", media.Run),
		demoCmd,
	)
}
