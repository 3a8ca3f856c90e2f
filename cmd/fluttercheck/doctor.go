package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flutterkit/fluttercheck/pkg/doctor"
	"github.com/flutterkit/fluttercheck/pkg/logger"
	"github.com/flutterkit/fluttercheck/pkg/presenter"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report on the local Flutter development environment",
	Long: `Doctor checks which of the toolchains the skill documents shell out to
are installed, and lists running Gradle and Dart daemons.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d := doctor.NewDoctor()

		presenter.Section("Toolchains")
		missing := 0
		for _, status := range d.CheckTools(ctx) {
			switch {
			case status.Err != nil && !status.Installed():
				missing++
				presenter.Warning(fmt.Sprintf("%-10s not installed", status.Name))
			case status.Err != nil:
				presenter.Warning(fmt.Sprintf("%-10s %s (version probe failed)", status.Name, status.Path))
			default:
				presenter.Success(fmt.Sprintf("%-10s %s", status.Name, status.Version))
			}
		}

		daemons, err := d.Daemons(ctx)
		if err != nil {
			logger.G(ctx).WithError(err).Warn("failed to inspect processes")
		} else if len(daemons) > 0 {
			presenter.Section("Running daemons")
			for _, daemon := range daemons {
				fmt.Printf("  %-8s pid %-8d %s\n", daemon.Kind, daemon.PID, daemon.Cmdline)
			}
		}

		if missing > 0 {
			presenter.Info(fmt.Sprintf("%d toolchains missing; related skill commands will fail to dispatch", missing))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
