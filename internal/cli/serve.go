package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quentinrf/spectrum-reader/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		port     string
		simulate time.Duration
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the spectrum gRPC service over the data dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("simulate") {
				cfg.Simulate = simulate
			}
			if strict {
				cfg.StrictSensor = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (default from PORT or 50051)")
	cmd.Flags().DurationVar(&simulate, "simulate", 0, "Write a synthetic session into the data dir at this interval")
	cmd.Flags().BoolVar(&strict, "strict", false, "Require the Sensor group when listing detectors")

	return cmd
}
