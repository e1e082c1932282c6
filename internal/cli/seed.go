package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quentinrf/spectrum-reader/internal/adapters/mock"
	"github.com/quentinrf/spectrum-reader/internal/adapters/sqlite"
	"github.com/quentinrf/spectrum-reader/internal/domain"
	"github.com/quentinrf/spectrum-reader/internal/ports"
)

func newSeedCommand(a *app) *cobra.Command {
	var (
		sessions int
		samples  int
		interval time.Duration
		channels int
		start    string
		seed     int64
		format   string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write synthetic acquisition files into the data dir",
		Long: `Write back-to-back synthetic acquisition sessions into the data dir.
Every session holds the Sensor group plus two CsI and two NaI detectors.`,
		Example: `  spectrumctl seed --data-dir ./data --sessions 3 --start 01092018`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessions < 1 || samples < 1 || channels < 1 || interval <= 0 {
				return fmt.Errorf("%w: sessions, samples, channels and interval must be positive", domain.ErrInvalidArgument)
			}

			first := time.Now().UTC().Truncate(time.Second)
			if start != "" {
				unix, err := domain.ParseDate(start)
				if err != nil {
					return err
				}
				first = time.Unix(unix, 0).UTC()
			}

			store, err := sqlite.NewSessionStore(a.cfg.DataDir)
			if err != nil {
				return err
			}
			source := mock.NewFakeAcquisition(5, 2, channels, seed)
			defer source.Close()

			plan := ports.DefaultSessionPlan()
			plan.Samples = samples
			plan.SampleInterval = interval
			sim := ports.NewSimulator(source, store, plan, 0)

			span := time.Duration(samples) * interval
			report := seedReport{Dir: a.cfg.DataDir}
			for i := 1; i <= sessions; i++ {
				name, err := sim.RecordSession(cmd.Context(), first.Add(time.Duration(i)*span))
				if err != nil {
					return err
				}
				report.Sessions = append(report.Sessions, name)
			}
			return Output(cmd.OutOrStdout(), report, format)
		},
	}

	setupFormatFlag(cmd, &format, "text", "json", "yaml")
	cmd.Flags().IntVar(&sessions, "sessions", 3, "Number of sessions to write")
	cmd.Flags().IntVar(&samples, "samples", 60, "Samples per detector per session")
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "Time between samples")
	cmd.Flags().IntVar(&channels, "channels", 1024, "Channels per spectrum")
	cmd.Flags().StringVar(&start, "start", "", "Start of the first session (DDMMYYYY, default now)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")

	return cmd
}
