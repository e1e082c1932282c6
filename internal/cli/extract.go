package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newExtractCommand(a *app) *cobra.Command {
	var (
		start  string
		stop   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "extract DETECTOR",
		Short: "Extract one detector's spectra inside a date range",
		Long: `Extract every spectrum row of DETECTOR sampled between --start and --stop,
merged across acquisition files in file order.

Both bounds are DDMMYYYY dates at 00:00:00 UTC and are inclusive. An omitted
bound leaves that side open. Files that cannot be read are reported and
skipped.`,
		Example: `  spectrumctl extract digiBASE_3 --start 01092018 --stop 05092018
  spectrumctl extract D3S_1 --format csv > d3s_1.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.backend()
			if err != nil {
				return err
			}
			defer b.Close()

			res, err := b.Extract(cmd.Context(), args[0], start, stop)
			if err != nil {
				return err
			}
			for _, s := range res.Skipped {
				log.Warn().Str("file", s.Path).Err(s.Err).Msg("file skipped")
			}
			return Output(cmd.OutOrStdout(), extraction{res: res}, format)
		},
	}

	setupFormatFlag(cmd, &format, "text", "json", "yaml", "csv")
	cmd.Flags().StringVar(&start, "start", "", "First day to include (DDMMYYYY)")
	cmd.Flags().StringVar(&stop, "stop", "", "Stop bound (DDMMYYYY, midnight UTC, inclusive)")

	return cmd
}
