package cli

import (
	"github.com/spf13/cobra"

	"github.com/quentinrf/spectrum-reader/internal/domain"
)

func newDetectorsCommand(a *app) *cobra.Command {
	var (
		family string
		strict bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "detectors",
		Short: "List the detectors recorded across acquisition files",
		Long: `List every detector recorded in at least one acquisition file, sorted by name.
The housekeeping group "Sensor" is never listed.

Families:
  all   every detector
  csi   CsI detectors (names containing "D3")
  nai   NaI detectors (names containing "digiBASE")`,
		Example: `  spectrumctl detectors --data-dir ./data
  spectrumctl detectors --family nai --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fam, err := domain.ParseFamily(family)
			if err != nil {
				return err
			}

			b, err := a.backend()
			if err != nil {
				return err
			}
			defer b.Close()

			names, err := b.ListDetectors(cmd.Context(), fam, strict || a.cfg.StrictSensor)
			if err != nil {
				return err
			}
			return Output(cmd.OutOrStdout(), detectorList{Family: fam, Detectors: names}, format)
		},
	}

	setupFormatFlag(cmd, &format, "text", "json", "yaml")
	cmd.Flags().StringVar(&family, "family", string(domain.FamilyAll), "Detector family: all, csi or nai")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail unless the Sensor group is present")

	return cmd
}
