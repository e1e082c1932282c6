package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quentinrf/spectrum-reader/internal/config"
	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// app carries state shared by every subcommand of one invocation
type app struct {
	configPath string
	cfg        config.Config

	// overrides applied on top of the loaded config when set
	dataDir   string
	pattern   string
	workers   int
	logLevel  string
	logFormat string

	// remote mode
	server  string
	tlsCert string
	tlsKey  string
	tlsCA   string
}

// NewRootCommand builds the spectrumctl command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "spectrumctl",
		Short: "Query detector spectra across acquisition files",
		Long: `spectrumctl lists the detectors recorded in a directory of acquisition
files and extracts one detector's spectrum rows inside a calendar date range,
merged across every file that holds data for it.

Dates are DDMMYYYY (01092018 is 1 September 2018) and are read as UTC.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", os.Getenv("SPECTRUM_CONFIG"), "YAML config file")
	flags.StringVar(&a.dataDir, "data-dir", "", "Directory holding acquisition files")
	flags.StringVar(&a.pattern, "pattern", "", "File pattern relative to the data dir (supports **)")
	flags.IntVar(&a.workers, "workers", 0, "Files scanned concurrently during extraction")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: auto, console or json")
	flags.StringVar(&a.server, "server", "", "Query a spectrum service at host:port instead of local files")
	flags.StringVar(&a.tlsCert, "tls-cert", "", "Client certificate for --server (mTLS)")
	flags.StringVar(&a.tlsKey, "tls-key", "", "Client key for --server (mTLS)")
	flags.StringVar(&a.tlsCA, "tls-ca", "", "CA certificate for --server (mTLS)")

	root.AddCommand(
		newDetectorsCommand(a),
		newExtractCommand(a),
		newSeedCommand(a),
		newServeCommand(a),
	)

	return root
}

// loadConfig resolves defaults < config file < env < flags
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = a.dataDir
	}
	if flags.Changed("pattern") {
		cfg.Pattern = a.pattern
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: invalid configuration: %v", domain.ErrInvalidArgument, err)
	}

	cfg.ConfigureLogger(os.Stderr)
	a.cfg = cfg
	return nil
}

// Execute runs the command tree and returns the process exit code
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitCode(err)
	}
	return 0
}
