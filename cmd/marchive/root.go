package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/meigma/marchive"
	"github.com/meigma/marchive/filter"
	"github.com/meigma/marchive/internal/config"
	"github.com/meigma/marchive/mfile"
)

const (
	cliName        = "marchive"
	cliDescription = "pack directories into aligned .bin/.psb archives"
)

// app carries state shared by all subcommands once flags are parsed.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configFile string
	logLevel   string
	logFormat  string
	codec      string
	filterKey  uint32

	cfg    config.Config
	logger *slog.Logger
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:           cliName,
		Short:         cliDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	flags.StringVar(&a.codec, "codec", "", "descriptor compression codec: mdf, zstd, lz4")
	flags.Uint32Var(&a.filterKey, "filter-key", 0, "xorshift descriptor filter key")

	rootCmd.AddCommand(
		newBuildCommand(a),
		newUnpackCommand(a),
		newInspectCommand(a),
		newCompressCommand(a),
		newDecompressCommand(a),
	)
	return rootCmd
}

// setup loads the config file, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.Default()
	if a.configFile != "" {
		cfg, err := config.Load(a.configFile)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		a.cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		a.cfg.Log.Format = a.logFormat
	}
	if flags.Changed("codec") {
		a.cfg.Compression.Codec = a.codec
	}
	if flags.Changed("filter-key") {
		a.cfg.Filter = config.Filter{Kind: config.FilterXORShift, Key: a.filterKey}
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	h, err := a.cfg.Log.Handler(a.stderr)
	if err != nil {
		return err
	}
	a.logger = slog.New(h)
	return nil
}

// descriptorFilter returns the configured filter, or nil.
func (a *app) descriptorFilter() (marchive.Filter, error) {
	f, err := a.cfg.Filter.Build()
	if err != nil || f == nil {
		return nil, err
	}
	return f, nil
}

// compressionCodec returns a codec for the configured format. enabled is
// false when no codec is configured, in which case the codec uses mdf.
func (a *app) compressionCodec() (codec *mfile.Codec, enabled bool, err error) {
	format, enabled, err := a.cfg.Compression.Parse()
	if err != nil {
		return nil, false, err
	}
	if !enabled {
		format = mfile.FormatMDF
	}
	return mfile.New(
		mfile.WithFormat(format),
		mfile.WithKeepOriginal(a.cfg.Compression.KeepOriginal),
	), enabled, nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}

// Compile-time interface checks.
var (
	_ marchive.Compressor   = (*mfile.Codec)(nil)
	_ marchive.Decompressor = (*mfile.Codec)(nil)
	_ marchive.Filter       = (*filter.XORShift)(nil)
)
