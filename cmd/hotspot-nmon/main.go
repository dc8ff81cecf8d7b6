package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/srodi/hotspot-nmon/pkg/config"
	"github.com/srodi/hotspot-nmon/pkg/logging"
)

var version = "dev"

// usageError marks failures that should be followed by the usage text.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func main() {
	cmd, err := newRootCmd(os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var uerr *usageError
		if errors.As(err, &uerr) {
			fmt.Fprint(os.Stderr, cmd.UsageString())
		}
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, error) {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "hotspot-nmon <monitoring_file> <processes_file> [start_timestamp] [end_timestamp]",
		Short: "Chart the top CPU and memory consumers of an NMON capture",
		Long: `hotspot-nmon reads an NMON capture, ranks the processes of every sampling
interval by CPU and memory usage and draws one stacked bar per interval with
the top 5 processes and everything else folded into "Other processes".

Arguments:
  monitoring_file   NMON csv capture
  processes_file    "<pid>,<description>" lines used to label processes
  start_timestamp   first timestamp to keep, e.g. T0002 (optional)
  end_timestamp     last timestamp to keep, e.g. T0013 (optional)

Examples:
  # summary for the whole capture (charts need 100 timestamps or fewer)
  hotspot-nmon data.nmon processes.txt
  # summary and charts for a range
  hotspot-nmon data.nmon processes.txt T0002 T0013`,
		Args:          validateArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return &usageError{err}
			}
			log, err := logging.New(cfg.LogLevel, stderr)
			if err != nil {
				return &usageError{fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)}
			}

			in := inputs{capturePath: args[0], detailsPath: args[1]}
			if len(args) > 2 {
				in.start = args[2]
			}
			if len(args) > 3 {
				in.end = args[3]
			}
			return analyze(in, cfg, stdout, stderr, log)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	cmd.Flags().StringVar(&configFile, "config", "", "optional YAML file with flag defaults")
	if err := config.RegisterFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	return cmd, nil
}

func validateArgs(_ *cobra.Command, args []string) error {
	switch {
	case len(args) < 2:
		return &usageError{errors.New("you must specify a monitoring file and a processes file")}
	case len(args) > 4:
		return &usageError{errors.New("too many arguments")}
	}
	return nil
}
