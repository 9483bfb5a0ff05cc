package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/sitypes/bridge"
	"github.com/wippyai/sitypes/config"
	"github.com/wippyai/sitypes/engine"
)

// app carries state shared by all commands of one invocation.
type app struct {
	cfgFile string
	verbose bool
	format  string

	cfg *config.Config
	log *zap.Logger
	out *printer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "siq",
		Short: "Dimensionally checked calculator for SI quantities",
		Long: `siq evaluates physical quantities with units.

Examples:
  siq eval "9.81 m/s^2 * 3 s"
  siq eval "36 km/h" --si
  siq convert "5 ft" cm
  siq calc "16 m^2" root 2
  siq unit "kW*h"
  siq dim "M*L^2/T^2"
  siq interactive`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.OutOrStdout())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (TOML or YAML)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging to stderr")
	flags.StringVar(&a.format, "format", "", "output format: text or cbor (overrides config)")

	root.AddCommand(
		newEvalCmd(a),
		newConvertCmd(a),
		newCalcCmd(a),
		newUnitCmd(a),
		newDimCmd(a),
		newInteractiveCmd(a),
	)
	return root
}

func (a *app) setup(w io.Writer) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.format != "" {
		cfg.Output.Format = a.format
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := cfg.Log.Logger()
	if err != nil {
		return err
	}
	engine.SetLogger(log.Named("engine"))
	bridge.SetLogger(log.Named("bridge"))
	log.Debug("configuration loaded",
		zap.String("file", a.cfgFile),
		zap.String("format", cfg.Output.Format),
		zap.Int("precision", cfg.Output.Precision))

	a.cfg = cfg
	a.log = log
	a.out = newPrinter(w, cfg.Output)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	io.WriteString(w, "siq: "+err.Error()+"\n")
}
