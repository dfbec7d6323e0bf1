package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/flash-optimizer/internal/pipeline"
	"github.com/GoSim-25-26J-441/flash-optimizer/internal/report"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/config"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/logger"
)

type rootOptions struct {
	configPath string
	outputDir  string
	weldMin    float64
	pinjMax    float64
	material   string
	gateType   string
	logLevel   string
	logFormat  string
	workers    int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "flashopt <csv>",
		Short: "Recommend molding settings that minimize flash",
		Long: `flashopt cleans a DOE table of injection molding runs, fits response
surface models for flash, weld-line strength and injection pressure, and
searches the tunable process window for the setting with the least
predicted flash that keeps weld strength and pressure within limits.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			logger.SetDefault(logger.NewWithFormat(cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr()))

			res, err := pipeline.NewRunner(cfg).Run(cmd.Context(), args[0])
			if err != nil {
				logger.Error("run failed", "input", args[0], "error", err)
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	f.StringVarP(&opts.outputDir, "out", "o", "", "output directory (default from config: results)")
	f.Float64Var(&opts.weldMin, "weld-min", 0, "minimum weld-line strength in MPa (default: median of the data)")
	f.Float64Var(&opts.pinjMax, "pinj-max", 0, "maximum injection pressure in bar (default: 90th percentile of the data)")
	f.StringVar(&opts.material, "material", "", "material grade used for predictions")
	f.StringVar(&opts.gateType, "gate-type", "", "gate type used for predictions")
	f.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&opts.logFormat, "log-format", "", "log format (text, json)")
	f.IntVar(&opts.workers, "workers", 0, "parallel grid search workers")
	return cmd
}

// load reads the config file, if any, and applies flags the user set.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(o.configPath); err != nil {
			return nil, err
		}
	}

	f := cmd.Flags()
	if f.Changed("out") {
		cfg.OutputDir = o.outputDir
	}
	if f.Changed("weld-min") {
		v := o.weldMin
		cfg.Constraints.WeldMin = &v
	}
	if f.Changed("pinj-max") {
		v := o.pinjMax
		cfg.Constraints.PinjMax = &v
	}
	if f.Changed("material") {
		cfg.OperatingPoint.Material = o.material
	}
	if f.Changed("gate-type") {
		cfg.OperatingPoint.GateType = o.gateType
	}
	if f.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if f.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if f.Changed("workers") {
		cfg.Search.Workers = o.workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printResult(w io.Writer, res *pipeline.Result) {
	fmt.Fprintln(w, report.Summary(res.Document))
	if paths := res.Artifacts.Paths(); res.Artifacts.Recommendation != "" {
		fmt.Fprintf(w, "\nResult files: %s\n", strings.Join(paths, " "))
	}
}
