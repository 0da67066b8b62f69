package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/fieldreg/config"
	"github.com/katalvlaran/fieldreg/field"
	"github.com/katalvlaran/fieldreg/fieldio"
	"github.com/katalvlaran/fieldreg/kernel"
	"github.com/katalvlaran/fieldreg/metrics"
	"github.com/katalvlaran/fieldreg/regularizer"
)

// flags holds the values bound to the command line.
type flags struct {
	logLevel   string
	logFormat  string
	configPath string

	in, out        string
	sigmas         []float64
	maxError       float64
	maxKernelWidth uint
	workers        int
	metricsFile    string

	dimension int
}

func newRootCmd() *cobra.Command {
	var fl flags

	root := &cobra.Command{
		Use:   "fieldreg",
		Short: "Gaussian regularization of N-D displacement fields",
		Long: `fieldreg smooths every component of a displacement field with a
separable discrete Gaussian, one pass per axis, and writes the result with
the input geometry unchanged.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&fl.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides the config file)")
	root.PersistentFlags().StringVar(&fl.logFormat, "log-format", "", "log format: text, json, auto (overrides the config file)")
	root.PersistentFlags().StringVar(&fl.configPath, "config", "", "YAML or TOML configuration file")

	smooth := &cobra.Command{
		Use:   "smooth",
		Short: "Regularize a field document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSmooth(cmd, &fl)
		},
	}
	smooth.Flags().StringVar(&fl.in, "in", "", "input field document")
	smooth.Flags().StringVar(&fl.out, "out", "", "output field document")
	smooth.Flags().Float64SliceVar(&fl.sigmas, "sigma", nil, "standard deviation in grid units; one value for all axes or one per axis")
	smooth.Flags().Float64Var(&fl.maxError, "max-error", regularizer.DefaultMaximumError, "kernel truncation error bound in [0, 1]")
	smooth.Flags().UintVar(&fl.maxKernelWidth, "max-kernel-width", regularizer.DefaultMaximumKernelWidth, "kernel half-width cap")
	smooth.Flags().IntVar(&fl.workers, "workers", 0, "parallel workers per pass, 0 = GOMAXPROCS")
	smooth.Flags().StringVar(&fl.metricsFile, "metrics-file", "", "write Prometheus text metrics of the run to this file")
	_ = smooth.MarkFlagRequired("in")
	_ = smooth.MarkFlagRequired("out")

	describe := &cobra.Command{
		Use:   "describe",
		Short: "Print the effective parameters and per-axis kernel radii",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDescribe(cmd, &fl)
		},
	}
	describe.Flags().IntVar(&fl.dimension, "dimension", 3, "field dimension to describe")
	describe.Flags().Float64SliceVar(&fl.sigmas, "sigma", nil, "standard deviation override")

	root.AddCommand(smooth, describe)

	return root
}

// loadConfig reads the config file if any, then applies flags the user set
// explicitly on cmd.
func loadConfig(cmd *cobra.Command, fl *flags) (config.Config, error) {
	cfg := config.Default()
	if fl.configPath != "" {
		var err error
		if cfg, err = config.Load(fl.configPath); err != nil {
			return config.Config{}, err
		}
	}

	set := cmd.Flags().Changed
	if set("sigma") {
		cfg.StandardDeviation, cfg.StandardDeviations = nil, nil
		if len(fl.sigmas) == 1 {
			s := fl.sigmas[0]
			cfg.StandardDeviation = &s
		} else {
			cfg.StandardDeviations = append([]float64(nil), fl.sigmas...)
		}
	}
	if set("max-error") {
		cfg.MaximumError = fl.maxError
	}
	if set("max-kernel-width") {
		cfg.MaximumKernelWidth = fl.maxKernelWidth
	}
	if set("workers") {
		cfg.Workers = fl.workers
	}
	if fl.logLevel != "" {
		cfg.LogLevel = fl.logLevel
	}
	if fl.logFormat != "" {
		cfg.LogFormat = fl.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func runSmooth(cmd *cobra.Command, fl *flags) error {
	cfg, err := loadConfig(cmd, fl)
	if err != nil {
		return err
	}
	logger := cfg.Logger(cmd.ErrOrStderr()).With(slog.String("run", uuid.NewString()))

	in, err := fieldio.ReadFile(fl.in)
	if err != nil {
		return err
	}
	opts := append(cfg.Options(), regularizer.WithLogger(logger))
	var reg *prometheus.Registry
	if fl.metricsFile != "" {
		reg = prometheus.NewRegistry()
		opts = append(opts, regularizer.WithMetrics(metrics.New(reg)))
	}
	g, err := regularizer.New(in.Dimension(), opts...)
	if err != nil {
		return fmt.Errorf("%s: %w", fl.in, err)
	}

	start := time.Now()
	out, err := g.Regularize(cmd.Context(), in)
	if err != nil {
		return err
	}
	radii := make([]int, 0, in.Dimension())
	for _, k := range g.Kernels() {
		radii = append(radii, k.Radius())
	}
	logger.Info("field regularized",
		slog.String("in", fl.in),
		slog.String("region", in.Region().String()),
		slog.Any("sigma", g.StandardDeviations()),
		slog.Any("radii", radii),
		slog.Duration("elapsed", time.Since(start)))

	if err := fieldio.WriteFile(fl.out, out); err != nil {
		return err
	}
	if reg != nil {
		if err := prometheus.WriteToTextfile(fl.metricsFile, reg); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	return nil
}

func runDescribe(cmd *cobra.Command, fl *flags) error {
	cfg, err := loadConfig(cmd, fl)
	if err != nil {
		return err
	}
	if fl.dimension < 1 || fl.dimension > field.MaxDimension {
		return fmt.Errorf("describe: dimension %d: %w", fl.dimension, regularizer.ErrBadDimension)
	}
	logger := cfg.Logger(cmd.ErrOrStderr())
	g, err := regularizer.New(fl.dimension, append(cfg.Options(), regularizer.WithLogger(logger))...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if _, err := g.WriteTo(w); err != nil {
		return err
	}
	for j, s := range g.StandardDeviations() {
		k, err := kernel.NewGaussian(kernel.Spec{
			Direction:      j,
			Variance:       s * s,
			MaxError:       g.MaximumError(),
			MaxKernelWidth: g.MaximumKernelWidth(),
		}, kernel.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("describe: axis %d: %w", j, err)
		}
		clamp := ""
		if k.Clamped() {
			clamp = " (clamped)"
		}
		fmt.Fprintf(w, "Axis %d radius: %d%s\n", j, k.Radius(), clamp)
	}

	return nil
}
