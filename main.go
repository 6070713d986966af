package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	cfg "github.com/maastricht-university/speaker-split/config"
	"github.com/maastricht-university/speaker-split/orchestrator"
)

// positional argument order of the seven-argument form
var positional = []string{"input", "train", "dev", "test", "dev_pct", "test_pct", "min_examples"}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("log_level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	root := &cobra.Command{
		Use:   "speaker-split [INPUT TRAIN DEV TEST DEV_PCT TEST_PCT MIN_EXAMPLES]",
		Short: "Split each speaker's recordings of a speech corpus into train/dev/test",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != len(positional) {
				return fmt.Errorf("expected 0 or %d positional arguments, got %d", len(positional), len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, a := range args {
				v.Set(positional[i], a)
			}
			conf, err := cfg.Load(v, configFile)
			if err != nil {
				return err
			}
			if err := conf.Validate(); err != nil {
				return err
			}
			log := newLogger(conf.LogLvl)

			p := orchestrator.NewPipeline(conf, log)
			_, err = p.Run(cmd.Context())
			return err
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&configFile, "config", "", "YAML config file")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	f.Bool("skip-header", false, "treat the first input line as a header")

	rf := root.Flags()
	rf.String("input", "", "input TSV")
	rf.String("train", "", "train output TSV")
	rf.String("dev", "", "dev output TSV")
	rf.String("test", "", "test output TSV")
	rf.Float64("dev-pct", 0, "fraction of each speaker's rows for dev")
	rf.Float64("test-pct", 0, "fraction of each speaker's rows for test")
	rf.Int("min-examples", 0, "minimum rows for a speaker to be split")
	rf.Int64("seed", 0, "random seed, 0 seeds from the clock")
	rf.String("threshold-mode", cfg.ThresholdFilter, "how min-examples is applied: filter or stop")
	rf.String("on-ungroupable", cfg.UngroupableSkip, "speakers too small for the fractions: skip or abort")
	rf.String("report", "", "write a YAML run report to this path")

	for _, name := range []string{"input", "train", "dev", "test", "dev-pct", "test-pct", "min-examples",
		"seed", "threshold-mode", "on-ungroupable", "report"} {
		_ = v.BindPFlag(key(name), rf.Lookup(name))
	}
	for _, name := range []string{"log-level", "skip-header"} {
		_ = v.BindPFlag(key(name), f.Lookup(name))
	}

	root.AddCommand(newStatsCmd(v, &configFile))
	return root
}

func newStatsCmd(v *viper.Viper, configFile *string) *cobra.Command {
	var minExamples int
	cmd := &cobra.Command{
		Use:   "stats INPUT",
		Short: "Print per-speaker group sizes for a corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := cfg.Load(v, *configFile)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("min-examples") {
				minExamples = conf.MinExamples
			}
			groups, err := orchestrator.LoadGroups(cmd.Context(), args[0], conf.SkipHeader)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(orchestrator.ComputeStats(groups, minExamples)); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().IntVar(&minExamples, "min-examples", 0, "threshold used for the eligible count")
	return cmd
}

// key maps a flag name to its config key.
func key(flag string) string { return strings.ReplaceAll(flag, "-", "_") }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}
