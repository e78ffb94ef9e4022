package main

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	levelName  string
	level      = charmlog.InfoLevel
)

var rootCmd = &cobra.Command{
	Use:   "progression",
	Short: "Markov chord progressions for four CV voices",
	Long: `progression walks a Markov chain over scale degrees and voices each
chord for bass, tenor, alto and soprano. Key changes go through a
transition chord on the next beat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := charmlog.ParseLevel(levelName)
		if err != nil {
			return err
		}
		level = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "progression.yaml", "yaml config file")
	rootCmd.PersistentFlags().StringVar(&levelName, "log-level", "info", "debug, info, warn or error")
}

func newLogger(prefix string) *charmlog.Logger {
	return charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		Level:           level,
		ReportCaller:    level == charmlog.DebugLevel,
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
