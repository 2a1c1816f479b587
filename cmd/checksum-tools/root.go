package main

import (
	"github.com/folbricht/checksum-tools"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checksum-tools",
		Short: "Generate and verify digest files for local or remote directory trees.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.config/checksum-tools/config.json)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warning", "log level, one of panic, fatal, error, warning, info, debug, trace")
	return cmd
}

// Send library log output to stderr at the requested level.
func setupLogging(level string) error {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	checksum.Log.SetOutput(stderr)
	checksum.Log.SetLevel(l)
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)
}
