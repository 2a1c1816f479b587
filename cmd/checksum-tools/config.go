package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/folbricht/checksum-tools"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config holds defaults that are applied when no command line options are
// given.
type Config struct {
	Digests    []string `json:"digests"`
	Extension  string   `json:"extension"`
	SSHCommand string   `json:"ssh-command,omitempty"`
}

// Global config in the main package defining the defaults. Those can be
// overridden by loading a config file.
var cfg = Config{
	Digests:   []string{"md5", "sha1"},
	Extension: checksum.DefaultExtension,
}

var cfgFile string

type configOptions struct {
	write bool
}

func newConfigCommand(ctx context.Context) *cobra.Command {
	var opt configOptions

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write config file",
		Long: `Shows the current internal config settings, either the defaults or the values
from $HOME/.config/checksum-tools/config.json. The output can be used to create
a custom config file by writing it to $HOME/.config/checksum-tools/config.json.`,
		Example: `  checksum-tools config -w`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(ctx, opt)
		},
		SilenceUsage: true,
	}
	flags := cmd.Flags()
	flags.BoolVarP(&opt.write, "write", "w", false, "write current configuration to file")
	return cmd
}

func runConfig(ctx context.Context, opt configOptions) error {
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	var w io.Writer = stdout
	if opt.write {
		filename, err := configFile()
		if err != nil {
			return err
		}
		if err = os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		fmt.Fprintln(stderr, "Writing config to", filename)
		w = f
	}
	_, err = w.Write(b)
	fmt.Fprintln(w)
	return err
}

func configFile() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "checksum-tools", "config.json"), nil
}

// Look for the config file and if present, load it into the global config
// instance. Values defined in the file will be set accordingly, while anything
// that's not in the file will retain it's default values.
func loadConfigIfPresent() error {
	filename, err := configFile()
	if err != nil {
		return err
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	err = json.NewDecoder(f).Decode(&cfg)
	return errors.Wrap(err, "reading "+filename)
}

func initConfig() {
	if err := loadConfigIfPresent(); err != nil {
		fmt.Fprintln(stderr, err)
		os.Exit(1)
	}
}
