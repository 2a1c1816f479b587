package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/folbricht/checksum-tools"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/valyala/fasttemplate"
)

// Line format matching the one used in digest files.
const defaultDigestFormat = "{TYPE}({name})= {hex}"

type digestOptions struct {
	cmdToolOptions
	format string
}

func newDigestCommand(ctx context.Context) *cobra.Command {
	var opt digestOptions

	cmd := &cobra.Command{
		Use:   "digest <[user@][host:]dir> [mask...]",
		Short: "Print digests of files",
		Long: `Calculates digests for all files matching the masks and prints them in the
same format used in digest files, without writing anything. The output format
can be changed with --format, which accepts the placeholders {type}, {TYPE},
{name}, {base} and {hex}.`,
		Example: `  checksum-tools digest -d sha256 . '*.iso'
  checksum-tools digest -d md5 --format '{hex}  {name}' /data`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(ctx, opt, args)
		},
		SilenceUsage: true,
	}
	flags := cmd.Flags()
	flags.StringVarP(&opt.format, "format", "f", defaultDigestFormat, "output format of each line")
	addToolOptions(&opt.cmdToolOptions, flags)
	return cmd
}

func runDigest(ctx context.Context, opt digestOptions, args []string) error {
	if err := opt.validate(); err != nil {
		return err
	}
	tpl, err := fasttemplate.NewTemplate(opt.format, "{", "}")
	if err != nil {
		return errors.Wrap(err, "--format")
	}
	tool, dir, err := opt.newTool(args[0], checksum.Options{})
	if err != nil {
		return err
	}
	defer tool.Backend().Close()

	pb := &fileProgress{}
	results, err := tool.DigestFiles(ctx, dir, args[1:], pb.Progress)
	pb.Finish()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, t := range tool.Types() {
			fmt.Fprintln(stdout, tpl.ExecuteString(map[string]interface{}{
				"type": t.String(),
				"TYPE": strings.ToUpper(t.String()),
				"name": name,
				"base": filepath.Base(name),
				"hex":  results[name][t],
			}))
		}
	}
	return nil
}
