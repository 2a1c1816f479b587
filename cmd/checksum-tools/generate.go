package main

import (
	"context"

	"github.com/folbricht/checksum-tools"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	cmdToolOptions
	overwrite bool
}

func newGenerateCommand(ctx context.Context) *cobra.Command {
	var opt generateOptions

	cmd := &cobra.Command{
		Use:   "generate <[user@][host:]dir> [mask...]",
		Short: "Write digest files",
		Long: `Calculates digests for all files in a directory that match the masks and writes
them into a digest file next to each one. Masks are glob patterns matched against
file names and default to '*'. Files that already have a digest file are skipped
unless --overwrite is given. Directories on a remote host are accessed via ssh
and digests are calculated there with openssl.`,
		Example: `  checksum-tools generate -r -d md5,sha256 /data '*.mp4'
  checksum-tools generate admin@fileserver:/srv/archive`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(ctx, opt, args)
		},
		SilenceUsage: true,
	}
	flags := cmd.Flags()
	flags.BoolVarP(&opt.overwrite, "overwrite", "o", false, "replace existing digest files")
	addToolOptions(&opt.cmdToolOptions, flags)
	return cmd
}

func runGenerate(ctx context.Context, opt generateOptions, args []string) error {
	if err := opt.validate(); err != nil {
		return err
	}
	tool, dir, err := opt.newTool(args[0], checksum.Options{Overwrite: opt.overwrite})
	if err != nil {
		return err
	}
	defer tool.Backend().Close()

	pb := &fileProgress{}
	defer pb.Finish()
	return tool.CreateDigestFiles(ctx, dir, args[1:], pb.Progress)
}
