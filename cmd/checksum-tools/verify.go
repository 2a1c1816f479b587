package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/folbricht/checksum-tools"
	"github.com/spf13/cobra"
)

type verifyOptions struct {
	cmdToolOptions
	allowMissing bool
}

func newVerifyCommand(ctx context.Context) *cobra.Command {
	var opt verifyOptions

	cmd := &cobra.Command{
		Use:   "verify <[user@][host:]dir> [mask...]",
		Short: "Verify files against their digest files",
		Long: `Recalculates the digests of all files matching the masks and compares them
with the ones recorded in their digest files. Every file is reported as OK,
FAILED or MISSING on stdout. The command fails if any file doesn't match or,
unless --allow-missing is given, has no digest file.`,
		Example: `  checksum-tools verify -r /data
  checksum-tools verify admin@fileserver:/srv/archive '*.tar'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(ctx, opt, args)
		},
		SilenceUsage: true,
	}
	flags := cmd.Flags()
	flags.BoolVar(&opt.allowMissing, "allow-missing", false, "don't fail on files without digest file")
	addToolOptions(&opt.cmdToolOptions, flags)
	return cmd
}

func runVerify(ctx context.Context, opt verifyOptions, args []string) error {
	if err := opt.validate(); err != nil {
		return err
	}
	tool, dir, err := opt.newTool(args[0], checksum.Options{})
	if err != nil {
		return err
	}
	defer tool.Backend().Close()

	var failed, missing int
	pb := &fileProgress{
		onResult: func(name string, r checksum.VerifyResult) {
			switch {
			case r.DigestFileMissing:
				missing++
				fmt.Fprintf(stdout, "MISSING %s\n", name)
			case r.OK():
				fmt.Fprintf(stdout, "OK      %s\n", name)
			default:
				failed++
				fmt.Fprintf(stdout, "FAILED  %s (%s)\n", name, joinTypes(r.Failed()))
			}
		},
	}
	defer pb.Finish()
	results, err := tool.VerifyDigestFiles(ctx, dir, args[1:], pb.Progress)
	if err != nil {
		return err
	}
	if !opt.allowMissing && missing > 0 {
		failed += missing
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed verification", failed, len(results))
	}
	return nil
}

func joinTypes(types []checksum.DigestType) string {
	s := make([]string, 0, len(types))
	for _, t := range types {
		s = append(s, t.String())
	}
	sort.Strings(s)
	return strings.Join(s, ",")
}
