package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type digestsOptions struct {
	cmdToolOptions
	lengths bool
}

func newDigestsCommand(ctx context.Context) *cobra.Command {
	var opt digestsOptions

	cmd := &cobra.Command{
		Use:   "digests [[user@]host:]",
		Short: "List supported digest types",
		Long: `Lists the digest types that can be used for a location. Without argument, the
types supported locally are shown. For a remote host, the list comes from the
openssl installation on that host.`,
		Example: `  checksum-tools digests
  checksum-tools digests -l admin@fileserver:`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigests(ctx, opt, args)
		},
		SilenceUsage: true,
	}
	flags := cmd.Flags()
	flags.BoolVarP(&opt.lengths, "lengths", "l", false, "show the length of hex digests")
	flags.StringVar(&opt.openssl, "openssl", "", "location of openssl on the remote host, stored on the host for later use")
	return cmd
}

func runDigests(ctx context.Context, opt digestsOptions, args []string) error {
	location := "."
	if len(args) > 0 {
		location = args[0]
	}
	b, _, err := opt.backend(location)
	if err != nil {
		return err
	}
	defer b.Close()

	types, err := b.Digests()
	if err != nil {
		return err
	}
	for _, t := range types {
		if !opt.lengths {
			fmt.Fprintln(stdout, t)
			continue
		}
		n, err := b.DigestLength(t)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%-12s %d\n", t, n)
	}
	return nil
}
