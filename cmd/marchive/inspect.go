package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meigma/marchive"
	"github.com/meigma/marchive/mfile"
)

func newInspectCommand(a *app) *cobra.Command {
	var noDigest, list bool
	cmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "describe an archive and check its layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts := []marchive.InspectOption{
				marchive.InspectWithLogger(a.logger),
				marchive.InspectWithDecompressor(mfile.New()),
				marchive.InspectWithDigest(!noDigest),
			}
			f, err := a.descriptorFilter()
			if err != nil {
				return err
			}
			if f != nil {
				opts = append(opts, marchive.InspectWithFilter(f))
			}

			info, err := marchive.Inspect(args[0], opts...)
			if err != nil {
				return err
			}

			a.printf("descriptor: %s\n", info.DescriptorPath)
			a.printf("blob:       %s (%s)\n", info.BlobPath, humanize.IBytes(info.BlobSize))
			if info.BlobDigest != "" {
				a.printf("digest:     %s\n", info.BlobDigest)
			}
			a.printf("files:      %s (%s)\n", humanize.Comma(int64(info.FileCount())), humanize.IBytes(info.DataBytes))

			if list {
				w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
				for e := range info.Descriptor.Entries() {
					fmt.Fprintf(w, "%s\t%d\t%s\n", e.Path, e.Offset, humanize.IBytes(e.Length))
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			if len(info.Problems) == 0 {
				a.printf("layout:     ok\n")
				return nil
			}
			a.printf("layout:     %d problems\n", len(info.Problems))
			for _, p := range info.Problems {
				a.printf("  %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noDigest, "no-digest", false, "skip hashing the blob")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list every entry")
	return cmd
}
