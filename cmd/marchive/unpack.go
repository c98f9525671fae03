package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meigma/marchive"
	"github.com/meigma/marchive/mfile"
)

func newUnpackCommand(a *app) *cobra.Command {
	var (
		noOverwrite bool
		workers     int
	)
	cmd := &cobra.Command{
		Use:   "unpack <archive> <output-dir>",
		Short: "extract an archive given its .bin, .psb or .psb.m path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []marchive.UnpackOption{
				marchive.UnpackWithLogger(a.logger),
				marchive.UnpackWithDecompressor(mfile.New()),
				marchive.UnpackWithOverwrite(!noOverwrite),
				marchive.UnpackWithWorkers(workers),
			}
			f, err := a.descriptorFilter()
			if err != nil {
				return err
			}
			if f != nil {
				opts = append(opts, marchive.UnpackWithFilter(f))
			}

			stats, err := marchive.Unpack(cmd.Context(), args[0], args[1], opts...)
			if err != nil {
				return err
			}
			a.printf("extracted %d files (%s) to %s", stats.FileCount, humanize.IBytes(stats.TotalBytes), args[1])
			if stats.Skipped > 0 {
				a.printf(", skipped %d existing", stats.Skipped)
			}
			a.printf("\n")
			return nil
		},
	}
	cmd.Flags().BoolVar(&noOverwrite, "no-overwrite", false, "leave existing files untouched")
	cmd.Flags().IntVarP(&workers, "workers", "j", 1, "number of entries to extract concurrently")
	return cmd
}
