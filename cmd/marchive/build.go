package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meigma/marchive"
)

func newBuildCommand(a *app) *cobra.Command {
	var maxFiles int
	cmd := &cobra.Command{
		Use:   "build <input-dir> <output-base>",
		Short: "pack a directory into output-base.bin and output-base.psb",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []marchive.BuildOption{
				marchive.BuildWithLogger(a.logger),
				marchive.BuildWithMaxFiles(maxFiles),
			}
			codec, enabled, err := a.compressionCodec()
			if err != nil {
				return err
			}
			if enabled {
				opts = append(opts, marchive.BuildWithCompressor(codec))
			}
			f, err := a.descriptorFilter()
			if err != nil {
				return err
			}
			if f != nil {
				opts = append(opts, marchive.BuildWithFilter(f))
			}

			stats, err := marchive.Build(cmd.Context(), args[0], args[1], opts...)
			if err != nil {
				return err
			}
			a.printf("packed %d files (%s) into %s (%s)\n",
				stats.FileCount, humanize.IBytes(stats.DataBytes),
				stats.BlobPath, humanize.IBytes(stats.BlobSize))
			return nil
		},
	}
	cmd.Flags().IntVar(&maxFiles, "max-files", marchive.DefaultMaxFiles, "maximum number of files to pack (negative for no limit)")
	return cmd
}
