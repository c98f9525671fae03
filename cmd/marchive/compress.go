package main

import (
	"github.com/spf13/cobra"

	"github.com/meigma/marchive/mfile"
)

func newCompressCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compress <file>",
		Short: "write <file>.m with the configured codec (mdf by default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			codec, _, err := a.compressionCodec()
			if err != nil {
				return err
			}
			if err := codec.CompressFile(args[0]); err != nil {
				return err
			}
			a.logger.Info("compressed", "path", args[0], "format", codec.Format().String())
			a.printf("%s\n", args[0]+mfile.Suffix)
			return nil
		},
	}
}

func newDecompressCommand(a *app) *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "decompress <file.m>",
		Short: "restore <file> from <file>.m, detecting the codec",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := mfile.New().DecompressFile(args[0], keep); err != nil {
				return err
			}
			target, _ := mfile.TrimSuffix(args[0])
			a.logger.Info("decompressed", "path", args[0])
			a.printf("%s\n", target)
			return nil
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "keep the .m file")
	return cmd
}
