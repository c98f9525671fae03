//go:generate flatc --go --go-namespace fb -o internal schema/descriptor.fbs

// Package marchive packs a directory tree into a paired archive and unpacks
// it again.
//
// An archive named "name" consists of:
//   - name.bin: the blob, file contents concatenated with each entry starting
//     on a 2048-byte boundary
//   - name.psb: the descriptor, a FlatBuffers table mapping each relative path
//     to its offset and length in the blob
//   - name.psb.m: optionally, the descriptor in compressed form
//
// Build writes an archive; Unpack extracts one; Inspect reports on one
// without extracting. Unpack and Inspect accept any of the three names above
// and transparently decompress the ".m" variant when given a Decompressor
// (see the mfile package).
//
// # Quick Start
//
//	codec := mfile.New()
//	_, err := marchive.Build(ctx, "./assets", "out/alldata",
//	    marchive.BuildWithCompressor(codec),
//	)
//
//	_, err = marchive.Unpack(ctx, "out/alldata.psb.m", "./extracted",
//	    marchive.UnpackWithDecompressor(codec),
//	)
//
// Descriptors may additionally be obfuscated with a Filter (see the filter
// package); the same filter must be supplied to read them back.
package marchive
