// Package mfile compresses and decompresses the ".m" variant of archive
// descriptors.
//
// A ".m" file holds the descriptor bytes wrapped in one of three formats,
// recognized on decompression by their leading magic bytes:
//   - mdf: "mdf\x00", uint32 little-endian uncompressed size, zlib stream
//   - zstd: a zstd frame
//   - lz4: an lz4 frame
//
// [Codec] satisfies the compressor and decompressor capabilities accepted
// by marchive.Build and marchive.Unpack.
package mfile
