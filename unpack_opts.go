package marchive

import "log/slog"

// unpackConfig holds configuration for extraction.
type unpackConfig struct {
	decompressor Decompressor
	filter       Filter
	overwrite    bool
	workers      int
	progress     ProgressFunc
	logger       *slog.Logger
}

// UnpackOption configures Unpack.
type UnpackOption func(*unpackConfig)

// UnpackWithDecompressor supplies the decompressor used when the archive's
// descriptor is only present in compressed form.
func UnpackWithDecompressor(d Decompressor) UnpackOption {
	return func(cfg *unpackConfig) {
		cfg.decompressor = d
	}
}

// UnpackWithFilter reverses f on the encoded descriptor before decoding.
func UnpackWithFilter(f Filter) UnpackOption {
	return func(cfg *unpackConfig) {
		cfg.filter = f
	}
}

// UnpackWithOverwrite controls whether existing files are replaced.
// By default, existing files are overwritten without warning; pass false to
// skip them instead.
func UnpackWithOverwrite(overwrite bool) UnpackOption {
	return func(cfg *unpackConfig) {
		cfg.overwrite = overwrite
	}
}

// UnpackWithWorkers extracts up to n entries concurrently.
// Values below 2 extract serially in descriptor order, which is the default.
// With more workers, completion order is unspecified and an error stops
// scheduling new entries but lets in-flight ones finish.
func UnpackWithWorkers(n int) UnpackOption {
	return func(cfg *unpackConfig) {
		cfg.workers = n
	}
}

// UnpackWithProgress sets a callback that receives progress updates.
func UnpackWithProgress(fn ProgressFunc) UnpackOption {
	return func(cfg *unpackConfig) {
		cfg.progress = fn
	}
}

// UnpackWithLogger sets the logger for unpack operations.
// If not set, logging is disabled.
func UnpackWithLogger(logger *slog.Logger) UnpackOption {
	return func(cfg *unpackConfig) {
		cfg.logger = logger
	}
}
