package marchive

import "log/slog"

// DefaultMaxFiles is the default limit used when no BuildWithMaxFiles option is set.
const DefaultMaxFiles = 200_000

// buildConfig holds configuration for archive creation.
type buildConfig struct {
	compress   bool
	compressor Compressor
	filter     Filter
	maxFiles   int
	progress   ProgressFunc
	logger     *slog.Logger
}

// BuildOption configures archive creation.
type BuildOption func(*buildConfig)

// BuildWithCompressor compresses the descriptor with c after it is written.
// Passing a nil Compressor makes Build fail with ErrMissingDependency.
func BuildWithCompressor(c Compressor) BuildOption {
	return func(cfg *buildConfig) {
		cfg.compress = true
		cfg.compressor = c
	}
}

// BuildWithFilter applies f to the encoded descriptor.
func BuildWithFilter(f Filter) BuildOption {
	return func(cfg *buildConfig) {
		cfg.filter = f
	}
}

// BuildWithMaxFiles limits the number of files included in the archive.
// Zero uses DefaultMaxFiles. Negative means no limit.
func BuildWithMaxFiles(n int) BuildOption {
	return func(cfg *buildConfig) {
		cfg.maxFiles = n
	}
}

// BuildWithProgress sets a callback that receives progress updates.
func BuildWithProgress(fn ProgressFunc) BuildOption {
	return func(cfg *buildConfig) {
		cfg.progress = fn
	}
}

// BuildWithLogger sets the logger for build operations.
// If not set, logging is disabled.
func BuildWithLogger(logger *slog.Logger) BuildOption {
	return func(cfg *buildConfig) {
		cfg.logger = logger
	}
}
