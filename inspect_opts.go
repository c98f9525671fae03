package marchive

import "log/slog"

// inspectConfig holds configuration for Inspect.
type inspectConfig struct {
	decompressor Decompressor
	filter       Filter
	skipDigest   bool
	logger       *slog.Logger
}

// InspectOption configures Inspect.
type InspectOption func(*inspectConfig)

// InspectWithDecompressor supplies the decompressor for compressed descriptors.
func InspectWithDecompressor(d Decompressor) InspectOption {
	return func(cfg *inspectConfig) {
		cfg.decompressor = d
	}
}

// InspectWithFilter reverses f on the encoded descriptor before decoding.
func InspectWithFilter(f Filter) InspectOption {
	return func(cfg *inspectConfig) {
		cfg.filter = f
	}
}

// InspectWithDigest controls whether the blob digest is computed.
// Enabled by default; computing it reads the whole blob.
func InspectWithDigest(enabled bool) InspectOption {
	return func(cfg *inspectConfig) {
		cfg.skipDigest = !enabled
	}
}

// InspectWithLogger sets the logger for Inspect.
// If not set, logging is disabled.
func InspectWithLogger(logger *slog.Logger) InspectOption {
	return func(cfg *inspectConfig) {
		cfg.logger = logger
	}
}
