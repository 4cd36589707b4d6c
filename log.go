package bitwuzla

import "github.com/rs/zerolog"

// Logging is opt-in: the library stays silent unless a caller hands a
// logger to the context. The verbosity and log_level options select how
// much of the preprocessor / bit-blaster / congruence chatter gets through.

func levelFor(opts *Options) zerolog.Level {
	switch {
	case opts.Verbosity == 0 && opts.LogLevel == 0:
		return zerolog.Disabled
	case opts.Verbosity <= 1:
		return zerolog.InfoLevel
	case opts.Verbosity <= 3:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

func contextLogger(base *zerolog.Logger, opts *Options, id string) zerolog.Logger {
	if base == nil {
		return zerolog.Nop()
	}
	return base.Level(levelFor(opts)).With().Str("solver_id", id).Logger()
}
