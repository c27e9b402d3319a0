package decoder

import "log/slog"

// LevelTrace is below slog.LevelDebug; the decoder reports every decoded
// instruction at this level.
const LevelTrace slog.Level = slog.LevelDebug - 4
