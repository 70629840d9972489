package tomasulo

import "log/slog"

// LevelTrace is the log level of per-cycle scheduling events.
const LevelTrace slog.Level = slog.LevelInfo + 1
