//go:build !nogpu

package gpu

import (
	"log/slog"

	"github.com/gogpu/graphview"
)

// slogger returns the logger for internal/gpu.
// All logging in this package goes through graphview.SetLogger.
func slogger() *slog.Logger { return graphview.Logger() }
