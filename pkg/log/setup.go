package log

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/tacusci/logging/v2"
	"golang.org/x/term"
)

const LevelEnvKey = "DRAGONEYE_LOGGING_LEVEL"

// Setup applies the named logging level, falling back to the
// level found in the environment and then to warn. Colour output
// is turned off when out is not attached to a terminal.
func Setup(level string, out *os.File) {
	if len(level) == 0 {
		level = os.Getenv(LevelEnvKey)
	}

	logging.CallbackLabel = false
	logging.CallbackLabelLevel = 5
	logging.ColorLogLevelLabelOnly = true

	switch strings.ToLower(level) {
	case "debug":
		logging.CurrentLoggingLevel = logging.DebugLevel
		logging.CallbackLabel = true
	case "info":
		logging.CurrentLoggingLevel = logging.InfoLevel
	case "silent":
		logging.CurrentLoggingLevel = logging.SilentLevel
	default:
		logging.CurrentLoggingLevel = logging.WarnLevel
	}

	if out != nil && !isTerminal(out) {
		color.NoColor = true
	}
}

var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Silence turns all logging output off and returns a func
// which restores the previous level.
func Silence() func() {
	ref := logging.CurrentLoggingLevel
	logging.CurrentLoggingLevel = logging.SilentLevel
	return func() { logging.CurrentLoggingLevel = ref }
}
