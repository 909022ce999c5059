package logger

import (
	"io"
	"log"
	"os"
)

// ProgressLogger logs the main steps of the pagination (pages opened, layouts
// switched). It is silent unless EnableProgress is called.
var ProgressLogger = log.New(io.Discard, "quire.progress: ", log.LstdFlags)

// WarningLogger emits a warning for each non fatal problem, like characters
// missing from a font or images that could not be decoded.
var WarningLogger = log.New(os.Stderr, "quire.warning: ", log.Lmsgprefix)

// EnableProgress routes progress messages to w.
func EnableProgress(w io.Writer) {
	ProgressLogger.SetOutput(w)
}
