package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	debugMu     sync.Mutex
	debugOutput io.Writer = os.Stderr
)

// DebugEnabled returns true if debug mode is enabled via FASTODO_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("FASTODO_DEBUG") != ""
}

// SetDebugOutput redirects Debugf and returns the previous writer.
func SetDebugOutput(w io.Writer) io.Writer {
	debugMu.Lock()
	defer debugMu.Unlock()
	prev := debugOutput
	debugOutput = w
	return prev
}

func debugLogger() *log.Logger {
	debugMu.Lock()
	defer debugMu.Unlock()
	return log.NewWithOptions(debugOutput, log.Options{Level: log.DebugLevel, Prefix: "debug"})
}

// Debugf logs a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		debugLogger().Debug(fmt.Sprintf(format, args...))
	}
}
