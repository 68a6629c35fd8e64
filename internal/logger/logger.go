// Package logger provides verbose logging for docindex.
// When verbose mode is enabled via the --verbose flag, messages are printed
// to stderr to show what the indexing and search pipeline is doing.
// Warnings are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	mu       sync.RWMutex
	verbose  bool
	output   io.Writer = os.Stderr
	colorize           = isTerminal(os.Stderr)

	debugPrefix = newPrefix("[DEBUG]", color.FgHiBlack)
	infoPrefix  = newPrefix("[INFO]", color.FgCyan)
	warnPrefix  = newPrefix("[WARN]", color.FgYellow, color.Bold)
)

func newPrefix(text string, attrs ...color.Attribute) func(bool) string {
	c := color.New(attrs...)
	c.EnableColor()
	coloured := c.Sprint(text)
	return func(on bool) string {
		if on {
			return coloured
		}
		return text
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Level prefixes are coloured only for terminals.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	colorize = isTerminal(w)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, debugPrefix(colorize)+" "+format+"\n", args...)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, infoPrefix(colorize)+" "+format+"\n", args...)
	}
}

// Warn prints a warning regardless of verbosity.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fmt.Fprintf(output, warnPrefix(colorize)+" "+format+"\n", args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
