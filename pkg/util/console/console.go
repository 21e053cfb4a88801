// Package console provides a standard interface for user- and machine-interface with the console
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"
)

// TimeFormat is the timestamp layout prefixed to every log line.
const TimeFormat = "2006-01-02|15:04:05"

// Console writes leveled progress messages to Err and primary output to Out.
//
// Log lines look like "2024-01-02|15:04:05| INFO| Building tractor ...". When
// Color is set, warnings and errors get a colored prompt and debug lines are
// faint.
type Console struct {
	Color bool
	Level Level
	Out   io.Writer
	Err   io.Writer
	// Now is used for timestamps; nil means time.Now.
	Now func() time.Time
	mu  sync.Mutex
}

// Debug prints a verbose debugging message, that is not displayed by default to the user.
func (c *Console) Debug(msg string) {
	c.log(DebugLevel, msg)
}

// Info tells the user what's going on.
func (c *Console) Info(msg string) {
	c.log(InfoLevel, msg)
}

// Warn tells the user that something might break.
func (c *Console) Warn(msg string) {
	c.log(WarnLevel, msg)
}

// Error tells the user that something is broken.
func (c *Console) Error(msg string) {
	c.log(ErrorLevel, msg)
}

// Fatal level message, followed by exit
func (c *Console) Fatal(msg string) {
	c.log(FatalLevel, msg)
	os.Exit(1)
}

func (c *Console) Debugf(msg string, v ...interface{}) {
	c.log(DebugLevel, fmt.Sprintf(msg, v...))
}

func (c *Console) Infof(msg string, v ...interface{}) {
	c.log(InfoLevel, fmt.Sprintf(msg, v...))
}

func (c *Console) Warnf(msg string, v ...interface{}) {
	c.log(WarnLevel, fmt.Sprintf(msg, v...))
}

func (c *Console) Errorf(msg string, v ...interface{}) {
	c.log(ErrorLevel, fmt.Sprintf(msg, v...))
}

// Fatalf logs at fatal level and exits with status 1.
func (c *Console) Fatalf(msg string, v ...interface{}) {
	c.log(FatalLevel, fmt.Sprintf(msg, v...))
	os.Exit(1)
}

// Log writes msg at an explicit level. Used where the caller picks the severity.
func (c *Console) Log(level Level, msg string) {
	c.log(level, msg)
}

// Output a string to stdout. Useful for printing primary output of a command, or the output of a subcommand.
// A newline is added to the string.
func (c *Console) Output(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out(), s)
}

// Enabled reports whether messages at level would be written.
func (c *Console) Enabled(level Level) bool {
	return level >= c.Level
}

func (c *Console) log(level Level, msg string) {
	if !c.Enabled(level) {
		return
	}

	prompt := ""
	if c.Color {
		switch level {
		case WarnLevel:
			prompt = aurora.Yellow("⚠ ").String()
		case ErrorLevel, FatalLevel:
			prompt = aurora.Red("ⅹ ").String()
		}
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	header := fmt.Sprintf("%s|%5s| ", now().Format(TimeFormat), level)

	c.mu.Lock()
	defer c.mu.Unlock()

	w := c.err()
	for _, line := range strings.Split(msg, "\n") {
		if c.Color && level == DebugLevel {
			line = aurora.Faint(line).String()
		}
		fmt.Fprintln(w, header+prompt+line)
	}
}

func (c *Console) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Console) err() io.Writer {
	if c.Err == nil {
		return os.Stderr
	}
	return c.Err
}
