package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level represents the severity of a notice.
type Level int

const (
	// LevelError indicates a failure or error condition.
	LevelError Level = iota
	// LevelWarning indicates a potential issue or important notice.
	LevelWarning
	// LevelInfo indicates general informational messages.
	LevelInfo
	// LevelSuccess indicates successful completion of an operation.
	LevelSuccess
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Icon returns the prefix printed before a notice.
func (l Level) Icon() string {
	switch l {
	case LevelError:
		return "✗"
	case LevelWarning:
		return "!"
	case LevelSuccess:
		return "✓"
	default:
		return "·"
	}
}

func (l Level) paint(s string) string {
	switch l {
	case LevelError:
		return color.RedString(s)
	case LevelWarning:
		return color.YellowString(s)
	case LevelSuccess:
		return color.GreenString(s)
	default:
		return color.CyanString(s)
	}
}

// InitColor configures color output based on flags and terminal detection.
func InitColor(noColor bool) {
	if noColor || !isTTY() {
		color.NoColor = true
	}
}

func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Notice is a single status line with optional indented details.
type Notice struct {
	Level   Level
	Message string
	Details []string
	Err     error
}

// String returns the notice without color.
func (n Notice) String() string {
	message := n.Level.Icon() + " " + n.Message
	if n.Err != nil {
		message += ": " + n.Err.Error()
	}
	return message
}

// Write prints the notice and its details to w.
func (n Notice) Write(w io.Writer) error {
	if _, err := fmt.Fprintln(w, n.Level.paint(n.String())); err != nil {
		return err
	}
	for _, detail := range n.Details {
		if _, err := fmt.Fprintf(w, "   %s\n", detail); err != nil {
			return err
		}
	}
	return nil
}

// Success prints a success line.
func Success(w io.Writer, format string, args ...any) {
	_ = Notice{Level: LevelSuccess, Message: fmt.Sprintf(format, args...)}.Write(w)
}

// Info prints an informational line.
func Info(w io.Writer, format string, args ...any) {
	_ = Notice{Level: LevelInfo, Message: fmt.Sprintf(format, args...)}.Write(w)
}

// Warn prints a warning line.
func Warn(w io.Writer, format string, args ...any) {
	_ = Notice{Level: LevelWarning, Message: fmt.Sprintf(format, args...)}.Write(w)
}
