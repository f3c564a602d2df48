package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// LogWriter is an io.Writer that sends each written line as a DebugLogMsg
// to a Bubble Tea program. Use it as the output for a log.Logger.
type LogWriter struct {
	program *tea.Program
}

// NewLogWriter creates a LogWriter that sends debug lines to the given program.
func NewLogWriter(p *tea.Program) *LogWriter {
	return &LogWriter{program: p}
}

// Write implements io.Writer. Each call parses the log line into structured
// fields and sends a DebugLogMsg. The send is done in a goroutine to avoid
// deadlocking when called from inside a Bubble Tea command function.
func (w *LogWriter) Write(b []byte) (int, error) {
	line := strings.TrimRight(string(b), "\n")
	entry := parseLine(line)
	go w.program.Send(DebugLogMsg{Entry: entry})
	return len(b), nil
}

// parseLine extracts time, category, and message from a log line.
// Expected format: "[DEBUG] HH:MM:SS.micros message text"
// Category is the message prefix before the first colon when it names a
// known component (e.g. "generate", "player", "store").
func parseLine(line string) DebugEntry {
	entry := DebugEntry{
		Time:     "",
		Category: "debug",
		Message:  line,
	}

	msg := strings.TrimPrefix(line, "[DEBUG] ")

	// Extract timestamp (HH:MM:SS.micros or HH:MM:SS)
	if len(msg) >= 8 && msg[2] == ':' && msg[5] == ':' {
		spaceIdx := strings.IndexByte(msg, ' ')
		if spaceIdx > 0 {
			entry.Time = msg[:spaceIdx]
			msg = msg[spaceIdx+1:]
		}
	}

	entry.Category, entry.Message = inferCategory(msg)
	return entry
}

var knownCategories = map[string]bool{
	"generate":  true,
	"player":    true,
	"store":     true,
	"clipboard": true,
	"export":    true,
	"error":     true,
}

// inferCategory determines the log category from the message prefix.
func inferCategory(msg string) (category, message string) {
	prefix, _, found := strings.Cut(msg, ":")
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if found && knownCategories[prefix] {
		return prefix, msg
	}
	return "debug", msg
}
