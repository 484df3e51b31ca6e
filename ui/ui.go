package ui

import (
	"encoding/json"
	"io"
)

// Severity controls how a piece of inline text is emphasised.
type Severity uint8

const (
	SeverityInfo     Severity = iota // plain
	SeveritySuccess                  // green
	SeverityWarn                     // yellow
	SeverityError                    // red
	SeverityCritical                 // bold
)

// StyledText is a plain string annotated with a Severity. It marshals to
// JSON as the bare string.
type StyledText struct {
	Text     string
	Severity Severity
}

func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

func Plain(text string) StyledText    { return StyledText{text, SeverityInfo} }
func Good(text string) StyledText     { return StyledText{text, SeveritySuccess} }
func Pending(text string) StyledText  { return StyledText{text, SeverityWarn} }
func Bad(text string) StyledText      { return StyledText{text, SeverityError} }
func Emphasis(text string) StyledText { return StyledText{text, SeverityCritical} }

// UI is every interaction the shell and the commands have with the user.
// TerminalUI talks to stdin/stdout; RecordingUI serves scripted input to
// tests and records all output.
//
// Implementations must be safe for concurrent use: the session watcher
// reports account changes from its own goroutine.
type UI interface {
	// Style colours t by its severity. Colour-free implementations return
	// t.Text unchanged.
	Style(t StyledText) string

	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	// Error reports a failure. It does not exit.
	Error(format string, args ...any)
	// Critical is for data the user should read before or right after
	// signing, such as tx hashes.
	Critical(format string, args ...any)

	// Section prints a "===== title =====" separator.
	Section(title string)

	// KeyValue prints label / value rows with the values aligned.
	KeyValue(rows [][2]string)

	// Table prints a bordered table with an optional header row.
	Table(headers []string, rows [][]string)

	// TableWithGroups is Table with a divider between groups of rows.
	TableWithGroups(headers []string, groups [][][]string)

	// Spinner shows msg until the returned stop func is called.
	Spinner(msg string) func()

	// Interpret echoes back how the last input was understood.
	Interpret(value string)

	// Ask reads one line after a "> " prompt, repeating until validate
	// returns nil. A nil validate accepts anything.
	Ask(validate func(string) error) string

	// AskSecret reads one line without echoing it. The bool is false when
	// the user aborted (EOF or an empty answer).
	AskSecret(prompt string) (string, bool)

	Confirm(prompt string, defaultYes bool) bool

	// Choose lists options numbered from 1 and returns the 0-based index
	// picked.
	Choose(prompt string, options []string) int

	// Indent returns a child UI one level deeper that shares the parent's
	// reader and writer.
	Indent() UI

	// Writer returns an io.Writer that indents every line it is given.
	Writer() io.Writer
}
