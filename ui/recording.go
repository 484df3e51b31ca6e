package ui

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Entry records a single UI method call for test assertions.
type Entry struct {
	Method string
	Value  string // the formatted string passed to the method (or input for Ask)
}

// sharedState is shared by a RecordingUI and every child from Indent, so
// nested prompts advance the same input cursor.
type sharedState struct {
	mu      sync.Mutex
	entries []Entry
	inputs  []string // scripted responses served in order to Ask/Confirm/Choose
	nextIdx int
	buf     *bytes.Buffer
}

// RecordingUI is the UI used by tests. Output is kept as a list of
// entries; input is served from the scripted answers given to
// NewRecordingUI. Running out of answers panics.
type RecordingUI struct {
	shared      *sharedState
	indentLevel int
}

func NewRecordingUI(scriptedInputs ...string) *RecordingUI {
	return &RecordingUI{
		shared: &sharedState{
			inputs: scriptedInputs,
			buf:    &bytes.Buffer{},
		},
	}
}

func (r *RecordingUI) record(method, value string) {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	r.shared.entries = append(r.shared.entries, Entry{
		Method: method,
		Value:  value,
	})
}

func (r *RecordingUI) nextInput(caller string) string {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	if r.shared.nextIdx >= len(r.shared.inputs) {
		panic(fmt.Sprintf(
			"RecordingUI: no scripted input left for %s (consumed %d so far)",
			caller, r.shared.nextIdx,
		))
	}
	input := r.shared.inputs[r.shared.nextIdx]
	r.shared.nextIdx++
	return input
}

func (r *RecordingUI) Style(t StyledText) string {
	return t.Text
}

func (r *RecordingUI) Info(format string, args ...any) {
	r.record("Info", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Success(format string, args ...any) {
	r.record("Success", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Warn(format string, args ...any) {
	r.record("Warn", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Error(format string, args ...any) {
	r.record("Error", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Critical(format string, args ...any) {
	r.record("Critical", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Section(title string) {
	r.record("Section", title)
}

// KeyValue records one "label: value" entry per row.
func (r *RecordingUI) KeyValue(rows [][2]string) {
	for _, row := range rows {
		r.record("KeyValue", row[0]+": "+row[1])
	}
}

// Table records one entry per row with the cells joined by " | ".
func (r *RecordingUI) Table(headers []string, rows [][]string) {
	r.TableWithGroups(headers, [][][]string{rows})
}

func (r *RecordingUI) TableWithGroups(headers []string, groups [][][]string) {
	if len(headers) > 0 {
		r.record("TableHeader", strings.Join(headers, " | "))
	}
	for _, group := range groups {
		for _, row := range group {
			r.record("Table", strings.Join(row, " | "))
		}
	}
}

func (r *RecordingUI) Spinner(msg string) func() {
	r.record("Spinner", msg)
	return func() {}
}

func (r *RecordingUI) TableRows() []string {
	return r.methodValues("Table")
}

func (r *RecordingUI) Interpret(value string) {
	r.record("Interpret", value)
}

// Ask panics when the scripted input fails validate, since there is
// nobody to correct it.
func (r *RecordingUI) Ask(validate func(string) error) string {
	input := r.nextInput("Ask")
	r.record("Ask", input)
	if validate != nil {
		if err := validate(input); err != nil {
			panic(fmt.Sprintf(
				"RecordingUI: scripted input %q failed validation in Ask: %s",
				input, err,
			))
		}
	}
	return input
}

// AskSecret records the prompt only, never the secret. An empty scripted
// answer means the user aborted.
func (r *RecordingUI) AskSecret(prompt string) (string, bool) {
	r.record("AskSecret", prompt)
	input := r.nextInput("AskSecret")
	return input, input != ""
}

// Confirm takes "y"/"yes" as true and "" as defaultYes.
func (r *RecordingUI) Confirm(prompt string, defaultYes bool) bool {
	r.record("Confirm", prompt)
	input := strings.ToLower(strings.TrimSpace(r.nextInput("Confirm")))
	if input == "" {
		return defaultYes
	}
	return input == "y" || input == "yes"
}

// Choose accepts a 1-based number or the option text, case-insensitive.
func (r *RecordingUI) Choose(prompt string, options []string) int {
	r.record("Choose", prompt)
	input := r.nextInput("Choose")
	if idx, err := strconv.Atoi(strings.TrimSpace(input)); err == nil {
		if idx >= 1 && idx <= len(options) {
			return idx - 1
		}
	}
	for i, opt := range options {
		if strings.EqualFold(input, opt) {
			return i
		}
	}
	panic(fmt.Sprintf(
		"RecordingUI: scripted input %q does not match any option in Choose(%q, %v)",
		input, prompt, options,
	))
}

func (r *RecordingUI) Indent() UI {
	return &RecordingUI{
		shared:      r.shared,
		indentLevel: r.indentLevel + 1,
	}
}

// Writer ignores indentation.
func (r *RecordingUI) Writer() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		r.shared.mu.Lock()
		defer r.shared.mu.Unlock()
		return r.shared.buf.Write(p)
	})
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

// Entries returns a copy of all recorded calls in order.
func (r *RecordingUI) Entries() []Entry {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	return append([]Entry(nil), r.shared.entries...)
}

func (r *RecordingUI) InfoMessages() []string {
	return r.methodValues("Info")
}

func (r *RecordingUI) ErrorMessages() []string {
	return r.methodValues("Error")
}

func (r *RecordingUI) CriticalMessages() []string {
	return r.methodValues("Critical")
}

func (r *RecordingUI) SuccessMessages() []string {
	return r.methodValues("Success")
}

func (r *RecordingUI) WarnMessages() []string {
	return r.methodValues("Warn")
}

// Remaining is the number of scripted inputs not consumed yet.
func (r *RecordingUI) Remaining() int {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	return len(r.shared.inputs) - r.shared.nextIdx
}

// HasMessage reports whether any entry contains substr, ignoring case.
func (r *RecordingUI) HasMessage(substr string) bool {
	lower := strings.ToLower(substr)
	for _, e := range r.Entries() {
		if strings.Contains(strings.ToLower(e.Value), lower) {
			return true
		}
	}
	return false
}

func (r *RecordingUI) Output() string {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	return r.shared.buf.String()
}

func (r *RecordingUI) methodValues(method string) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Method == method {
			out = append(out, e.Value)
		}
	}
	return out
}
