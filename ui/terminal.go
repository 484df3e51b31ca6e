package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/logrusorgru/aurora"
	runewidth "github.com/mattn/go-runewidth"
	indent "github.com/openconfig/goyang/pkg/indent"
	"golang.org/x/term"
)

const (
	indentUnit      = "  "
	sectionWidth    = 60
	promptPrefix    = "> "
	interpretPrefix = "→ "
)

// TerminalUI writes to stdout and reads from stdin. Colours are on only
// when stdout is a terminal.
type TerminalUI struct {
	indentLevel int
	out         io.Writer
	in          *bufio.Reader
	stdinFd     int
	au          aurora.Aurora
	mu          *sync.Mutex
}

func NewTerminalUI() *TerminalUI {
	colorsEnabled := term.IsTerminal(int(os.Stdout.Fd()))
	return &TerminalUI{
		out:     os.Stdout,
		in:      bufio.NewReader(os.Stdin),
		stdinFd: int(os.Stdin.Fd()),
		au:      aurora.NewAurora(colorsEnabled),
		mu:      &sync.Mutex{},
	}
}

func (u *TerminalUI) prefix() string {
	return strings.Repeat(indentUnit, u.indentLevel)
}

func (u *TerminalUI) writeLine(line string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, "%s%s\n", u.prefix(), line)
}

func (u *TerminalUI) printf(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

func (u *TerminalUI) Style(t StyledText) string {
	switch t.Severity {
	case SeveritySuccess:
		return u.au.Green(t.Text).String()
	case SeverityWarn:
		return u.au.Yellow(t.Text).String()
	case SeverityError:
		return u.au.Red(t.Text).String()
	case SeverityCritical:
		return u.au.Bold(t.Text).String()
	default: // SeverityInfo
		return t.Text
	}
}

func (u *TerminalUI) Info(format string, args ...any) {
	u.writeLine(fmt.Sprintf(format, args...))
}

func (u *TerminalUI) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.writeLine(u.au.Green(msg).String())
}

func (u *TerminalUI) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.writeLine(u.au.Yellow(msg).String())
}

func (u *TerminalUI) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.writeLine(u.au.Red(msg).String())
}

func (u *TerminalUI) Critical(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.writeLine(u.au.Bold(msg).String())
}

// Section prints title centred in a rule of '=' sectionWidth columns
// wide, with a blank line on each side. Titles too long for the rule
// still get three bars on each side.
func (u *TerminalUI) Section(title string) {
	titled := " " + title + " "
	bars := sectionWidth - len(titled)
	if bars < 6 {
		bars = 6
	}
	left := bars / 2
	right := bars - left
	line := strings.Repeat("=", left) + titled + strings.Repeat("=", right)
	u.printf("\n%s%s\n\n", u.prefix(), line)
}

func (u *TerminalUI) Interpret(value string) {
	u.printf("%s%s%s%s\n",
		u.prefix(),
		indentUnit,
		interpretPrefix,
		u.au.Cyan(value).String(),
	)
}

// Ask returns "" on EOF so a closed stdin cannot spin forever on a
// validator that rejects empty input.
func (u *TerminalUI) Ask(validate func(string) error) string {
	for {
		u.printf("%s%s", u.prefix(), promptPrefix)
		text, err := u.in.ReadString('\n')
		input := strings.TrimRight(text, "\r\n")
		if err != nil && input == "" {
			return ""
		}
		if validate == nil {
			return input
		}
		if err := validate(input); err == nil {
			return input
		} else {
			u.writeLine(u.au.Red(err.Error()).String())
		}
	}
}

// AskSecret falls back to a plain line read when stdin is not a terminal.
func (u *TerminalUI) AskSecret(prompt string) (string, bool) {
	u.printf("%s%s: ", u.prefix(), prompt)
	var secret string
	if term.IsTerminal(u.stdinFd) {
		b, err := term.ReadPassword(u.stdinFd)
		u.printf("\n")
		if err != nil {
			return "", false
		}
		secret = string(b)
	} else {
		text, err := u.in.ReadString('\n')
		secret = strings.TrimRight(text, "\r\n")
		if err != nil && secret == "" {
			return "", false
		}
	}
	if secret == "" {
		return "", false
	}
	return secret, true
}

// Confirm accepts the default on an empty answer.
func (u *TerminalUI) Confirm(prompt string, defaultYes bool) bool {
	options := "[Y/n]"
	if !defaultYes {
		options = "[y/N]"
	}
	u.Info("%s %s", prompt, options)
	input := strings.ToLower(strings.TrimSpace(u.Ask(func(s string) error {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || s == "y" || s == "n" {
			return nil
		}
		return fmt.Errorf("please enter y or n")
	})))
	if input == "" {
		return defaultYes
	}
	return input == "y"
}

// Choose returns -1 when stdin is closed.
func (u *TerminalUI) Choose(prompt string, options []string) int {
	for i, opt := range options {
		u.Info("%d. %s", i+1, opt)
	}
	u.Info("%s [1-%d]", prompt, len(options))
	input := u.Ask(func(s string) error {
		idx, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || idx < 1 || idx > len(options) {
			return fmt.Errorf("please enter a number between 1 and %d", len(options))
		}
		return nil
	})
	idx, _ := strconv.Atoi(strings.TrimSpace(input))
	return idx - 1
}

// KeyValue prints one row per line with the labels padded to the
// longest one, so the values line up in a single column.
func (u *TerminalUI) KeyValue(rows [][2]string) {
	if len(rows) == 0 {
		return
	}
	maxLabel := 0
	for _, r := range rows {
		if len(r[0]) > maxLabel {
			maxLabel = len(r[0])
		}
	}
	p := u.prefix()
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, r := range rows {
		fmt.Fprintf(u.out, "%s%-*s  %s\n", p, maxLabel, r[0], r[1])
	}
}

// Table draws rows inside a box with a header row. It is
// TableWithGroups with a single group.
func (u *TerminalUI) Table(headers []string, rows [][]string) {
	u.TableWithGroups(headers, [][][]string{rows})
}

// TableWithGroups draws one box for all groups and puts a rule between
// consecutive groups. Widths are measured on the visible text, ignoring
// colour codes and counting wide runes twice, over every group at once so
// that the columns of all groups line up. Short rows are padded with
// empty cells. Without headers the column count is taken from the
// widest row.
func (u *TerminalUI) TableWithGroups(headers []string, groups [][][]string) {
	if len(groups) == 0 {
		return
	}
	ncols := len(headers)
	if ncols == 0 {
		for _, g := range groups {
			for _, r := range g {
				if len(r) > ncols {
					ncols = len(r)
				}
			}
		}
	}

	cellWidth := func(s string) int {
		return runewidth.StringWidth(ansi.Strip(s))
	}

	widths := make([]int, ncols)
	for i, h := range headers {
		widths[i] = cellWidth(h)
	}
	for _, group := range groups {
		for _, row := range group {
			for i := 0; i < ncols && i < len(row); i++ {
				if w := cellWidth(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	pad := func(s string, w int) string {
		visible := cellWidth(s)
		if visible >= w {
			return s
		}
		return s + strings.Repeat(" ", w-visible)
	}

	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	border := func(s string) string { return borderStyle.Render(s) }

	topParts := make([]string, ncols)
	midParts := make([]string, ncols)
	botParts := make([]string, ncols)
	for i, w := range widths {
		dash := strings.Repeat("─", w+2)
		topParts[i] = dash
		midParts[i] = dash
		botParts[i] = dash
	}
	topBorder := border("┌" + strings.Join(topParts, "┬") + "┐")
	midBorder := border("├" + strings.Join(midParts, "┼") + "┤")
	botBorder := border("└" + strings.Join(botParts, "┴") + "┘")
	headerSep := border("├" + strings.Join(midParts, "┼") + "┤")

	renderRow := func(cells []string) string {
		parts := make([]string, ncols)
		for i := 0; i < ncols; i++ {
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			parts[i] = " " + pad(val, widths[i]) + " "
		}
		return border("│") + strings.Join(parts, border("│")) + border("│")
	}

	p := u.prefix()
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, "%s%s\n", p, topBorder)
	if len(headers) > 0 {
		fmt.Fprintf(u.out, "%s%s\n", p, renderRow(headers))
		fmt.Fprintf(u.out, "%s%s\n", p, headerSep)
	}
	for gi, group := range groups {
		if gi > 0 {
			fmt.Fprintf(u.out, "%s%s\n", p, midBorder)
		}
		for _, row := range group {
			fmt.Fprintf(u.out, "%s%s\n", p, renderRow(row))
		}
	}
	fmt.Fprintf(u.out, "%s%s\n", p, botBorder)
}

// Spinner prints msg once instead of animating when stdout is not a
// terminal.
func (u *TerminalUI) Spinner(msg string) func() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		u.writeLine(msg)
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(u.out))
	s.Suffix = " " + msg
	s.Start()
	return func() {
		s.Stop()
		u.printf("\n")
	}
}

// Indent returns a UI that shares this one's streams and lock but
// prints everything one indentUnit further right. The receiver is left
// as it was.
func (u *TerminalUI) Indent() UI {
	cp := *u
	cp.indentLevel++
	return &cp
}

// Writer exposes the output stream for callers that render on their
// own. Below the top level every line written through it gets the
// current indent.
func (u *TerminalUI) Writer() io.Writer {
	if u.indentLevel == 0 {
		return u.out
	}
	return indent.NewWriter(u.out, u.prefix())
}
