package reporter

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/roach88/skin/internal/run"
	"github.com/roach88/skin/internal/testable"
)

const (
	successMark = "✓"
	failureMark = "✗"
	ruleGlyph   = "―"

	// DefaultWidth is the summary rule width when the output is not a terminal.
	DefaultWidth = 80
)

// ColorMode selects when the terminal report is coloured.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // colour when writing to a terminal and NO_COLOR is unset
	ColorAlways ColorMode = "always" // always colour
	ColorNever  ColorMode = "never"  // never colour
)

// ValidColorModes lists the accepted --color values.
var ValidColorModes = []string{string(ColorAuto), string(ColorAlways), string(ColorNever)}

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	for _, m := range ValidColorModes {
		if s == m {
			return ColorMode(s), nil
		}
	}
	return "", fmt.Errorf("invalid color mode %q: must be one of %v", s, ValidColorModes)
}

// TerminalOption configures a Terminal reporter.
type TerminalOption func(*terminalConfig)

type terminalConfig struct {
	color   ColorMode
	blink   bool
	verbose bool
	width   int
	clock   run.Clock
}

// WithColor sets the colour mode. The default is ColorNever.
func WithColor(mode ColorMode) TerminalOption {
	return func(c *terminalConfig) { c.color = mode }
}

// WithBlink makes failure marks blink when colour is on.
func WithBlink(blink bool) TerminalOption {
	return func(c *terminalConfig) { c.blink = blink }
}

// WithVerbose prints the diff of every equality failure.
func WithVerbose(verbose bool) TerminalOption {
	return func(c *terminalConfig) { c.verbose = verbose }
}

// WithWidth fixes the summary rule width instead of detecting it.
func WithWidth(width int) TerminalOption {
	return func(c *terminalConfig) { c.width = width }
}

// WithClock sets the clock used to compute the run duration.
func WithClock(clock run.Clock) TerminalOption {
	return func(c *terminalConfig) { c.clock = clock }
}

// Terminal prints a human-readable report:
//
//	config
//	  ✓ config['port'] equals 8080
//	  ✗ config['host'] doesn't equal 'localhost'
//
//	――――――――――――――――――――――――――――――――――――――――
//	Ran 2 tests in 0.004s (successful=1, failed=1, errors=0)
type Terminal struct {
	w            io.Writer
	color        bool
	verbose      bool
	width        int
	clock        run.Clock
	theme        Theme
	firstSubject bool
}

// NewTerminal creates a terminal reporter writing to w.
func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	cfg := terminalConfig{color: ColorNever, clock: run.SystemClock{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	tty, ttyWidth := detectTerminal(w)
	width := cfg.width
	if width <= 0 {
		width = DefaultWidth
		if tty && ttyWidth > 0 {
			width = ttyWidth
		}
	}

	color := cfg.color == ColorAlways || (cfg.color == ColorAuto && tty && os.Getenv("NO_COLOR") == "")

	renderer := lipgloss.NewRenderer(w)
	if color {
		renderer.SetColorProfile(termenv.ANSI256)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Terminal{
		w:            w,
		color:        color,
		verbose:      cfg.verbose,
		width:        width,
		clock:        cfg.clock,
		theme:        NewTheme(renderer, cfg.blink),
		firstSubject: true,
	}
}

// detectTerminal reports whether w is a terminal and its width.
func detectTerminal(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return true, 0
	}
	return true, width
}

func (t *Terminal) OnNewSubject(name string) {
	if !t.firstSubject {
		fmt.Fprintln(t.w)
	}
	t.firstSubject = false
	fmt.Fprintln(t.w, t.paint(t.theme.Subject, name))
}

func (t *Terminal) OnSuccess(message string) {
	fmt.Fprintf(t.w, "  %s %s\n", t.paint(t.theme.Success, successMark), message)
}

func (t *Terminal) OnError(message string) {
	fmt.Fprintf(t.w, "  %s %s\n", t.paint(t.theme.Failure, failureMark), message)
}

// OnDiff prints the diff under the failure it belongs to in verbose mode.
func (t *Terminal) OnDiff(diff string) {
	if !t.verbose {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		fmt.Fprintln(t.w, t.paint(t.theme.Muted, "    "+line))
	}
}

// OnException prints the exception header followed by the traceback,
// outermost frame first.
func (t *Terminal) OnException(kind string, err error, stack []runtime.Frame, tb *testable.Testable) {
	fmt.Fprintf(t.w, "  \"%s\" raised a %s. Traceback:\n", tb.String(), kind)

	var lines []string
	for i := len(stack) - 1; i >= 0; i-- {
		f := stack[i]
		lines = append(lines, fmt.Sprintf("  File \"%s\", line %d, in %s", f.File, f.Line, f.Function))
	}
	lines = append(lines, strings.Split(kind+": "+err.Error(), "\n")...)
	for _, line := range lines {
		fmt.Fprintln(t.w, t.paint(t.theme.Muted, "  "+line))
	}
}

func (t *Terminal) OnTestsFinished(result run.Result) {
	style := t.theme.Passed
	if !result.WasSuccessful() {
		style = t.theme.Failed
	}

	fmt.Fprintln(t.w)
	fmt.Fprintln(t.w, t.rule())
	fmt.Fprintf(t.w, "Ran %d tests in %.3fs %s\n",
		result.Len(),
		result.Elapsed(t.clock.Now()).Seconds(),
		t.paint(style, "("+result.String()+")"),
	)
}

// rule is a horizontal line spanning the report width.
func (t *Terminal) rule() string {
	cond := &runewidth.Condition{EastAsianWidth: false}
	glyph := cond.StringWidth(ruleGlyph)
	if glyph < 1 {
		glyph = 1
	}
	return strings.Repeat(ruleGlyph, t.width/glyph)
}

func (t *Terminal) paint(style lipgloss.Style, s string) string {
	if !t.color {
		return s
	}
	return style.Render(s)
}
