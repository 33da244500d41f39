// Package anchor prints log-like lines while keeping a set of status
// lines ("lots") pinned at the bottom of an interactive terminal.
package anchor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"atomicgo.dev/cursor"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type Color = color.Attribute

const (
	Red    = color.FgRed
	Green  = color.FgGreen
	Yellow = color.FgYellow
	Blue   = color.FgBlue
	Cyan   = color.FgCyan
)

type Window struct {
	mu          sync.Mutex
	out         io.Writer
	in          *bufio.Reader
	color       *color.Color
	lots        []*Lot
	interactive bool
}

type Lot struct {
	window *Window
	name   string
	text   string
}

// New returns a window writing on stdout and reading from stdin.
func New(attribute Color) *Window {
	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return NewWithIO(os.Stdout, os.Stdin, attribute, interactive)
}

// NewWithIO returns a window bound to the given streams. Pinned lots
// are only redrawn in place when interactive is set.
func NewWithIO(out io.Writer, in io.Reader, attribute Color, interactive bool) *Window {
	return &Window{
		out:         out,
		in:          bufio.NewReader(in),
		color:       color.New(attribute, color.Bold),
		interactive: interactive,
	}
}

func (window *Window) Printf(format string, a ...any) {
	window.mu.Lock()
	defer window.mu.Unlock()
	window.clearLots()
	fmt.Fprintf(window.out, strings.TrimSuffix(format, "\n")+"\n", a...)
	window.drawLots()
}

// AnchorPrintf prints a line prefixed by the window's colored marker.
func (window *Window) AnchorPrintf(format string, a ...any) {
	window.Printf(window.color.Sprint("▸ ")+format, a...)
}

// Reads prints prompt and returns the trimmed line typed by the user.
func (window *Window) Reads(prompt string, a ...any) string {
	window.mu.Lock()
	defer window.mu.Unlock()
	window.clearLots()
	fmt.Fprintf(window.out, window.color.Sprint("? ")+prompt+" ", a...)
	line, _ := window.in.ReadString('\n')
	window.drawLots()
	return strings.TrimSpace(line)
}

// Lot returns the status line with the given name, creating it if needed.
func (window *Window) Lot(name string) *Lot {
	window.mu.Lock()
	defer window.mu.Unlock()
	for _, lot := range window.lots {
		if lot.name == name {
			return lot
		}
	}
	lot := &Lot{window: window, name: name}
	window.clearLots()
	window.lots = append(window.lots, lot)
	window.drawLots()
	return lot
}

func (window *Window) Interactive() bool {
	return window.interactive
}

func (lot *Lot) Printf(format string, a ...any) {
	lot.window.mu.Lock()
	defer lot.window.mu.Unlock()
	lot.window.clearLots()
	lot.text = fmt.Sprintf(format, a...)
	lot.window.drawLots()
}

func (lot *Lot) Print(a ...any) {
	lot.Printf("%s", fmt.Sprint(a...))
}

func (lot *Lot) Wipe() {
	lot.Printf("")
}

// Close unpins the lot, printing its final state as a regular line.
func (lot *Lot) Close(a ...any) {
	lot.window.mu.Lock()
	defer lot.window.mu.Unlock()
	lot.window.clearLots()
	for i, other := range lot.window.lots {
		if other == lot {
			lot.window.lots = append(lot.window.lots[:i], lot.window.lots[i+1:]...)
			break
		}
	}
	if len(a) > 0 {
		lot.text = fmt.Sprint(a...)
	}
	if lot.text != "" {
		fmt.Fprintf(lot.window.out, "%s %s\n", lot.window.color.Sprint(lot.name), lot.text)
	}
	lot.window.drawLots()
}

// Release unpins the lot without printing anything.
func (lot *Lot) Release() {
	lot.Close("")
}

func (window *Window) clearLots() {
	if window.interactive && len(window.lots) > 0 {
		cursor.ClearLinesUp(len(window.lots))
		cursor.StartOfLine()
	}
}

func (window *Window) drawLots() {
	if !window.interactive {
		return
	}
	for _, lot := range window.lots {
		fmt.Fprintf(window.out, "%s %s\n", window.color.Sprint(lot.name), lot.text)
	}
}
