package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrNoInput is returned when input ends before an answer was read.
var ErrNoInput = errors.New("no input")

var promptStyle = lipgloss.NewStyle().
	Foreground(AccentColor).
	Bold(true)

// Prompter asks for values the user left out of a command's flags.
type Prompter struct {
	in   *bufio.Reader
	file *os.File
	out  io.Writer
}

// NewPrompter reads from in and writes prompts to out. When in is a
// terminal, passwords are read without echo.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok {
		p.file = f
	}
	return p
}

// Line prompts for one line of text. The trailing newline is removed.
func (p *Prompter) Line(label string) (string, error) {
	_, _ = fmt.Fprint(p.out, promptStyle.Render(label+": "))
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Password prompts for a secret.
func (p *Prompter) Password(label string) (string, error) {
	if p.file == nil || !term.IsTerminal(int(p.file.Fd())) {
		return p.Line(label)
	}
	_, _ = fmt.Fprint(p.out, promptStyle.Render(label+": "))
	b, err := term.ReadPassword(int(p.file.Fd()))
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Confirm asks a yes/no question. Anything other than s, sim, y or yes is
// a no.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Line(question + " [s/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "sim", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
