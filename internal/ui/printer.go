package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mirage/artesanato/internal/catalog"
	"github.com/mirage/artesanato/internal/form"
)

// Printer writes styled output for the direct commands.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the width this printer renders at
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = clampWidth(width)
	return p
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Detail) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Detail) {
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintError prints an error result box with troubleshooting hints
func (p *Printer) PrintError(title string, err error, hints ...string) {
	p.Println(NewFailureResult(title, err, hints).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Detail) {
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintFieldErrors lists validation messages in the order the form declares
// its fields. Messages for names missing from fields are listed last.
func (p *Printer) PrintFieldErrors(fields []form.Field, errs form.Errors) {
	if errs.Valid() {
		return
	}
	p.Println(ErrorTitleStyle.Render(fmt.Sprintf("%s Corrija os campos abaixo:", FailureMarker)))

	shown := make(map[form.Name]bool, len(errs))
	for _, f := range fields {
		if msg, ok := errs[f.Name]; ok {
			p.Println("  " + FieldLabelStyle.Render(f.Label) + ": " + ErrorMessageStyle.Render(msg))
			shown[f.Name] = true
		}
	}
	for _, name := range errs.Names() {
		if !shown[name] {
			p.Println("  " + FieldLabelStyle.Render(string(name)) + ": " + ErrorMessageStyle.Render(errs[name]))
		}
	}
}

// PrintListing prints product cards, or the empty-listing message.
func (p *Printer) PrintListing(entries []catalog.Entry) {
	if len(entries) == 0 {
		p.Println(MutedStyle.Render(catalog.EmptyMessage))
		return
	}
	for _, e := range entries {
		p.Println(RenderProductCard(e, p.width))
	}
}

// RenderProductCard renders one listing entry: name, price, description.
func RenderProductCard(e catalog.Entry, width int) string {
	lines := []string{
		ProductNameStyle.Render(e.Nome),
		PriceStyle.Render(e.Preco),
	}
	if e.Descricao != "" {
		lines = append(lines,
			MutedStyle.Render("Descrição:"),
			lipgloss.NewStyle().PaddingLeft(2).Width(max(width-8, 20)).Render(e.Descricao),
		)
	}
	return CardStyle(width).Render(strings.Join(lines, "\n"))
}
