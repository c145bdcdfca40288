package ui

import (
	"fmt"
	"strings"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type    ResultType
	Title   string   // e.g., "Produto cadastrado com sucesso!"
	Details []Detail // Shown for success and warning
	Error   error    // Shown for failure
	Hints   []string // Troubleshooting lines, shown for failure
	Width   int
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Detail) *Result {
	return &Result{Type: ResultSuccess, Title: title, Details: details, Width: GetTerminalWidth()}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, hints []string) *Result {
	return &Result{Type: ResultFailure, Title: title, Error: err, Hints: hints, Width: GetTerminalWidth()}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, details ...Detail) *Result {
	return &Result{Type: ResultWarning, Title: title, Details: details, Width: GetTerminalWidth()}
}

// SetWidth sets the width for rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := max(r.Width, MinTerminalWidth)

	switch r.Type {
	case ResultFailure:
		lines := []string{"", ErrorTitleStyle.Render(fmt.Sprintf("   %s  FALHA  ─  %s", FailureMarker, r.Title)), ""}
		if r.Error != nil {
			lines = append(lines, ErrorMessageStyle.Render("   Erro: "+r.Error.Error()), "")
		}
		if len(r.Hints) > 0 {
			lines = append(lines, renderHints(r.Hints, width), "")
		}
		return ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))

	case ResultWarning:
		lines := []string{"", WarningTitleStyle.Render(fmt.Sprintf("   %s  AVISO  ─  %s", WarningMarker, r.Title)), ""}
		lines = append(lines, renderDetails(r.Details)...)
		return WarningBoxStyle(width).Render(strings.Join(lines, "\n"))

	default:
		lines := []string{"", SuccessTitleStyle.Render(fmt.Sprintf("   %s  SUCESSO  ─  %s", SuccessMarker, r.Title)), ""}
		lines = append(lines, renderDetails(r.Details)...)
		return SuccessBoxStyle(width).Render(strings.Join(lines, "\n"))
	}
}

func renderDetails(details []Detail) []string {
	lines := make([]string, 0, len(details)+1)
	for _, d := range details {
		lines = append(lines, ResultKeyStyle.Render("   "+d.Key+":")+" "+ResultValueStyle.Render(d.Value))
	}
	return append(lines, "")
}

// renderHints splits multi-line hints, such as api.GetTroubleshootingHint
// output, into one bullet per line.
func renderHints(hints []string, width int) string {
	lines := []string{HintTitleStyle.Render("Sugestões:"), ""}
	for _, h := range hints {
		for _, l := range strings.Split(h, "\n") {
			l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), BulletMarker))
			if l == "" || l == "Sugestões:" {
				continue
			}
			lines = append(lines, HintItemStyle.Render("  "+BulletMarker+" "+l))
		}
	}
	return HintBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
