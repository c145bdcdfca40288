package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mirage/artesanato/internal/form"
	"github.com/mirage/artesanato/internal/logging"
	"github.com/mirage/artesanato/internal/submit"
	"github.com/mirage/artesanato/internal/ui"
)

// eventMsg carries a coordinator event into the program.
type eventMsg struct {
	ev submit.Event
}

// submitDoneMsg is returned by the command running Coordinator.Submit.
type submitDoneMsg struct {
	instance uuid.UUID
	result   submit.Result
	err      error
}

// formKeyMap defines key bindings for the form screens
type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
	Option key.Binding
	Remove key.Binding
	Submit key.Binding
	Back   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Toggle, k.Submit, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Option},
		{k.Toggle, k.Remove, k.Submit, k.Back},
	}
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "próximo"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "anterior"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("espaço", "marcar"),
		),
		Option: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "opção"),
		),
		Remove: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "remover foto"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "enviar"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "voltar"),
		),
	}
}

// formScreen is the part of a form model the application needs, whatever
// the snapshot type.
type formScreen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	HelpView() string
	SetSize(width, height int)
	Instance() uuid.UUID
	Close()
}

// FormModel edits one form instance and submits it through its own
// coordinator. FormModel is used through a pointer: it owns the
// coordinator and the photo previews, which Close releases.
type FormModel[T form.Snapshot[T]] struct {
	Title string

	state *form.State[T]
	coord *submit.Coordinator
	build func(T) submit.Submission
	ctx   context.Context

	fields      []form.Field
	inputs      map[form.Name]*textinput.Model
	cursors     map[form.Name]int
	photoInput  textinput.Model
	photoCursor int
	focus       int

	outcome submit.Outcome
	lastSeq uint64
	notice  string
	closed  bool

	Spinner spinner.Model
	Help    help.Model
	Keys    formKeyMap
	Width   int
	Height  int
}

// NewFormModel wires state and coord into a screen. build turns the
// snapshot captured at submit time into the attempt's work.
func NewFormModel[T form.Snapshot[T]](ctx context.Context, title string, state *form.State[T], coord *submit.Coordinator, build func(T) submit.Submission) *FormModel[T] {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	photo := textinput.New()
	photo.Placeholder = "/caminho/para/foto.jpg"
	photo.Prompt = "  + "
	photo.Width = 48

	m := &FormModel[T]{
		Title:      title,
		state:      state,
		coord:      coord,
		build:      build,
		ctx:        ctx,
		fields:     state.Fields(),
		inputs:     make(map[form.Name]*textinput.Model),
		cursors:    make(map[form.Name]int),
		photoInput: photo,
		Spinner:    s,
		Help:       help.New(),
		Keys:       newFormKeyMap(),
	}

	for _, f := range m.fields {
		switch {
		case f.Kind == form.KindSelect:
			m.cursors[f.Name] = slices.Index(f.Options, state.Snapshot().Text(f.Name))
		case f.Kind == form.KindMultiSelect:
			m.cursors[f.Name] = 0
		case f.Kind.IsText():
			in := textinput.New()
			in.Placeholder = f.Placeholder
			in.Prompt = "  > "
			in.Width = 48
			if f.CharLimit > 0 {
				in.CharLimit = f.CharLimit
			}
			if f.Kind == form.KindPassword {
				in.EchoMode = textinput.EchoPassword
				in.EchoCharacter = '•'
			}
			in.SetValue(state.Display(f.Name))
			m.inputs[f.Name] = &in
		}
	}
	m.applyFocus()
	return m
}

// Init focuses the first field.
func (m *FormModel[T]) Init() tea.Cmd {
	return textinput.Blink
}

// Instance returns the identity of the form instance.
func (m *FormModel[T]) Instance() uuid.UUID { return m.coord.ID() }

// State exposes the form's state container.
func (m *FormModel[T]) State() *form.State[T] { return m.state }

// Outcome returns the outcome currently shown.
func (m *FormModel[T]) Outcome() submit.Outcome { return m.outcome }

// SetSize records the terminal size.
func (m *FormModel[T]) SetSize(width, height int) {
	m.Width = width
	m.Height = height
}

// Close tears the instance down: pending timers are cancelled, an in-flight
// request is abandoned, and every preview is released.
func (m *FormModel[T]) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.coord.Close()
	if err := m.state.Close(); err != nil {
		logging.Warn("Failed to release previews", zap.String("form", m.Title), zap.Error(err))
	}
}

func (m *FormModel[T]) busy() bool {
	return m.outcome.Status == submit.Validating || m.outcome.Status == submit.Submitting
}

// Update applies one message.
func (m *FormModel[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case eventMsg:
		return m.applyEvent(msg.ev)

	case submitDoneMsg:
		if msg.instance != m.coord.ID() {
			return nil
		}
		switch {
		case errors.Is(msg.err, submit.ErrInFlight):
			m.notice = "Aguarde: o envio anterior ainda não terminou."
			m.outcome = m.coord.Outcome()
		case errors.Is(msg.err, submit.ErrClosed):
			return nil
		}
		if !msg.result.Errors.Valid() {
			// Errors belong to the submitted snapshot, not to later edits.
			m.state.SetErrors(msg.result.Errors)
			m.focusFirstError()
		}
		return nil

	case spinner.TickMsg:
		if !m.busy() {
			return nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return cmd
	}
	return nil
}

func (m *FormModel[T]) applyEvent(ev submit.Event) tea.Cmd {
	if m.closed || ev.Instance != m.coord.ID() || ev.Seq <= m.lastSeq {
		return nil
	}
	m.lastSeq = ev.Seq

	if ev.Kind == submit.EventRedirect {
		return func() tea.Msg { return screenTransitionMsg{screen: Screen(ev.Redirect)} }
	}
	m.outcome = ev.Outcome
	return nil
}

func (m *FormModel[T]) updateKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.Keys.Back):
		return func() tea.Msg { return goBackMsg{} }
	case key.Matches(msg, m.Keys.Submit):
		return m.submit()
	case key.Matches(msg, m.Keys.Next):
		m.move(1)
		return nil
	case key.Matches(msg, m.Keys.Prev):
		m.move(-1)
		return nil
	}

	if m.focus == len(m.fields) {
		if msg.String() == "enter" || msg.String() == " " {
			return m.submit()
		}
		return nil
	}

	f := m.fields[m.focus]
	switch f.Kind {
	case form.KindCheckbox:
		if msg.String() == " " || msg.String() == "enter" {
			m.report(m.state.OnCheckboxChange(f.Name, !m.state.Snapshot().Checked(f.Name)))
		}
		return nil

	case form.KindSelect:
		switch msg.String() {
		case "left":
			m.cycleOption(f, -1)
		case "right", " ":
			m.cycleOption(f, 1)
		case "enter":
			m.move(1)
		}
		return nil

	case form.KindMultiSelect:
		switch msg.String() {
		case "left":
			m.cursors[f.Name] = (m.cursors[f.Name] - 1 + len(f.Options)) % len(f.Options)
		case "right":
			m.cursors[f.Name] = (m.cursors[f.Name] + 1) % len(f.Options)
		case " ", "enter":
			opt := f.Options[m.cursors[f.Name]]
			checked := !slices.Contains(m.state.Snapshot().Selected(f.Name), opt)
			m.report(m.state.OnMultiSelectToggle(f.Name, opt, checked))
		}
		return nil

	case form.KindFiles:
		return m.updatePhotos(msg)
	}

	if msg.String() == "enter" {
		m.move(1)
		return nil
	}
	return m.updateText(f, msg)
}

func (m *FormModel[T]) updateText(f form.Field, msg tea.KeyMsg) tea.Cmd {
	in := m.inputs[f.Name]
	if in == nil {
		return nil
	}
	before := in.Value()
	updated, cmd := in.Update(msg)
	*in = updated

	raw := in.Value()
	if raw == before {
		return cmd
	}
	if _, err := m.state.OnFieldChange(f.Name, raw); err != nil {
		m.notice = err.Error()
	}
	if shown := m.state.Display(f.Name); shown != raw {
		in.SetValue(shown)
		in.CursorEnd()
	}
	return cmd
}

func (m *FormModel[T]) updatePhotos(msg tea.KeyMsg) tea.Cmd {
	photos := m.photos()
	switch {
	case key.Matches(msg, m.Keys.Remove):
		if len(photos) == 0 {
			return nil
		}
		m.report(m.state.OnFileRemove(m.photoCursor))
		m.photoCursor = min(m.photoCursor, max(len(m.photos())-1, 0))
		return nil
	case msg.String() == "enter":
		path := strings.TrimSpace(m.photoInput.Value())
		if path == "" {
			m.move(1)
			return nil
		}
		if _, err := m.state.OnFileAdd(path); err != nil {
			m.notice = fmt.Sprintf("Não foi possível adicionar a foto: %v", err)
			return nil
		}
		m.notice = ""
		m.photoInput.SetValue("")
		m.photoCursor = len(m.photos()) - 1
		return nil
	case msg.String() == "left" && m.photoInput.Value() == "":
		if m.photoCursor > 0 {
			m.photoCursor--
		}
		return nil
	case msg.String() == "right" && m.photoInput.Value() == "":
		if m.photoCursor < len(photos)-1 {
			m.photoCursor++
		}
		return nil
	}

	var cmd tea.Cmd
	m.photoInput, cmd = m.photoInput.Update(msg)
	return cmd
}

func (m *FormModel[T]) photos() []form.Photo {
	if ps, ok := any(m.state.Snapshot()).(form.PhotoSnapshot[T]); ok {
		return ps.Photos()
	}
	return nil
}

func (m *FormModel[T]) cycleOption(f form.Field, step int) {
	if len(f.Options) == 0 {
		return
	}
	i := m.cursors[f.Name] + step
	switch {
	case i < 0:
		i = len(f.Options) - 1
	case i >= len(f.Options):
		i = 0
	}
	m.cursors[f.Name] = i
	m.report(m.state.OnFieldChange(f.Name, f.Options[i]))
}

func (m *FormModel[T]) report(_ T, err error) {
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.notice = ""
}

// submit starts an attempt on the current snapshot. The snapshot is
// captured here; edits made while the request is out do not affect it.
func (m *FormModel[T]) submit() tea.Cmd {
	if m.busy() || m.closed {
		return nil
	}
	m.state.ClearErrors()
	m.notice = ""
	// Shown until the coordinator's own events arrive.
	m.outcome = submit.Outcome{Status: submit.Validating}

	sub := m.build(m.state.Snapshot())
	coord, ctx := m.coord, m.ctx
	return tea.Batch(m.Spinner.Tick, func() tea.Msg {
		res, err := coord.Submit(ctx, sub)
		return submitDoneMsg{instance: coord.ID(), result: res, err: err}
	})
}

func (m *FormModel[T]) move(step int) {
	n := len(m.fields) + 1
	m.focus = (m.focus + step + n) % n
	m.applyFocus()
}

func (m *FormModel[T]) focusFirstError() {
	errs := m.state.Errors()
	for i, f := range m.fields {
		if errs.Has(f.Name) {
			m.focus = i
			m.applyFocus()
			return
		}
	}
}

func (m *FormModel[T]) applyFocus() {
	for i, f := range m.fields {
		if in := m.inputs[f.Name]; in != nil {
			if i == m.focus {
				in.Focus()
			} else {
				in.Blur()
			}
		}
		if f.Kind == form.KindFiles {
			if i == m.focus {
				m.photoInput.Focus()
			} else {
				m.photoInput.Blur()
			}
		}
	}
}

// View renders the form content.
func (m *FormModel[T]) View() string {
	var b strings.Builder
	b.WriteString(RenderTitle(m.Title))
	b.WriteString("\n")

	if banner := m.renderBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n\n")
	}

	errs := m.state.Errors()
	snap := m.state.Snapshot()
	for i, f := range m.fields {
		b.WriteString(m.renderLabel(f, i == m.focus))
		b.WriteString("\n")
		b.WriteString(m.renderValue(f, snap, i == m.focus))
		b.WriteString("\n")
		if msg, ok := errs[f.Name]; ok {
			b.WriteString(FieldErrorStyle.Render(ui.FailureMarker + " " + msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(WarningBoxStyle.Render(ui.WarningMarker + " " + m.notice))
		b.WriteString("\n\n")
	}

	label := "Enviar"
	if m.busy() {
		label = m.Spinner.View() + " Enviando..."
	}
	if m.focus == len(m.fields) {
		b.WriteString("  " + FocusedButtonStyle.Render(label))
	} else {
		b.WriteString("  " + ButtonStyle.Render(label))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *FormModel[T]) renderBanner() string {
	flow := m.coord.Flow()
	switch m.outcome.Status {
	case submit.Success:
		return RenderSuccess(flow.Banner(m.outcome))
	case submit.Failure:
		return RenderError(flow.Banner(m.outcome))
	case submit.Validating, submit.Submitting:
		return SpinnerStyle.Render(m.Spinner.View() + " Enviando...")
	}
	return ""
}

func (m *FormModel[T]) renderLabel(f form.Field, focused bool) string {
	label := f.Label
	style := BlurredLabelStyle
	if focused {
		style = FocusedLabelStyle
		label = "→ " + label
	} else {
		label = "  " + label
	}
	out := style.Render(label)
	if f.Required {
		out += RequiredMarkStyle.Render(" *")
	}
	return out
}

func (m *FormModel[T]) renderValue(f form.Field, snap T, focused bool) string {
	switch f.Kind {
	case form.KindCheckbox:
		box := "[ ]"
		if snap.Checked(f.Name) {
			box = SelectedOptionStyle.Render("[x]")
		}
		return "    " + box

	case form.KindSelect:
		current := snap.Text(f.Name)
		if current == "" {
			current = OptionStyle.Render("Selecione...")
		} else {
			current = SelectedOptionStyle.Render(current)
		}
		if focused {
			return "    ◀ " + current + " ▶"
		}
		return "    " + current

	case form.KindMultiSelect:
		return m.renderOptions(f, snap.Selected(f.Name), focused)

	case form.KindFiles:
		return m.renderPhotos(focused)
	}

	if in := m.inputs[f.Name]; in != nil {
		return in.View()
	}
	return ""
}

func (m *FormModel[T]) renderOptions(f form.Field, selected []string, focused bool) string {
	parts := make([]string, 0, len(f.Options))
	for i, opt := range f.Options {
		text := opt
		if slices.Contains(selected, opt) {
			text = SelectedOptionStyle.Render("[x] " + opt)
		} else {
			text = OptionStyle.Render("[ ] " + opt)
		}
		if focused && i == m.cursors[f.Name] {
			text = CursorOptionStyle.Render(text)
		}
		parts = append(parts, text)
	}
	return wrapJoin(parts, "  ", contentWidth(m.Width)-4, "    ")
}

func (m *FormModel[T]) renderPhotos(focused bool) string {
	var b strings.Builder
	for i, p := range m.photos() {
		line := fmt.Sprintf("    %d. %s", i+1, p.Name())
		if p.Preview != nil {
			line += OptionStyle.Render(fmt.Sprintf("  (%s, %s)", p.Preview.MIME(), formatSize(p.Preview.Size())))
		}
		if i == 0 {
			line += " " + SelectedOptionStyle.Render("Principal")
		}
		if focused && i == m.photoCursor {
			line = CursorOptionStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.photoInput.View())
	return b.String()
}

// HelpView renders the key help for the footer.
func (m *FormModel[T]) HelpView() string {
	return m.Help.View(m.Keys)
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// wrapJoin joins parts with sep, starting a new indented line before width
// would be exceeded.
func wrapJoin(parts []string, sep string, width int, indent string) string {
	var (
		b    strings.Builder
		line int
	)
	b.WriteString(indent)
	line = len(indent)
	for i, p := range parts {
		w := lipgloss.Width(p)
		if i > 0 {
			if line+len(sep)+w > width {
				b.WriteString("\n" + indent)
				line = len(indent)
			} else {
				b.WriteString(sep)
				line += len(sep)
			}
		}
		b.WriteString(p)
		line += w
	}
	return b.String()
}
