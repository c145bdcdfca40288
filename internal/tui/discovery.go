package tui

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mirage/artesanato/internal/discovery"
)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	backends []*discovery.Backend
	err      error
}

// backendSelectedMsg switches the client to a new backend URL.
type backendSelectedMsg struct {
	url string
}

// discoveryKeyMap defines key bindings for the discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Back   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Back},
	}
}

// manualModeKeyMap defines key bindings for manual URL entry mode
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.Confirm, m.Cancel}}
}

// backendItem wraps a Backend for use with bubbles/list
type backendItem struct {
	backend *discovery.Backend
}

// FilterValue filters by instance name, host or URL
func (b backendItem) FilterValue() string {
	return b.backend.Instance + " " + b.backend.Hostname + " " + b.backend.BaseURL()
}

// Title returns the backend name for list display
func (b backendItem) Title() string { return b.backend.Instance }

// Description returns backend details for list display
func (b backendItem) Description() string { return b.backend.BaseURL() }

// backendDelegate renders backends as cards
type backendDelegate struct {
	width int
}

func (d backendDelegate) Height() int { return 6 }

func (d backendDelegate) Spacing() int { return 1 }

func (d backendDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d backendDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	bi, ok := item.(backendItem)
	if !ok {
		return
	}
	b := bi.backend
	selected := index == m.Index()

	var content strings.Builder
	if selected {
		content.WriteString(SelectedMenuItemStyle.Render("→ " + b.Instance))
	} else {
		content.WriteString("  " + b.Instance)
	}
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("  Host:   %s\n", strings.TrimSuffix(b.Hostname, ".")))
	content.WriteString(fmt.Sprintf("  URL:    %s", b.BaseURL()))
	if v := b.GetMetadata("version"); v != "" {
		content.WriteString(fmt.Sprintf("\n  Versão: %s", v))
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 2).
		MarginLeft(2).
		Width(min(max(d.width-6, MinTerminalWidth-6), MaxContentWidth-6))
	if selected {
		cardStyle = cardStyle.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, cardStyle.Render(content.String()))
}

// DiscoveryModel finds marketplace backends advertised over mDNS and lets
// the user pick one, or type a URL by hand
type DiscoveryModel struct {
	Scanning    bool
	BackendList list.Model
	Err         error
	Timeout     time.Duration

	ManualMode bool
	URLInput   textinput.Model
	InputErr   string

	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          discoveryKeyMap
	ManualKeys    manualModeKeyMap

	ctx context.Context
}

// NewDiscoveryModel creates a new discovery screen model
func NewDiscoveryModel(ctx context.Context, timeout time.Duration) DiscoveryModel {
	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	urlInput := textinput.New()
	urlInput.Placeholder = "http://192.168.0.10:3000"
	urlInput.CharLimit = 200
	urlInput.Width = 40

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	backendList := list.New([]list.Item{}, backendDelegate{width: MinTerminalWidth}, 0, 0)
	backendList.Title = "Servidores encontrados"
	backendList.SetShowStatusBar(false)
	backendList.SetShowHelp(false)
	backendList.SetFilteringEnabled(false)
	backendList.Styles.Title = TitleStyle

	return DiscoveryModel{
		BackendList: backendList,
		Timeout:     timeout,
		URLInput:    urlInput,
		Spinner:     s,
		ProgressBar: progressBar,
		Help:        help.New(),
		Keys: discoveryKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "subir"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "descer"),
			),
			Enter: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "usar"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "procurar de novo"),
			),
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "digitar URL"),
			),
			Back: key.NewBinding(
				key.WithKeys("esc", "q"),
				key.WithHelp("esc", "voltar"),
			),
		},
		ManualKeys: manualModeKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "confirmar"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancelar"),
			),
		},
		ctx: ctx,
	}
}

// Init starts scanning immediately
func (m DiscoveryModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		scanBackends(m.ctx, m.Timeout),
		m.Spinner.Tick,
	)
}

// scanBackends is a command that performs backend discovery
func scanBackends(ctx context.Context, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		scanner := discovery.NewScanner()
		scanner.Timeout = timeout
		backends, err := scanner.Scan(ctx)
		return scanCompleteMsg{backends: backends, err: err}
	}
}

// SetSize resizes the list to the space left inside the container
func (m *DiscoveryModel) SetSize(width, height int) {
	m.Width = width
	m.Height = height
	m.BackendList.SetDelegate(backendDelegate{width: width})
	m.BackendList.SetWidth(width - 4)
	m.BackendList.SetHeight(max(height-10, 8))
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (DiscoveryModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.backends))
		for i, b := range msg.backends {
			items[i] = backendItem{backend: b}
		}
		cmd = m.BackendList.SetItems(items)
		return m, cmd

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateNormalMode handles keyboard input in backend list mode
func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (DiscoveryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Back):
		return m, func() tea.Msg { return goBackMsg{} }

	case m.Scanning:
		// Only manual entry is available while the scan runs
		if key.Matches(msg, m.Keys.Manual) {
			return m.enterManualMode()
		}
		return m, nil

	case key.Matches(msg, m.Keys.Enter):
		if item, ok := m.BackendList.SelectedItem().(backendItem); ok {
			target := item.backend.BaseURL()
			return m, func() tea.Msg { return backendSelectedMsg{url: target} }
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		m.Err = nil
		cmd := m.BackendList.SetItems(nil)
		return m, tea.Batch(
			cmd,
			func() tea.Msg { return scanStartMsg{} },
			scanBackends(m.ctx, m.Timeout),
			m.Spinner.Tick,
		)

	case key.Matches(msg, m.Keys.Manual):
		return m.enterManualMode()
	}

	var cmd tea.Cmd
	m.BackendList, cmd = m.BackendList.Update(msg)
	return m, cmd
}

func (m DiscoveryModel) enterManualMode() (DiscoveryModel, tea.Cmd) {
	m.ManualMode = true
	m.InputErr = ""
	m.URLInput.SetValue("")
	return m, m.URLInput.Focus()
}

// updateManualMode handles keyboard input in manual URL entry mode
func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (DiscoveryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.URLInput.SetValue("")
		m.URLInput.Blur()
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		target, err := normalizeURL(m.URLInput.Value())
		if err != nil {
			m.InputErr = err.Error()
			return m, nil
		}
		m.ManualMode = false
		m.URLInput.Blur()
		return m, func() tea.Msg { return backendSelectedMsg{url: target} }
	}

	var cmd tea.Cmd
	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// normalizeURL accepts "host:port" or a full http(s) URL.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("informe o endereço do servidor")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("endereço inválido: %s", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("esquema não suportado: %s", u.Scheme)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// View renders the discovery content
func (m DiscoveryModel) View() string {
	switch {
	case m.ManualMode:
		return m.renderManualEntry()
	case m.Scanning:
		return m.renderScanning(contentWidth(m.Width))
	default:
		return m.renderResults()
	}
}

// HelpView renders context-sensitive key help for the footer
func (m DiscoveryModel) HelpView() string {
	if m.ManualMode {
		return m.Help.View(m.ManualKeys)
	}
	return m.Help.View(m.Keys)
}

// renderScanning renders a centered scanning progress display
func (m DiscoveryModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	ratio := min(1.0, float64(elapsed)/float64(m.Timeout))

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(m.Spinner.View()+" PROCURANDO SERVIDORES"),
		SubtitleStyle.Render("Procurando servidores do marketplace na rede local..."),
		"",
		m.ProgressBar.ViewAs(ratio),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Tempo: %ds", int(elapsed.Seconds()))),
		"",
	)
	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderResults renders the backend list or the "none found" message
func (m DiscoveryModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(RenderError(fmt.Sprintf("Falha na busca: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString(discoveryHints)

	case len(m.BackendList.Items()) == 0:
		b.WriteString("  ")
		b.WriteString(WarningBoxStyle.Render("⚠ Nenhum servidor encontrado na rede"))
		b.WriteString("\n\n")
		b.WriteString(discoveryHints)

	default:
		b.WriteString(m.BackendList.View())
	}
	return b.String()
}

const discoveryHints = `  Sugestões:
    • Verifique se o servidor está ligado e anunciando _artesanato._tcp
    • Confirme que você está na mesma rede que o servidor
    • Use 'm' para digitar o endereço manualmente
`

// renderManualEntry renders the manual URL entry dialog
func (m DiscoveryModel) renderManualEntry() string {
	var b strings.Builder
	b.WriteString(RenderSubtitle("Digite o endereço do servidor"))
	b.WriteString("\n\n  URL: ")
	b.WriteString(m.URLInput.View())
	b.WriteString("\n\n")
	if m.InputErr != "" {
		b.WriteString(FieldErrorStyle.Render("✗ " + m.InputErr))
		b.WriteString("\n")
	}
	return b.String()
}
