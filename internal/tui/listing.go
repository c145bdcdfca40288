package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mirage/artesanato/internal/api"
	"github.com/mirage/artesanato/internal/catalog"
	"github.com/mirage/artesanato/internal/session"
	"github.com/mirage/artesanato/internal/ui"
)

// listingLoadedMsg carries the result of a catalog fetch.
type listingLoadedMsg struct {
	mine    bool
	entries []catalog.Entry
	err     error
}

// listingKeyMap defines key bindings for the product listing
type listingKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Back    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k listingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k listingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Refresh, k.Back},
	}
}

// ListingModel shows the marketplace products, or only the logged-in
// artisan's when Mine is set.
type ListingModel struct {
	Mine    bool
	Loading bool
	Entries []catalog.Entry
	Err     error

	Viewport viewport.Model
	Spinner  spinner.Model
	Help     help.Model
	Keys     listingKeyMap
	Width    int
	Height   int
}

// NewListingModel creates a listing screen that starts loading on Init
func NewListingModel(mine bool) ListingModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return ListingModel{
		Mine:     mine,
		Loading:  true,
		Viewport: viewport.New(MinTerminalWidth-4, 10),
		Spinner:  s,
		Help:     help.New(),
		Keys: listingKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "subir"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "descer"),
			),
			Refresh: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "atualizar"),
			),
			Back: key.NewBinding(
				key.WithKeys("esc", "q"),
				key.WithHelp("esc", "voltar"),
			),
		},
	}
}

// fetchListing is a command that loads the listing from the backend
func fetchListing(ctx context.Context, src catalog.Source, store session.Store, mine bool) tea.Cmd {
	return func() tea.Msg {
		entries, err := catalog.Fetch(ctx, src, store, mine)
		return listingLoadedMsg{mine: mine, entries: entries, err: err}
	}
}

// SetSize resizes the viewport to the space left inside the container
func (m *ListingModel) SetSize(width, height int) {
	m.Width = width
	m.Height = height
	m.Viewport.Width = contentWidth(width)
	m.Viewport.Height = max(height-10, 5)
	m.refreshContent()
}

// Update handles messages and updates the model
func (m ListingModel) Update(msg tea.Msg) (ListingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case listingLoadedMsg:
		if msg.mine != m.Mine {
			return m, nil
		}
		m.Loading = false
		m.Entries = msg.entries
		m.Err = msg.err
		m.refreshContent()
		m.Viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Back):
			return m, func() tea.Msg { return goBackMsg{} }
		case key.Matches(msg, m.Keys.Refresh):
			if m.Loading {
				return m, nil
			}
			m.Loading = true
			m.Err = nil
			return m, tea.Batch(m.Spinner.Tick, func() tea.Msg { return refreshListingMsg{} })
		}
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// refreshListingMsg asks the application to fetch the listing again.
type refreshListingMsg struct{}

func (m *ListingModel) refreshContent() {
	if m.Loading || m.Err != nil || len(m.Entries) == 0 {
		m.Viewport.SetContent("")
		return
	}
	width := min(contentWidth(m.Width)-2, MaxContentWidth)
	cards := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		cards = append(cards, ui.RenderProductCard(e, width))
	}
	m.Viewport.SetContent(strings.Join(cards, "\n"))
}

// Title returns the screen heading
func (m ListingModel) Title() string {
	if m.Mine {
		return "Meus Produtos"
	}
	return "Produtos"
}

// View renders the listing content
func (m ListingModel) View() string {
	var b strings.Builder
	b.WriteString(RenderTitle(m.Title()))
	b.WriteString("\n")

	switch {
	case m.Loading:
		b.WriteString(SpinnerStyle.Render(m.Spinner.View() + " Carregando produtos..."))

	case errors.Is(m.Err, session.ErrNotLoggedIn):
		// Without a session there is nothing to list.
		b.WriteString(RenderSubtitle(catalog.EmptyMessage))

	case m.Err != nil:
		b.WriteString(RenderError(api.GetShortErrorMessage(m.Err)))
		b.WriteString("\n\n")
		for _, line := range strings.Split(api.GetTroubleshootingHint(m.Err), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				b.WriteString(ui.HintItemStyle.Render("  " + line))
				b.WriteString("\n")
			}
		}

	case len(m.Entries) == 0:
		b.WriteString(RenderSubtitle(catalog.EmptyMessage))

	default:
		b.WriteString(m.Viewport.View())
	}
	b.WriteString("\n")
	return b.String()
}

// HelpView renders the key help for the footer
func (m ListingModel) HelpView() string {
	return m.Help.View(m.Keys)
}
