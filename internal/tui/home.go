package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mirage/artesanato/internal/logging"
	"github.com/mirage/artesanato/internal/session"
)

// accountMsg carries the display name and login state read from the
// session store.
type accountMsg struct {
	name     string
	loggedIn bool
}

// logoutMsg is sent once the session has been cleared.
type logoutMsg struct {
	err error
}

// loadAccount is a command that reads the profile name from the store
func loadAccount(ctx context.Context, store session.Store) tea.Cmd {
	return func() tea.Msg {
		_, err := session.Load(ctx, store)
		return accountMsg{
			name:     session.DisplayName(ctx, store),
			loggedIn: err == nil,
		}
	}
}

// logout is a command that clears the session
func logout(ctx context.Context, store session.Store) tea.Cmd {
	return func() tea.Msg {
		err := session.Clear(ctx, store)
		if err != nil {
			logging.Error("Failed to clear session", zap.Error(err))
		}
		return logoutMsg{err: err}
	}
}

type menuAction int

const (
	actionScreen menuAction = iota
	actionLogout
	actionQuit
)

type menuItem struct {
	label  string
	action menuAction
	screen Screen
	mine   bool
	// needsLogin items are shown greyed out without a session
	needsLogin bool
}

var homeMenu = []menuItem{
	{label: "Entrar", screen: ScreenLogin},
	{label: "Cadastro de artesão", screen: ScreenSignup},
	{label: "Cadastrar produto", screen: ScreenProduct, needsLogin: true},
	{label: "Produtos", screen: ScreenProducts},
	{label: "Meus produtos", screen: ScreenProducts, mine: true, needsLogin: true},
	{label: "Procurar servidor na rede", screen: ScreenDiscovery},
	{label: "Sair da conta", action: actionLogout, needsLogin: true},
	{label: "Fechar", action: actionQuit},
}

// homeKeyMap defines key bindings for the home menu
type homeKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k homeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k homeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Enter, k.Quit}}
}

// HomeModel is the main menu
type HomeModel struct {
	Cursor   int
	LoggedIn bool
	Server   string
	Notice   string

	Help help.Model
	Keys homeKeyMap
}

// NewHomeModel creates the main menu
func NewHomeModel(server string) HomeModel {
	return HomeModel{
		Server: server,
		Help:   help.New(),
		Keys: homeKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "subir"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "descer"),
			),
			Enter: key.NewBinding(
				key.WithKeys("enter", " "),
				key.WithHelp("enter", "abrir"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q"),
				key.WithHelp("q", "fechar"),
			),
		},
	}
}

// Update handles menu navigation. Opening an item is reported as a
// command so the application performs the transition.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Up):
		m.Cursor = (m.Cursor - 1 + len(homeMenu)) % len(homeMenu)
	case key.Matches(keyMsg, m.Keys.Down):
		m.Cursor = (m.Cursor + 1) % len(homeMenu)
	case key.Matches(keyMsg, m.Keys.Quit):
		return m, func() tea.Msg { return quitMsg{} }
	case key.Matches(keyMsg, m.Keys.Enter):
		item := homeMenu[m.Cursor]
		if item.needsLogin && !m.LoggedIn {
			m.Notice = "Faça login para acessar esta opção."
			return m, nil
		}
		m.Notice = ""
		switch item.action {
		case actionLogout:
			return m, func() tea.Msg { return logoutRequestMsg{} }
		case actionQuit:
			return m, func() tea.Msg { return quitMsg{} }
		default:
			return m, func() tea.Msg { return screenTransitionMsg{screen: item.screen, data: item.mine} }
		}
	}
	return m, nil
}

// logoutRequestMsg asks the application to clear the session.
type logoutRequestMsg struct{}

// View renders the menu
func (m HomeModel) View() string {
	var b strings.Builder
	b.WriteString(RenderTitle("Bem-vindo ao " + AppName))
	b.WriteString("\n")
	b.WriteString(RenderSubtitle(Tagline + " • servidor " + m.Server))
	b.WriteString("\n\n")

	for i, item := range homeMenu {
		switch {
		case i == m.Cursor:
			b.WriteString(RenderMenuItem(item.label, true))
		case item.needsLogin && !m.LoggedIn:
			b.WriteString(DisabledMenuItemStyle.Render("  " + item.label))
		default:
			b.WriteString(RenderMenuItem(item.label, false))
		}
		b.WriteString("\n")
	}

	if m.Notice != "" {
		b.WriteString("\n")
		b.WriteString(WarningBoxStyle.Render(m.Notice))
		b.WriteString("\n")
	}
	return b.String()
}

// HelpView renders the key help for the footer
func (m HomeModel) HelpView() string {
	return m.Help.View(m.Keys)
}
