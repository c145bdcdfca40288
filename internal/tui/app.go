package tui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mirage/artesanato/internal/api"
	"github.com/mirage/artesanato/internal/form"
	"github.com/mirage/artesanato/internal/logging"
	"github.com/mirage/artesanato/internal/preview"
	"github.com/mirage/artesanato/internal/session"
	"github.com/mirage/artesanato/internal/submit"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenHome      Screen = submit.RedirectHome
	ScreenLogin     Screen = "login"
	ScreenSignup    Screen = "cadastro"
	ScreenProduct   Screen = "produto"
	ScreenProducts  Screen = "produtos"
	ScreenDiscovery Screen = "descobrir"
)

// Messages for screen transitions
type screenTransitionMsg struct {
	screen Screen
	data   interface{}
}

type goBackMsg struct{}
type quitMsg struct{}

// Deps are the collaborators the screens share.
type Deps struct {
	Client    *api.Client
	Store     session.Store
	Scheduler *submit.Scheduler
	Previews  *preview.Pool
	// ScanTimeout bounds backend discovery
	ScanTimeout time.Duration
}

// relay forwards coordinator events, which arrive on request and timer
// goroutines, into the running program.
type relay struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (r *relay) attach(send func(tea.Msg)) {
	r.mu.Lock()
	r.send = send
	r.mu.Unlock()
}

func (r *relay) Send(msg tea.Msg) {
	r.mu.Lock()
	send := r.send
	r.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (r *relay) observe(ev submit.Event) {
	r.Send(eventMsg{ev: ev})
}

// AppModel is the top-level model that manages screen transitions. At most
// one form instance is alive at a time; leaving a form screen tears it down.
type AppModel struct {
	CurrentScreen  Screen
	PreviousScreen Screen

	Home      HomeModel
	Form      formScreen
	Listing   ListingModel
	Discovery DiscoveryModel

	// Account is the profile name shown in the header
	Account  string
	LoggedIn bool

	Width  int
	Height int

	ctx   context.Context
	deps  Deps
	relay *relay
}

// NewAppModel creates a new application model starting at the specified screen
func NewAppModel(ctx context.Context, deps Deps, startScreen Screen) AppModel {
	if deps.Scheduler == nil {
		deps.Scheduler = submit.NewScheduler(nil)
	}
	if deps.Previews == nil {
		deps.Previews = preview.NewPool()
	}

	m := AppModel{
		CurrentScreen: startScreen,
		Home:          NewHomeModel(deps.Client.BaseURL),
		Account:       session.DefaultDisplayName,
		ctx:           ctx,
		deps:          deps,
		relay:         &relay{},
	}
	m.enter(startScreen, nil)
	return m
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(loadAccount(m.ctx, m.deps.Store), m.initCurrent())
}

func (m AppModel) initCurrent() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenLogin, ScreenSignup, ScreenProduct:
		if m.Form != nil {
			return m.Form.Init()
		}
	case ScreenProducts:
		return tea.Batch(m.Listing.Spinner.Tick, fetchListing(m.ctx, m.deps.Client, m.deps.Store, m.Listing.Mine))
	case ScreenDiscovery:
		return m.Discovery.Init()
	}
	return nil
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		if m.Form != nil {
			m.Form.SetSize(msg.Width, msg.Height)
		}
		m.Listing.SetSize(msg.Width, msg.Height)
		m.Discovery.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.teardown()
			return m, tea.Quit
		}

	case screenTransitionMsg:
		return m.transitionTo(msg.screen, msg.data)

	case goBackMsg:
		return m.goBack()

	case quitMsg:
		m.teardown()
		return m, tea.Quit

	case accountMsg:
		m.Account = msg.name
		m.LoggedIn = msg.loggedIn
		m.Home.LoggedIn = msg.loggedIn
		return m, nil

	case logoutRequestMsg:
		return m, logout(m.ctx, m.deps.Store)

	case logoutMsg:
		if msg.err != nil {
			m.Home.Notice = "Não foi possível sair da conta: " + msg.err.Error()
		}
		return m, loadAccount(m.ctx, m.deps.Store)

	case backendSelectedMsg:
		m.deps.Client = m.deps.Client.WithBaseURL(msg.url)
		m.Home.Server = msg.url
		logging.Info("Switched backend", zap.String("url", msg.url))
		return m.transitionTo(ScreenHome, nil)

	case refreshListingMsg:
		return m, fetchListing(m.ctx, m.deps.Client, m.deps.Store, m.Listing.Mine)

	case eventMsg, submitDoneMsg:
		// Events of a torn-down form have nowhere to go.
		if m.Form == nil {
			return m, nil
		}
		return m, m.Form.Update(msg)
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenHome:
		m.Home, cmd = m.Home.Update(msg)
	case ScreenLogin, ScreenSignup, ScreenProduct:
		if m.Form != nil {
			cmd = m.Form.Update(msg)
		}
	case ScreenProducts:
		m.Listing, cmd = m.Listing.Update(msg)
	case ScreenDiscovery:
		m.Discovery, cmd = m.Discovery.Update(msg)
	}
	return m, cmd
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen, data interface{}) (tea.Model, tea.Cmd) {
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen
	m.enter(screen, data)

	cmd := m.initCurrent()
	if screen == ScreenHome {
		cmd = tea.Batch(cmd, loadAccount(m.ctx, m.deps.Store))
	}
	return m, cmd
}

// enter releases the form being left and builds the model for screen.
func (m *AppModel) enter(screen Screen, data interface{}) {
	m.closeForm()

	switch screen {
	case ScreenLogin, ScreenSignup, ScreenProduct:
		m.Form = m.newForm(screen)
		m.Form.SetSize(m.Width, m.Height)

	case ScreenProducts:
		mine, _ := data.(bool)
		m.Listing = NewListingModel(mine)
		m.Listing.SetSize(m.Width, m.Height)

	case ScreenDiscovery:
		m.Discovery = NewDiscoveryModel(m.ctx, m.deps.ScanTimeout)
		m.Discovery.SetSize(m.Width, m.Height)
	}
}

// newForm mounts a fresh form instance with its declared defaults and its
// own coordinator.
func (m *AppModel) newForm(screen Screen) formScreen {
	client, store := m.deps.Client, m.deps.Store

	switch screen {
	case ScreenSignup:
		state := form.NewState(form.NewSignupForm(), nil)
		coord := submit.New(submit.SignupFlow, m.deps.Scheduler, m.relay.observe)
		return NewFormModel(m.ctx, "Cadastro de Artesão", state, coord, func(f form.SignupForm) submit.Submission {
			return submit.Signup(client, f)
		})

	case ScreenProduct:
		state := form.NewState(form.NewProductForm(), m.deps.Previews)
		coord := submit.New(submit.ProductFlow, m.deps.Scheduler, m.relay.observe)
		return NewFormModel(m.ctx, "Cadastrar Produto", state, coord, func(f form.ProductForm) submit.Submission {
			return submit.Product(client, store, f)
		})

	default:
		state := form.NewState(form.NewLoginForm(), nil)
		coord := submit.New(submit.LoginFlow, m.deps.Scheduler, m.relay.observe)
		return NewFormModel(m.ctx, "Entrar", state, coord, func(f form.LoginForm) submit.Submission {
			return submit.Login(client, store, f)
		})
	}
}

func (m *AppModel) closeForm() {
	if m.Form != nil {
		m.Form.Close()
		m.Form = nil
	}
}

// teardown releases everything the current screen holds.
func (m *AppModel) teardown() {
	m.closeForm()
}

// goBack returns to the home menu, or quits from it
func (m AppModel) goBack() (tea.Model, tea.Cmd) {
	if m.CurrentScreen == ScreenHome {
		m.teardown()
		return m, tea.Quit
	}
	return m.transitionTo(ScreenHome, nil)
}

// View renders the current screen inside the application container
func (m AppModel) View() string {
	var content, helpText string

	switch m.CurrentScreen {
	case ScreenHome:
		content, helpText = m.Home.View(), m.Home.HelpView()
	case ScreenLogin, ScreenSignup, ScreenProduct:
		if m.Form != nil {
			content, helpText = m.Form.View(), m.Form.HelpView()
		}
	case ScreenProducts:
		content, helpText = m.Listing.View(), m.Listing.HelpView()
	case ScreenDiscovery:
		content, helpText = m.Discovery.View(), m.Discovery.HelpView()
	default:
		content = "Tela desconhecida"
	}

	return RenderApplicationContainer(content, helpText, m.Account, m.Width, m.Height)
}

// Run starts the interactive interface at startScreen and blocks until the
// user quits. Every form instance and preview is released on return.
func Run(ctx context.Context, deps Deps, startScreen Screen) error {
	app := NewAppModel(ctx, deps, startScreen)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	app.relay.attach(p.Send)

	final, err := p.Run()
	app.relay.attach(nil)

	if fm, ok := final.(AppModel); ok {
		fm.teardown()
	} else {
		app.teardown()
	}
	if cerr := app.deps.Previews.Close(); cerr != nil {
		logging.Warn("Failed to release previews on exit", zap.Error(cerr))
	}
	return err
}
