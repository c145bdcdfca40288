package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/mirage/artesanato/internal/api"
	"github.com/mirage/artesanato/internal/catalog"
	"github.com/mirage/artesanato/internal/config"
	"github.com/mirage/artesanato/internal/discovery"
	"github.com/mirage/artesanato/internal/form"
	"github.com/mirage/artesanato/internal/logging"
	"github.com/mirage/artesanato/internal/preview"
	"github.com/mirage/artesanato/internal/session"
	"github.com/mirage/artesanato/internal/submit"
	"github.com/mirage/artesanato/internal/tui"
	"github.com/mirage/artesanato/internal/ui"
)

// errReported marks a failure already shown to the user.
var errReported = errors.New("failure reported")

// Global flags
var (
	configPath string
	apiURL     string
	logLevel   string
	timeout    time.Duration
	noInput    bool
)

// Command flags
var (
	loginEmail   string
	campos       []string
	fotos        []string
	listMine     bool
	outputFormat string
	scanTimeout  time.Duration
)

// env is what setup prepares for every command.
var env struct {
	cfg      *config.Config
	client   *api.Client
	store    session.Store
	printer  *ui.Printer
	prompter *ui.Prompter
}

func init() {
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) { cleanup() }

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: config.yaml in the user config directory)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Marketplace backend URL (overrides config and discovery)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", api.DefaultTimeout, "Backend request timeout")
	rootCmd.PersistentFlags().BoolVar(&noInput, "no-input", false, "Never prompt; missing fields are reported as validation errors")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(cadastroCmd)
	rootCmd.AddCommand(produtoCmd)
	rootCmd.AddCommand(produtosCmd)
	rootCmd.AddCommand(descobrirCmd)
}

// setup loads configuration, applies flag overrides and opens the session
// store and backend client.
func setup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.API.URL = apiURL
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("timeout") {
		cfg.API.Timeout = timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := initLogging(cfg, interactive(cmd)); err != nil {
		return err
	}

	store, err := session.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	client := api.NewClient(cfg.ResolvedAPIURL())
	client.SetTimeout(cfg.API.Timeout)
	client.SetRateLimit(cfg.API.RateLimit, cfg.API.Burst)

	// Discovery only replaces the default, never an explicit URL.
	if cfg.API.URL == "" && cfg.API.Discover && cmd != descobrirCmd {
		if found, err := discovery.Discover(ctx, cfg.API.DiscoverTimeout); err == nil {
			client.BaseURL = found
		} else {
			logging.Warn("Backend discovery failed, using default", zap.String("url", client.BaseURL), zap.Error(err))
		}
	}

	env.cfg = cfg
	env.client = client
	env.store = store
	env.printer = ui.NewPrinter(os.Stdout)
	if !noInput {
		env.prompter = ui.NewPrompter(os.Stdin, os.Stdout)
	}
	return nil
}

// initLogging starts the logger. The interactive interface owns the
// terminal, so it logs to a file.
func initLogging(cfg *config.Config, tuiMode bool) error {
	file := cfg.Log.File
	if tuiMode && file == "" && (cfg.Log.Level != "" || os.Getenv(logging.LogLevelEnvVar) != "") {
		if err := config.EnsureConfigDir(); err != nil {
			return err
		}
		p, err := config.DefaultLogPath()
		if err != nil {
			return err
		}
		file = p
	}
	return logging.InitializeWithOutput(cfg.Log.Level, file)
}

func interactive(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == tuiCmd
}

func cleanup() {
	if env.store != nil {
		if err := env.store.Close(); err != nil {
			logging.Warn("Failed to close session store", zap.Error(err))
		}
	}
	logging.Sync()
}

// tuiCmd launches the interactive interface
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive interface",
	Long: `Launch the interactive terminal interface.

From the main menu you can log in, register as an artisan, publish
products, browse the catalog and search the local network for a backend.`,
	Example: `  # Launch the interface
  artesanato tui
  # Or simply (tui is default):
  artesanato

  # Use a specific backend
  artesanato --api-url http://192.168.0.10:3000`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the interactive interface needs a terminal; see 'artesanato --help' for direct commands")
	}

	deps := tui.Deps{
		Client:      env.client,
		Store:       env.store,
		Previews:    preview.NewPool(),
		ScanTimeout: env.cfg.API.DiscoverTimeout,
	}
	if err := tui.Run(cmd.Context(), deps, tui.ScreenHome); err != nil {
		return fmt.Errorf("interface error: %w", err)
	}
	return nil
}

// loginCmd authenticates an artisan and stores the session
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in as an artisan",
	Long: `Log in to the marketplace with an artisan account.

On success the artisan's id, name and email are kept in the session store
so that products can be published. The password is never stored.`,
	Example: `  # Prompt for email and password
  artesanato login

  # Email on the command line, password prompted
  artesanato login --email ana@exemplo.com`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	values := fieldValues{}
	if loginEmail != "" {
		values.add(form.LoginEmail, loginEmail)
	}

	state := form.NewState(form.NewLoginForm(), nil)
	defer func() { _ = state.Close() }()

	env.printer.PrintHeader("Login de Artesão", "artesanato login", ui.Detail{Key: "Servidor", Value: env.client.BaseURL})
	if err := fill(state, values, env.prompter); err != nil {
		return err
	}

	return submitForm(cmd.Context(), submit.LoginFlow, state, func(f form.LoginForm) submit.Submission {
		return submit.Login(env.client, env.store, f)
	}, func() []ui.Detail {
		s, err := session.Load(cmd.Context(), env.store)
		if err != nil {
			return nil
		}
		return []ui.Detail{{Key: "Artesão", Value: s.Nome}, {Key: "Email", Value: s.Email}}
	})
}

// logoutCmd clears the stored session
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.Clear(cmd.Context(), env.store); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		env.printer.PrintSuccess("Sessão encerrada")
		return nil
	},
}

// whoamiCmd shows the logged-in artisan
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in artisan",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session.Load(cmd.Context(), env.store)
		if errors.Is(err, session.ErrNotLoggedIn) {
			env.printer.PrintWarning(session.DefaultDisplayName, ui.Detail{Key: "Sessão", Value: "nenhum artesão conectado"})
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read session: %w", err)
		}
		env.printer.PrintSuccess(session.DisplayName(cmd.Context(), env.store),
			ui.Detail{Key: "ID", Value: s.ID},
			ui.Detail{Key: "Email", Value: s.Email},
			ui.Detail{Key: "Armazenamento", Value: env.cfg.Session.Backend},
		)
		return nil
	},
}

// cadastroCmd registers a new artisan
var cadastroCmd = &cobra.Command{
	Use:   "cadastro",
	Short: "Register a new artisan",
	Long: `Register a new artisan account.

Fields can be given with --campo nome=valor (repeatable); required fields
that are left out are asked for interactively. Multi-select fields take
comma separated values. Field names follow the form, e.g. "endereco.cep".`,
	Example: `  # Answer every question interactively
  artesanato cadastro

  # Scripted registration
  artesanato cadastro --no-input \
    --campo nome="Ana Souza" --campo email=ana@exemplo.com \
    --campo senha=segredo1 --campo confirmarSenha=segredo1 \
    --campo cpf=12345678901 --campo telefone=11987654321 \
    --campo endereco.cep=01001000 --campo endereco.rua="Praça da Sé" \
    --campo endereco.numero=1 --campo endereco.bairro=Sé \
    --campo endereco.cidade="São Paulo" --campo endereco.estado=SP \
    --campo especialidades=Cerâmica,Bordado --campo termos=sim`,
	RunE: runCadastro,
}

func init() {
	cadastroCmd.Flags().StringArrayVarP(&campos, "campo", "c", nil, "Field value as nome=valor (repeatable)")
}

func runCadastro(cmd *cobra.Command, args []string) error {
	values, err := parseFieldFlags(campos)
	if err != nil {
		return err
	}

	state := form.NewState(form.NewSignupForm(), nil)
	defer func() { _ = state.Close() }()

	env.printer.PrintHeader("Cadastro de Artesão", "artesanato cadastro", ui.Detail{Key: "Servidor", Value: env.client.BaseURL})
	if err := fill(state, values, env.prompter); err != nil {
		return err
	}

	return submitForm(cmd.Context(), submit.SignupFlow, state, func(f form.SignupForm) submit.Submission {
		return submit.Signup(env.client, f)
	}, nil)
}

// produtoCmd groups product commands
var produtoCmd = &cobra.Command{
	Use:   "produto",
	Short: "Manage the logged-in artisan's products",
}

var produtoCadastrarCmd = &cobra.Command{
	Use:   "cadastrar",
	Short: "Publish a new product",
	Long: `Publish a new product for the logged-in artisan.

Fields can be given with --campo nome=valor (repeatable) and photos with
--foto (repeatable); the first photo is the main one. Required fields that
are left out are asked for interactively.`,
	Example: `  artesanato produto cadastrar \
    --campo nome="Vaso de barro" --campo categoria=Decoração \
    --campo preco=89,90 --campo descricao="Vaso feito à mão" \
    --campo quantidade=3 --campo materiais=Cerâmica \
    --foto vaso.jpg --foto vaso-lado.jpg`,
	RunE: runProdutoCadastrar,
}

func init() {
	produtoCadastrarCmd.Flags().StringArrayVarP(&campos, "campo", "c", nil, "Field value as nome=valor (repeatable)")
	produtoCadastrarCmd.Flags().StringArrayVar(&fotos, "foto", nil, "Photo file (repeatable, first is the main photo)")
	produtoCmd.AddCommand(produtoCadastrarCmd)
}

func runProdutoCadastrar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := session.Load(ctx, env.store)
	if errors.Is(err, session.ErrNotLoggedIn) {
		env.printer.PrintError("Erro ao cadastrar produto", errors.New(submit.NotLoggedInMessage),
			"Use 'artesanato login' e tente novamente")
		return errReported
	}
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	values, err := parseFieldFlags(campos)
	if err != nil {
		return err
	}
	if len(fotos) > 0 {
		values.add(form.ProductFotos, fotos...)
	}

	pool := preview.NewPool()
	defer func() { _ = pool.Close() }()
	state := form.NewState(form.NewProductForm(), pool)
	defer func() { _ = state.Close() }()

	env.printer.PrintHeader("Cadastrar Produto", "artesanato produto cadastrar",
		ui.Detail{Key: "Servidor", Value: env.client.BaseURL},
		ui.Detail{Key: "Artesão", Value: s.Nome},
	)
	if err := fill(state, values, env.prompter); err != nil {
		return err
	}

	return submitForm(ctx, submit.ProductFlow, state, func(f form.ProductForm) submit.Submission {
		return submit.Product(env.client, env.store, f)
	}, func() []ui.Detail {
		snap := state.Snapshot()
		return []ui.Detail{
			{Key: "Produto", Value: snap.Nome},
			{Key: "Preço", Value: state.Display(form.ProductPreco)},
			{Key: "Fotos", Value: fmt.Sprint(len(snap.Fotos))},
		}
	})
}

// submitForm runs one attempt through a coordinator and prints its
// outcome. Validation errors are listed per field.
func submitForm[T form.Snapshot[T]](ctx context.Context, flow submit.Flow, state *form.State[T], build func(T) submit.Submission, details func() []ui.Detail) error {
	coord := submit.New(flow, nil, nil)
	defer coord.Close()

	result, err := coord.Submit(ctx, build(state.Snapshot()))
	if err != nil {
		return err
	}
	if !result.Errors.Valid() {
		env.printer.PrintFieldErrors(state.Fields(), result.Errors)
		return errReported
	}

	o := result.Outcome
	if o.Status != submit.Success {
		env.printer.PrintError(strings.TrimSuffix(flow.FailurePrefix, ": "), errors.New(o.Message),
			"Verifique o endereço do servidor com --api-url",
			"Use 'artesanato descobrir' para procurar servidores na rede")
		return errReported
	}

	var extra []ui.Detail
	if details != nil {
		extra = details()
	}
	env.printer.PrintSuccess(o.Message, extra...)
	return nil
}

// produtosCmd lists the catalog
var produtosCmd = &cobra.Command{
	Use:   "produtos",
	Short: "List marketplace products",
	Long: `List the products published on the marketplace.

With --meus only the logged-in artisan's products are listed.`,
	Example: `  # Whole catalog
  artesanato produtos

  # Only my products, as JSON for scripting
  artesanato produtos --meus --format json`,
	RunE: runProdutos,
}

func init() {
	produtosCmd.Flags().BoolVar(&listMine, "meus", false, "Only the logged-in artisan's products")
	produtosCmd.Flags().StringVar(&outputFormat, "format", "cards", "Output format (cards, json)")
}

func runProdutos(cmd *cobra.Command, args []string) error {
	entries, err := catalog.Fetch(cmd.Context(), env.client, env.store, listMine)
	switch {
	case errors.Is(err, session.ErrNotLoggedIn):
		entries = nil
	case err != nil:
		env.printer.PrintError("Erro ao carregar produtos", errors.New(api.GetShortErrorMessage(err)),
			"Verifique o endereço do servidor com --api-url")
		return errReported
	}

	if outputFormat == "json" {
		if entries == nil {
			entries = []catalog.Entry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	env.printer.PrintListing(entries)
	return nil
}

// descobrirCmd searches the local network for backends
var descobrirCmd = &cobra.Command{
	Use:   "descobrir",
	Short: "Search the local network for marketplace backends",
	Long: `Search for marketplace backends using mDNS/DNS-SD discovery.

Backends advertise the _artesanato._tcp service. Use the printed URL with
--api-url, or set api.discover in the config file to pick the first one
automatically.`,
	Example: `  # Scan for 3 seconds (default)
  artesanato descobrir

  # Longer scan for slower networks
  artesanato descobrir --scan-timeout 10s`,
	RunE: runDescobrir,
}

func init() {
	descobrirCmd.Flags().DurationVar(&scanTimeout, "scan-timeout", discovery.DefaultScanTimeout, "Scan timeout")
}

func runDescobrir(cmd *cobra.Command, args []string) error {
	fmt.Printf("Procurando servidores (timeout: %s)...\n\n", scanTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = scanTimeout
	backends, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(backends) == 0 {
		env.printer.PrintWarning("Nenhum servidor encontrado")
		fmt.Println("Dicas:")
		fmt.Println("  - Verifique se o servidor está em execução e anunciando _artesanato._tcp")
		fmt.Println("  - Confirme que você está na mesma rede do servidor")
		fmt.Println("  - Aumente --scan-timeout em redes lentas")
		fmt.Println("  - Use --api-url para informar o endereço manualmente")
		return nil
	}

	fmt.Printf("%d servidor(es) encontrado(s):\n\n", len(backends))
	for i, b := range backends {
		fmt.Printf("%d. %s\n", i+1, b.Instance)
		fmt.Printf("   Host:   %s\n", strings.TrimSuffix(b.Hostname, "."))
		fmt.Printf("   URL:    %s\n", b.BaseURL())
		if v := b.GetMetadata("version"); v != "" {
			fmt.Printf("   Versão: %s\n", v)
		}
		env.printer.Newline()
	}

	fmt.Println("Use 'artesanato --api-url <url>' para usar um destes servidores")
	if path, err := config.GetConfigPath(); err == nil {
		fmt.Printf("ou defina api.discover: true em %s\n", path)
	}
	return nil
}
