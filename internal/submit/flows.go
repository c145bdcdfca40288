package submit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mirage/artesanato/internal/api"
	"github.com/mirage/artesanato/internal/form"
	"github.com/mirage/artesanato/internal/session"
)

// DefaultRevertAfter is how long a Success or Failure banner stays up.
const DefaultRevertAfter = 5 * time.Second

// User-facing failure texts for problems the backend never reported.
const (
	GenericFailureMessage = "Não foi possível concluir a operação. Tente novamente."
	UnreachableMessage    = "Não foi possível conectar ao servidor. Tente novamente."
	NotLoggedInMessage    = "Faça login como artesão antes de continuar."
)

// Flow is the per-form configuration of the coordinator.
type Flow struct {
	Name string
	// Accepted lists the statuses that count as success.
	Accepted []int
	// RevertAfter is how long Success and Failure last before Idle.
	RevertAfter time.Duration

	SuccessMessage string
	// FailurePrefix is prepended to the backend's message in the banner.
	FailurePrefix string

	// Redirect names the screen to show RedirectAfter a success, if any.
	Redirect      string
	RedirectAfter time.Duration
}

// Banner renders an outcome for display. Idle and in-progress outcomes
// have no banner.
func (f Flow) Banner(o Outcome) string {
	switch o.Status {
	case Success:
		return o.Message
	case Failure:
		return f.FailurePrefix + o.Message
	default:
		return ""
	}
}

// RedirectHome is the Redirect target of the login flow.
const RedirectHome = "home"

var (
	LoginFlow = Flow{
		Name:           "login",
		Accepted:       []int{http.StatusOK},
		RevertAfter:    5 * time.Second,
		SuccessMessage: "Login realizado com sucesso! Redirecionando...",
		FailurePrefix:  "Erro no login: ",
		Redirect:       RedirectHome,
		RedirectAfter:  5 * time.Second,
	}

	SignupFlow = Flow{
		Name:           "cadastro",
		Accepted:       []int{http.StatusCreated},
		RevertAfter:    5 * time.Second,
		SuccessMessage: "Cadastro realizado com sucesso! Em breve você receberá um email de confirmação.",
		FailurePrefix:  "Erro no cadastro: ",
	}

	ProductFlow = Flow{
		Name:           "produto",
		Accepted:       []int{http.StatusCreated},
		RevertAfter:    3 * time.Second,
		SuccessMessage: "Produto cadastrado com sucesso!",
		FailurePrefix:  "Erro ao cadastrar produto: ",
	}
)

// Login builds the submission for a login snapshot. On success the
// artisan's id and name from the response, and the email typed into the
// form, are saved to store.
func Login(client *api.Client, store session.Store, f form.LoginForm) Submission {
	return Submission{
		Validate: f.Validate,
		Send: func(ctx context.Context) (*api.Response, error) {
			return client.Login(ctx, api.LoginRequest{Email: f.Email, Senha: f.Senha})
		},
		OnSuccess: func(ctx context.Context, resp *api.Response) error {
			var result api.LoginResult
			if err := resp.Decode(&result); err != nil {
				return err
			}
			if result.ID == "" {
				return api.NewParseError("login response has no id", resp.Status, nil)
			}
			return session.Save(ctx, store, session.Session{
				ID:    result.ID.String(),
				Nome:  result.Nome,
				Email: f.Email,
			})
		},
	}
}

// Signup builds the submission for an artisan registration snapshot. The
// backend account takes nome, email and senha; the remaining fields are
// validated locally only.
func Signup(client *api.Client, f form.SignupForm) Submission {
	return Submission{
		Validate: f.Validate,
		Send: func(ctx context.Context) (*api.Response, error) {
			return client.Register(ctx, api.RegisterRequest{Nome: f.Nome, Email: f.Email, Senha: f.Senha})
		},
	}
}

// Product builds the submission for a product snapshot. The owning artisan
// is read from store when the request is sent.
func Product(client *api.Client, store session.Store, f form.ProductForm) Submission {
	return Submission{
		Validate: f.Validate,
		Send: func(ctx context.Context) (*api.Response, error) {
			s, err := session.Load(ctx, store)
			if err != nil {
				return nil, err
			}
			preco, err := form.ParsePrice(f.Preco)
			if err != nil {
				return nil, api.NewValidationError(fmt.Sprintf("preço %q", f.Preco), err)
			}
			return client.CreateProduct(ctx, api.CreateProductRequest{
				Nome:      f.Nome,
				Descricao: f.Descricao,
				Preco:     preco,
				ArtesaoID: api.ID(s.ID),
			})
		},
	}
}
