package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mirage/artesanato/internal/catalog"
	"github.com/mirage/artesanato/internal/form"
)

func TestPrintFieldErrorsFollowsDeclaredOrder(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)

	errs := form.NewLoginForm().Validate()
	p.PrintFieldErrors(form.NewLoginForm().Fields(), errs)

	out := buf.String()
	email := strings.Index(out, "Email")
	senha := strings.Index(out, "Senha")
	if email < 0 || senha < 0 || email > senha {
		t.Fatalf("field errors out of order:\n%s", out)
	}
	if !strings.Contains(out, errs[form.LoginEmail]) {
		t.Errorf("missing email message %q in:\n%s", errs[form.LoginEmail], out)
	}

	buf.Reset()
	p.PrintFieldErrors(nil, form.Errors{})
	if buf.Len() != 0 {
		t.Errorf("valid form printed %q", buf.String())
	}
}

func TestPrintListing(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)

	p.PrintListing(nil)
	if !strings.Contains(buf.String(), catalog.EmptyMessage) {
		t.Errorf("empty listing = %q", buf.String())
	}

	buf.Reset()
	p.PrintListing([]catalog.Entry{{Nome: "Vaso", Preco: "R$ 89,90", Descricao: "Barro"}})
	for _, want := range []string{"Vaso", "R$ 89,90", "Barro"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("listing missing %q:\n%s", want, buf.String())
		}
	}
}

func TestResultRender(t *testing.T) {
	out := NewFailureResult("Erro no login", errors.New("invalid credentials"),
		[]string{"O servidor recusou a conexão.\nSugestões:\n  • Confira o endereço"}).SetWidth(80).Render()
	for _, want := range []string{"FALHA", "invalid credentials", "Confira o endereço"} {
		if !strings.Contains(out, want) {
			t.Errorf("failure box missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "Sugestões:") != 1 {
		t.Errorf("hint title repeated:\n%s", out)
	}

	out = NewSuccessResult("Login realizado", Detail{"Artesão", "Ana"}, Detail{"Email", "ana@mirage.com"}).SetWidth(80).Render()
	if strings.Index(out, "Artesão") > strings.Index(out, "Email") {
		t.Errorf("details out of order:\n%s", out)
	}
}

func TestPrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("ana@mirage.com\nsegredo\nsim\n"), &out)

	email, err := p.Line("Email")
	if err != nil || email != "ana@mirage.com" {
		t.Fatalf("Line() = %q, %v", email, err)
	}
	senha, err := p.Password("Senha")
	if err != nil || senha != "segredo" {
		t.Fatalf("Password() = %q, %v", senha, err)
	}
	ok, err := p.Confirm("Continuar?")
	if err != nil || !ok {
		t.Fatalf("Confirm() = %v, %v", ok, err)
	}
	if _, err := p.Line("Mais"); !errors.Is(err, ErrNoInput) {
		t.Errorf("Line() at EOF error = %v, want ErrNoInput", err)
	}
	if !strings.Contains(out.String(), "Email: ") {
		t.Errorf("prompt not written: %q", out.String())
	}
}

func TestHeaderRender(t *testing.T) {
	out := NewHeader("Login de Artesão", "artesanato login", Detail{"Servidor", "http://localhost:3000"}).SetWidth(80).Render()
	for _, want := range []string{"LOGIN DE ARTESÃO", "artesanato login", "http://localhost:3000"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
}
