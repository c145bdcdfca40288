package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/mirage/artesanato/internal/api"
	"github.com/mirage/artesanato/internal/form"
	"github.com/mirage/artesanato/internal/preview"
	"github.com/mirage/artesanato/internal/session"
	"github.com/mirage/artesanato/internal/submit"
)

// Smallest byte sequence mimetype recognises as PNG.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// runCmd executes cmd and every command of a batch, returning the
// resulting messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyCtrlX = tea.KeyMsg{Type: tea.KeyCtrlX}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// captureRelay returns a relay whose messages are buffered in a channel.
func captureRelay() (*relay, chan tea.Msg) {
	ch := make(chan tea.Msg, 64)
	r := &relay{}
	r.attach(func(msg tea.Msg) { ch <- msg })
	return r, ch
}

// submitAndSettle presses ctrl+s, waits for the attempt to finish and
// applies every event it produced.
func submitAndSettle[T form.Snapshot[T]](t *testing.T, fm *FormModel[T], events chan tea.Msg) submitDoneMsg {
	t.Helper()
	var done *submitDoneMsg
	for _, msg := range runCmd(fm.Update(keyCtrlS)) {
		if d, ok := msg.(submitDoneMsg); ok {
			done = &d
		}
	}
	if done == nil {
		t.Fatal("submit produced no submitDoneMsg")
	}
	for len(events) > 0 {
		fm.Update(<-events)
	}
	fm.Update(*done)
	return *done
}

func focusField[T form.Snapshot[T]](t *testing.T, fm *FormModel[T], name form.Name) {
	t.Helper()
	for range len(fm.fields) + 1 {
		if fm.focus < len(fm.fields) && fm.fields[fm.focus].Name == name {
			return
		}
		fm.Update(keyTab)
	}
	t.Fatalf("field %s never focused", name)
}

func newLoginScreen(t *testing.T, handler http.HandlerFunc) (*FormModel[form.LoginForm], *submit.Coordinator, session.Store, chan tea.Msg) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL)
	store := session.NewMemoryStore()
	r, events := captureRelay()

	coord := submit.New(submit.LoginFlow, nil, r.observe)
	fm := NewFormModel(context.Background(), "Entrar", form.NewState(form.NewLoginForm(), nil), coord,
		func(f form.LoginForm) submit.Submission { return submit.Login(client, store, f) })
	t.Cleanup(fm.Close)
	return fm, coord, store, events
}

func TestLoginScreenSuccess(t *testing.T) {
	fm, coord, store, events := newLoginScreen(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":7,"nome":"Ana","email":"ana@mirage.com"}`))
	})

	fm.Update(keyRunes("ana@mirage.com"))
	fm.Update(keyTab)
	fm.Update(keyRunes("segredo"))

	want := form.LoginForm{Email: "ana@mirage.com", Senha: "segredo"}
	if diff := cmp.Diff(want, fm.State().Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	done := submitAndSettle(t, fm, events)
	if done.err != nil {
		t.Fatalf("Submit error = %v", done.err)
	}
	if got := fm.Outcome().Status; got != submit.Success {
		t.Fatalf("outcome = %s, want success", got)
	}
	if !strings.Contains(fm.View(), "Login realizado com sucesso! Redirecionando...") {
		t.Error("success banner missing from view")
	}

	s, err := session.Load(context.Background(), store)
	if err != nil {
		t.Fatalf("session.Load() error = %v", err)
	}
	if diff := cmp.Diff(session.Session{ID: "7", Nome: "Ana", Email: "ana@mirage.com"}, s); diff != "" {
		t.Errorf("session mismatch (-want +got):\n%s", diff)
	}

	if revert, redirect := coord.Pending(); !revert || !redirect {
		t.Errorf("Pending() = %v, %v; want revert and redirect armed", revert, redirect)
	}
	fm.Close()
	if revert, redirect := coord.Pending(); revert || redirect {
		t.Errorf("Pending() after Close = %v, %v; want none", revert, redirect)
	}
}

func TestLoginScreenRejected(t *testing.T) {
	fm, _, _, events := newLoginScreen(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid credentials"}`))
	})

	fm.Update(keyRunes("ana@mirage.com"))
	fm.Update(keyTab)
	fm.Update(keyRunes("errada1"))
	submitAndSettle(t, fm, events)

	if got := fm.Outcome(); got.Status != submit.Failure || got.Message != "invalid credentials" {
		t.Fatalf("outcome = %+v, want failure with backend detail", got)
	}
	if !strings.Contains(fm.View(), "Erro no login: invalid credentials") {
		t.Error("failure banner missing from view")
	}
}

func TestLoginScreenValidationStaysLocal(t *testing.T) {
	var hits atomic.Int32
	fm, _, _, events := newLoginScreen(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	fm.Update(keyTab)
	fm.Update(keyRunes("123"))
	done := submitAndSettle(t, fm, events)

	if done.result.Errors.Valid() {
		t.Fatal("expected validation errors")
	}
	if hits.Load() != 0 {
		t.Errorf("backend called %d times, want 0", hits.Load())
	}
	errs := fm.State().Errors()
	if !errs.Has(form.LoginEmail) || !errs.Has(form.LoginSenha) {
		t.Errorf("errors = %v, want email and senha", errs)
	}
	if got := fm.Outcome().Status; got != submit.Idle {
		t.Errorf("outcome = %s, want idle", got)
	}
	if fm.fields[fm.focus].Name != form.LoginEmail {
		t.Errorf("focus = %s, want first failing field", fm.fields[fm.focus].Name)
	}
	if !strings.Contains(fm.View(), errs[form.LoginSenha]) {
		t.Error("inline senha error missing from view")
	}
}

func TestFormErrorsFollowSubmittedSnapshot(t *testing.T) {
	fm, _, _, events := newLoginScreen(t, func(w http.ResponseWriter, r *http.Request) {})

	var done *submitDoneMsg
	for _, msg := range runCmd(fm.Update(keyCtrlS)) {
		if d, ok := msg.(submitDoneMsg); ok {
			done = &d
		}
	}
	if done == nil {
		t.Fatal("submit produced no submitDoneMsg")
	}
	for len(events) > 0 {
		fm.Update(<-events)
	}

	// Edited after the empty form went out.
	focusField(t, fm, form.LoginEmail)
	fm.Update(keyRunes("ana@mirage.com"))
	fm.Update(*done)

	errs := fm.State().Errors()
	if diff := cmp.Diff(done.result.Errors, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if !errs.Has(form.LoginEmail) {
		t.Error("email error of the submitted snapshot was replaced by the edited one")
	}
}

func TestFormDropsStaleAndForeignEvents(t *testing.T) {
	fm, coord, _, _ := newLoginScreen(t, func(w http.ResponseWriter, r *http.Request) {})
	id := coord.ID()

	fm.Update(eventMsg{ev: submit.Event{Seq: 5, Instance: id, To: submit.Failure,
		Outcome: submit.Outcome{Status: submit.Failure, Message: "boom"}}})
	fm.Update(eventMsg{ev: submit.Event{Seq: 3, Instance: id, To: submit.Success,
		Outcome: submit.Outcome{Status: submit.Success}}})
	fm.Update(eventMsg{ev: submit.Event{Seq: 9, Instance: uuid.New(), To: submit.Idle}})

	if got := fm.Outcome(); got.Status != submit.Failure || got.Message != "boom" {
		t.Errorf("outcome = %+v, want the seq 5 failure", got)
	}
}

func TestFormRedirectEvent(t *testing.T) {
	fm, coord, _, _ := newLoginScreen(t, func(w http.ResponseWriter, r *http.Request) {})

	msgs := runCmd(fm.Update(eventMsg{ev: submit.Event{
		Seq: 1, Instance: coord.ID(), Kind: submit.EventRedirect, Redirect: submit.RedirectHome,
	}}))
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	tr, ok := msgs[0].(screenTransitionMsg)
	if !ok || tr.screen != ScreenHome {
		t.Errorf("message = %#v, want transition to home", msgs[0])
	}
}

func TestFormBackKey(t *testing.T) {
	fm, _, _, _ := newLoginScreen(t, func(w http.ResponseWriter, r *http.Request) {})
	msgs := runCmd(fm.Update(keyEsc))
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if _, ok := msgs[0].(goBackMsg); !ok {
		t.Errorf("message = %#v, want goBackMsg", msgs[0])
	}
}

func writePhoto(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newProductScreen(t *testing.T, pool *preview.Pool) *FormModel[form.ProductForm] {
	t.Helper()
	client := api.NewClient("http://127.0.0.1:1")
	store := session.NewMemoryStore()
	coord := submit.New(submit.ProductFlow, nil, nil)
	fm := NewFormModel(context.Background(), "Cadastrar Produto", form.NewState(form.NewProductForm(), pool), coord,
		func(f form.ProductForm) submit.Submission { return submit.Product(client, store, f) })
	t.Cleanup(fm.Close)
	return fm
}

func TestProductScreenEditing(t *testing.T) {
	pool := preview.NewPool()
	defer pool.Close()
	fm := newProductScreen(t, pool)

	fm.Update(keyRunes("Vaso"))

	focusField(t, fm, form.ProductCategoria)
	fm.Update(keyRight)

	focusField(t, fm, form.ProductPreco)
	fm.Update(keyRunes("1234,5"))

	focusField(t, fm, form.ProductQuantidade)
	fm.Update(keyRunes("3 un"))

	focusField(t, fm, form.ProductMateriais)
	fm.Update(keySpace) // Madeira
	fm.Update(keyRight)
	fm.Update(keySpace) // Cerâmica on
	fm.Update(keySpace) // Cerâmica off

	focusField(t, fm, form.ProductDestaque)
	fm.Update(keySpace)
	focusField(t, fm, form.ProductDisponivel)
	fm.Update(keySpace)

	got := fm.State().Snapshot()
	if got.Nome != "Vaso" {
		t.Errorf("Nome = %q", got.Nome)
	}
	if got.Categoria != form.Categorias[0] {
		t.Errorf("Categoria = %q, want %q", got.Categoria, form.Categorias[0])
	}
	if got.Preco != "1234,5" {
		t.Errorf("Preco = %q, want 1234,5", got.Preco)
	}
	if got.Quantidade != "3" {
		t.Errorf("Quantidade = %q, want 3", got.Quantidade)
	}
	if diff := cmp.Diff([]string{"Madeira"}, got.Materiais); diff != "" {
		t.Errorf("Materiais mismatch (-want +got):\n%s", diff)
	}
	if !got.Destaque || got.Disponivel {
		t.Errorf("Destaque, Disponivel = %v, %v; want true, false", got.Destaque, got.Disponivel)
	}
	if in := fm.inputs[form.ProductPreco]; in.Value() != "R$ 1.234,5" {
		t.Errorf("preco input shows %q, want R$ 1.234,5", in.Value())
	}
}

func TestProductScreenPhotos(t *testing.T) {
	pool := preview.NewPool()
	defer pool.Close()
	fm := newProductScreen(t, pool)
	focusField(t, fm, form.ProductFotos)

	fm.Update(keyRunes(writePhoto(t, "vaso.png", pngHeader)))
	fm.Update(keyEnter)
	fm.Update(keyRunes(writePhoto(t, "cesta.png", pngHeader)))
	fm.Update(keyEnter)

	if n := len(fm.State().Snapshot().Fotos); n != 2 {
		t.Fatalf("photos = %d, want 2", n)
	}
	if pool.Live() != 2 {
		t.Errorf("live previews = %d, want 2", pool.Live())
	}
	view := fm.View()
	if !strings.Contains(view, "vaso.png") || !strings.Contains(view, "Principal") {
		t.Error("photo list missing from view")
	}

	fm.Update(keyRunes(writePhoto(t, "notas.txt", []byte("não é imagem"))))
	fm.Update(keyEnter)
	if n := len(fm.State().Snapshot().Fotos); n != 2 {
		t.Errorf("photos after rejected file = %d, want 2", n)
	}
	if fm.notice == "" {
		t.Error("expected a notice for the rejected file")
	}

	fm.photoInput.SetValue("")
	fm.Update(keyCtrlX)
	fotos := fm.State().Snapshot().Fotos
	if len(fotos) != 1 || fotos[0].Name() != "vaso.png" {
		t.Errorf("after removal photos = %v, want [vaso.png]", fotos)
	}
	if pool.Live() != 1 {
		t.Errorf("live previews = %d, want 1", pool.Live())
	}

	fm.Close()
	if pool.Live() != 0 {
		t.Errorf("live previews after Close = %d, want 0", pool.Live())
	}
}

func TestProductScreenWithoutSession(t *testing.T) {
	pool := preview.NewPool()
	defer pool.Close()

	r, events := captureRelay()
	client := api.NewClient("http://127.0.0.1:1")
	coord := submit.New(submit.ProductFlow, nil, r.observe)
	valid := form.ProductForm{
		Nome: "Vaso", Categoria: "Decoração", Descricao: "Barro", Preco: "89,90",
		Quantidade: "2", Materiais: []string{"Cerâmica"}, Fotos: []form.Photo{{Path: "vaso.png"}},
		Disponivel: true,
	}
	store := session.NewMemoryStore()
	fm := NewFormModel(context.Background(), "Cadastrar Produto", form.NewState(valid, pool), coord,
		func(f form.ProductForm) submit.Submission { return submit.Product(client, store, f) })
	defer fm.Close()

	submitAndSettle(t, fm, events)
	if got := fm.Outcome(); got.Status != submit.Failure || got.Message != submit.NotLoggedInMessage {
		t.Errorf("outcome = %+v, want not-logged-in failure", got)
	}
	if !strings.Contains(fm.View(), "Erro ao cadastrar produto: ") {
		t.Error("product failure banner missing")
	}
}

func TestWrapJoin(t *testing.T) {
	got := wrapJoin([]string{"aaaa", "bbbb", "cccc"}, "  ", 14, "  ")
	want := "  aaaa  bbbb\n  cccc"
	if got != want {
		t.Errorf("wrapJoin() = %q, want %q", got, want)
	}
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		12:           "12 B",
		2048:         "2 KB",
		3 * (1 << 20): "3.0 MB",
	}
	for in, want := range tests {
		if got := formatSize(in); got != want {
			t.Errorf("formatSize(%d) = %q, want %q", in, got, want)
		}
	}
}
