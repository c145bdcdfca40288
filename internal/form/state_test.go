package form

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mirage/artesanato/internal/preview"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func writePhotos(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(names))
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, pngHeader, 0600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		paths = append(paths, p)
	}
	return paths
}

func photoNames(f ProductForm) []string {
	var names []string
	for _, p := range f.Fotos {
		names = append(names, p.Name())
	}
	return names
}

func TestStateOnFieldChangeAppliesMasks(t *testing.T) {
	s := NewState(NewSignupForm(), nil)

	steps := []struct {
		name Name
		raw  string
		want string
	}{
		{SignupCPF, "12345678901", "123.456.789-01"},
		{SignupCPF, "123.456.789-0123", "123.456.789-01"},
		{SignupTelefone, "84998765432", "(84) 99876-5432"},
		{SignupCEP, "59000000", "59000-000"},
		{SignupRua, "  Rua das Rendeiras ", "  Rua das Rendeiras "},
	}

	for _, st := range steps {
		got, err := s.OnFieldChange(st.name, st.raw)
		if err != nil {
			t.Fatalf("OnFieldChange(%s) error = %v", st.name, err)
		}
		if v := got.Text(st.name); v != st.want {
			t.Errorf("OnFieldChange(%s, %q) stored %q, want %q", st.name, st.raw, v, st.want)
		}
	}
}

func TestStateCurrencyField(t *testing.T) {
	s := NewState(NewProductForm(), nil)

	got, err := s.OnFieldChange(ProductPreco, "R$ 1.234,5")
	if err != nil {
		t.Fatalf("OnFieldChange() error = %v", err)
	}
	if got.Preco != "1234,5" {
		t.Errorf("stored price = %q, want 1234,5", got.Preco)
	}
	if d := s.Display(ProductPreco); d != "R$ 1.234,5" {
		t.Errorf("Display() = %q, want R$ 1.234,5", d)
	}

	got, _ = s.OnFieldChange(ProductQuantidade, "12 unidades")
	if got.Quantidade != "12" {
		t.Errorf("stored quantity = %q, want 12", got.Quantidade)
	}
}

func TestStateCurrencyStoresWhatIsShown(t *testing.T) {
	tests := []struct {
		raw     string
		stored  string
		display string
		price   string
	}{
		{raw: "10,505", stored: "10,50", display: "R$ 10,50", price: "10.5"},
		{raw: "1,2,3", stored: "1,23", display: "R$ 1,23", price: "1.23"},
		{raw: "12,", stored: "12,", display: "R$ 12,", price: "12"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			s := NewState(NewProductForm(), nil)
			got, err := s.OnFieldChange(ProductPreco, tt.raw)
			if err != nil {
				t.Fatalf("OnFieldChange() error = %v", err)
			}
			if got.Preco != tt.stored {
				t.Errorf("stored price = %q, want %q", got.Preco, tt.stored)
			}
			if d := s.Display(ProductPreco); d != tt.display {
				t.Errorf("Display() = %q, want %q", d, tt.display)
			}
			if msg := s.Validate()[ProductPreco]; msg != "" {
				t.Errorf("price error = %q, want none", msg)
			}
			d, err := ParsePrice(got.Preco)
			if err != nil {
				t.Fatalf("ParsePrice(%q) error = %v", got.Preco, err)
			}
			if d.String() != tt.price {
				t.Errorf("ParsePrice(%q) = %s, want %s", got.Preco, d.String(), tt.price)
			}
		})
	}
}

func TestStateSelectAndCheckbox(t *testing.T) {
	s := NewState(NewProductForm(), nil)

	if _, err := s.OnFieldChange(ProductCategoria, "Joias"); err != nil {
		t.Fatalf("OnFieldChange(categoria) error = %v", err)
	}
	if _, err := s.OnFieldChange(ProductCategoria, "Eletrônicos"); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("OnFieldChange(invalid categoria) error = %v, want ErrInvalidOption", err)
	}
	if s.Snapshot().Categoria != "Joias" {
		t.Errorf("Categoria = %q, want Joias", s.Snapshot().Categoria)
	}

	if _, err := s.OnFieldChange(ProductDisponivel, "false"); err != nil {
		t.Fatalf("OnFieldChange(disponivel) error = %v", err)
	}
	if s.Snapshot().Disponivel {
		t.Error("Disponivel = true after unchecking")
	}
	if _, err := s.OnCheckboxChange(ProductDestaque, true); err != nil {
		t.Fatalf("OnCheckboxChange() error = %v", err)
	}
	if !s.Snapshot().Destaque {
		t.Error("Destaque = false after checking")
	}
}

func TestStateUnknownField(t *testing.T) {
	s := NewState(NewLoginForm(), nil)
	before := s.Snapshot()

	if _, err := s.OnFieldChange("endereco.cep", "59000000"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("OnFieldChange() error = %v, want ErrUnknownField", err)
	}
	if _, err := s.OnMultiSelectToggle("materiais", "Madeira", true); !errors.Is(err, ErrUnknownField) {
		t.Errorf("OnMultiSelectToggle() error = %v, want ErrUnknownField", err)
	}
	if _, err := s.OnFileAdd("x.png"); !errors.Is(err, ErrNoPhotos) {
		t.Errorf("OnFileAdd() error = %v, want ErrNoPhotos", err)
	}
	if s.Snapshot() != before {
		t.Error("snapshot changed after rejected events")
	}
}

func TestStateOnMultiSelectToggle(t *testing.T) {
	s := NewState(NewProductForm(), nil)

	first, _ := s.OnMultiSelectToggle(ProductMateriais, "Madeira", true)
	s.OnMultiSelectToggle(ProductMateriais, "Couro", true)
	s.OnMultiSelectToggle(ProductMateriais, "Madeira", true)
	s.OnMultiSelectToggle(ProductMateriais, "Ouro", true)

	if diff := cmp.Diff([]string{"Madeira", "Couro"}, s.Snapshot().Materiais); diff != "" {
		t.Errorf("Materiais mismatch (-want +got):\n%s", diff)
	}

	s.OnMultiSelectToggle(ProductMateriais, "Madeira", false)
	if diff := cmp.Diff([]string{"Couro"}, s.Snapshot().Materiais); diff != "" {
		t.Errorf("Materiais after uncheck mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"Madeira"}, first.Materiais); diff != "" {
		t.Errorf("earlier snapshot was modified (-want +got):\n%s", diff)
	}
}

func TestStateFilesAndPreviews(t *testing.T) {
	pool := preview.NewPool()
	s := NewState(NewProductForm(), pool)

	paths := writePhotos(t, "a.png", "b.png", "c.png")
	if _, err := s.OnFileAdd(paths...); err != nil {
		t.Fatalf("OnFileAdd() error = %v", err)
	}
	if pool.Live() != 3 {
		t.Fatalf("Live() = %d, want 3", pool.Live())
	}
	before := s.Snapshot()
	removedHandle := before.Fotos[1].Preview

	after, err := s.OnFileRemove(1)
	if err != nil {
		t.Fatalf("OnFileRemove() error = %v", err)
	}

	if diff := cmp.Diff([]string{"a.png", "c.png"}, photoNames(after)); diff != "" {
		t.Errorf("photos after removal mismatch (-want +got):\n%s", diff)
	}
	if !removedHandle.Released() {
		t.Error("removed photo's preview was not released")
	}
	if pool.Live() != 2 {
		t.Errorf("Live() = %d, want 2", pool.Live())
	}
	if diff := cmp.Diff([]string{"a.png", "b.png", "c.png"}, photoNames(before)); diff != "" {
		t.Errorf("earlier snapshot was modified (-want +got):\n%s", diff)
	}

	if _, err := s.OnFileRemove(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("OnFileRemove(5) error = %v, want ErrIndexOutOfRange", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if pool.Live() != 0 {
		t.Errorf("Live() = %d after Close, want 0", pool.Live())
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestStateOnFileAddRollsBack(t *testing.T) {
	pool := preview.NewPool()
	defer pool.Close()
	s := NewState(NewProductForm(), pool)

	good := writePhotos(t, "ok.png")
	bad := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(bad, []byte("texto"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := s.OnFileAdd(good[0], bad); !errors.Is(err, preview.ErrNotImage) {
		t.Fatalf("OnFileAdd() error = %v, want ErrNotImage", err)
	}
	if len(s.Snapshot().Fotos) != 0 {
		t.Errorf("Fotos = %d after failed add, want 0", len(s.Snapshot().Fotos))
	}
	if pool.Live() != 0 {
		t.Errorf("Live() = %d after failed add, want 0", pool.Live())
	}
}

func TestStateValidateStoresErrors(t *testing.T) {
	s := NewState(NewLoginForm(), nil)
	errs := s.Validate()
	if errs.Valid() {
		t.Fatal("empty login form validated")
	}
	if diff := cmp.Diff(errs, s.Errors()); diff != "" {
		t.Errorf("Errors() differs from Validate():\n%s", diff)
	}

	s.OnFieldChange(LoginEmail, "ana@mirage.com")
	s.OnFieldChange(LoginSenha, "segredo")
	if errs := s.Validate(); !errs.Valid() {
		t.Errorf("Validate() = %v, want valid", errs)
	}
	s.ClearErrors()
	if !s.Errors().Valid() {
		t.Error("ClearErrors() left messages behind")
	}

	earlier := Errors{LoginEmail: "Email inválido"}
	s.SetErrors(earlier)
	earlier[LoginSenha] = "changed later"
	if diff := cmp.Diff(Errors{LoginEmail: "Email inválido"}, s.Errors()); diff != "" {
		t.Errorf("SetErrors() did not keep a copy (-want +got):\n%s", diff)
	}
	s.SetErrors(nil)
	if s.Errors() == nil || !s.Errors().Valid() {
		t.Error("SetErrors(nil) should leave an empty mapping")
	}
}
