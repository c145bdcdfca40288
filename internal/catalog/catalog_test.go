package catalog

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/mirage/artesanato/internal/api"
	"github.com/mirage/artesanato/internal/session"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234.5", "R$ 1.234,50"},
		{"10", "R$ 10,00"},
		{"0.99", "R$ 0,99"},
		{"1000000", "R$ 1.000.000,00"},
		{"2.005", "R$ 2,01"},
	}
	for _, tt := range tests {
		got := FormatPrice(decimal.RequireFromString(tt.in))
		if got != tt.want {
			t.Errorf("FormatPrice(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"Vaso de barro":                           "Vaso de barro",
		"<b>Vaso</b> & prato":                     "Vaso & prato",
		"<script>alert(1)</script>Cesta":          "Cesta",
		"  linha um\n\n  linha   dois ":          "linha um linha dois",
		`<a href="javascript:x">Renda</a> fina`: "Renda fina",
	}
	for in, want := range tests {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

type fakeSource struct {
	all      *api.Response
	byArtist map[api.ID]*api.Response
	asked    []api.ID
}

func (f *fakeSource) ListProducts(context.Context) (*api.Response, error) {
	return f.all, nil
}

func (f *fakeSource) ListArtisanProducts(_ context.Context, id api.ID) (*api.Response, error) {
	f.asked = append(f.asked, id)
	if r, ok := f.byArtist[id]; ok {
		return r, nil
	}
	return &api.Response{Status: http.StatusNotFound, Data: []byte(`{"detail":"artesão não encontrado"}`)}, nil
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{
		all: &api.Response{Status: http.StatusOK, Data: []byte(
			`[{"id":1,"nome":"Vaso","descricao":"<i>Barro</i> cozido","preco":89.9},{"id":"2","nome":"Cesta","descricao":"Palha","preco":"25"}]`)},
		byArtist: map[api.ID]*api.Response{
			"7": {Status: http.StatusOK, Data: []byte(`[]`)},
		},
	}

	got, err := Fetch(ctx, src, session.NewMemoryStore(), false)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	want := []Entry{
		{ID: "1", Nome: "Vaso", Preco: "R$ 89,90", Descricao: "Barro cozido"},
		{ID: "2", Nome: "Cesta", Preco: "R$ 25,00", Descricao: "Palha"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fetch() mismatch (-want +got):\n%s", diff)
	}

	if _, err := Fetch(ctx, src, session.NewMemoryStore(), true); err != session.ErrNotLoggedIn {
		t.Errorf("Fetch(mine) without session error = %v, want ErrNotLoggedIn", err)
	}

	store := session.NewMemoryStore()
	if err := session.Save(ctx, store, session.Session{ID: "7", Nome: "Ana"}); err != nil {
		t.Fatal(err)
	}
	got, err = Fetch(ctx, src, store, true)
	if err != nil {
		t.Fatalf("Fetch(mine) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Fetch(mine) = %v, want empty", got)
	}
	if diff := cmp.Diff([]api.ID{"7"}, src.asked); diff != "" {
		t.Errorf("artisan ids asked (-want +got):\n%s", diff)
	}

	if err := session.Save(ctx, store, session.Session{ID: "99"}); err != nil {
		t.Fatal(err)
	}
	_, err = Fetch(ctx, src, store, true)
	if err == nil || err.Error() != "HTTP Error: HTTP 404: artesão não encontrado" {
		t.Errorf("Fetch(mine) for unknown artisan error = %v", err)
	}
}
