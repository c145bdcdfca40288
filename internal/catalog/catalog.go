package catalog

import (
	"context"
	"html"
	"net/http"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mirage/artesanato/internal/api"
	"github.com/mirage/artesanato/internal/logging"
	"github.com/mirage/artesanato/internal/session"
)

// EmptyMessage is shown when a listing has no products.
const EmptyMessage = "Nenhum produto cadastrado ou você não está logado."

// Entry is one product ready for display.
type Entry struct {
	ID        string `json:"id"`
	Nome      string `json:"nome"`
	Preco     string `json:"preco"`
	Descricao string `json:"descricao"`
}

// Source lists products. *api.Client implements it.
type Source interface {
	ListProducts(ctx context.Context) (*api.Response, error)
	ListArtisanProducts(ctx context.Context, artesaoID api.ID) (*api.Response, error)
}

var (
	printer = message.NewPrinter(language.BrazilianPortuguese)

	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// FormatPrice renders a price in reais, e.g. "R$ 1.234,50".
func FormatPrice(d decimal.Decimal) string {
	return printer.Sprintf("R$ %.2f", d.Round(2).InexactFloat64())
}

// Sanitize strips markup from backend-supplied text and collapses runs of
// whitespace.
func Sanitize(s string) string {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	cleaned := html.UnescapeString(policy.Sanitize(s))
	return strings.Join(strings.Fields(cleaned), " ")
}

// Build turns backend products into display entries, keeping their order.
func Build(products []api.Product) []Entry {
	entries := make([]Entry, 0, len(products))
	for _, p := range products {
		entries = append(entries, Entry{
			ID:        p.ID.String(),
			Nome:      Sanitize(p.Nome),
			Preco:     FormatPrice(p.Preco),
			Descricao: Sanitize(p.Descricao),
		})
	}
	return entries
}

// Fetch loads the listing. With mine set only the logged-in artisan's
// products are listed, and a missing session yields session.ErrNotLoggedIn.
func Fetch(ctx context.Context, src Source, store session.Store, mine bool) ([]Entry, error) {
	var (
		resp *api.Response
		err  error
	)
	if mine {
		s, lerr := session.Load(ctx, store)
		if lerr != nil {
			return nil, lerr
		}
		resp, err = src.ListArtisanProducts(ctx, api.ID(s.ID))
	} else {
		resp, err = src.ListProducts(ctx)
	}
	if err != nil {
		return nil, err
	}

	if !resp.Accepted(http.StatusOK) {
		return nil, api.NewHTTPError(resp.Status, resp.Detail())
	}
	// An empty body is an empty listing.
	if len(resp.Data) == 0 {
		return []Entry{}, nil
	}

	products, err := api.DecodeProducts(resp)
	if err != nil {
		return nil, err
	}
	logging.Debug("Loaded product listing", zap.Int("count", len(products)), zap.Bool("mine", mine))
	return Build(products), nil
}
