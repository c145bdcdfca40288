package form

import (
	"slices"
	"strings"

	"github.com/mirage/artesanato/internal/mask"
	"github.com/mirage/artesanato/internal/preview"
)

// Product field names. Dimensions live in the "dimensoes" group.
const (
	ProductNome          Name = "nome"
	ProductCategoria     Name = "categoria"
	ProductDescricao     Name = "descricao"
	ProductPreco         Name = "preco"
	ProductQuantidade    Name = "quantidade"
	ProductPeso          Name = "peso"
	ProductAltura        Name = "dimensoes.altura"
	ProductLargura       Name = "dimensoes.largura"
	ProductComprimento   Name = "dimensoes.comprimento"
	ProductTempoProducao Name = "tempoProducao"
	ProductMateriais     Name = "materiais"
	ProductCores         Name = "cores"
	ProductFotos         Name = "fotos"
	ProductDestaque      Name = "destaque"
	ProductDisponivel    Name = "disponivel"
)

// Categorias lists the product categories offered by the marketplace.
var Categorias = []string{
	"Decoração", "Utilitários", "Acessórios", "Vestuário", "Joias",
	"Brinquedos", "Papelaria", "Móveis", "Outros",
}

// Materiais lists the materials a product can be made of.
var Materiais = []string{
	"Madeira", "Cerâmica", "Tecido", "Couro", "Metal", "Vidro", "Papel",
	"Pedra", "Fibras naturais", "Plástico reciclado", "Outros",
}

// Cores lists the colours a product can be offered in.
var Cores = []string{
	"Branco", "Preto", "Vermelho", "Azul", "Verde", "Amarelo", "Marrom",
	"Bege", "Cinza", "Rosa", "Roxo", "Laranja", "Dourado", "Prateado",
	"Multicolorido",
}

var productFields = []Field{
	{Name: ProductNome, Label: "Nome do Produto", Kind: KindText, Required: true, CharLimit: 120},
	{Name: ProductCategoria, Label: "Categoria", Kind: KindSelect, Required: true, Options: Categorias},
	{Name: ProductPreco, Label: "Preço", Kind: KindText, Mask: mask.Currency, Required: true, Placeholder: "R$ 0,00", CharLimit: 16},
	{Name: ProductDescricao, Label: "Descrição", Kind: KindTextArea, Required: true, CharLimit: 2000},
	{Name: ProductQuantidade, Label: "Quantidade em Estoque", Kind: KindText, Numeric: true, Required: true, CharLimit: 6},
	{Name: ProductPeso, Label: "Peso (em gramas)", Kind: KindText, Numeric: true, CharLimit: 8},
	{Name: ProductAltura, Label: "Altura (cm)", Kind: KindText, Numeric: true, CharLimit: 6},
	{Name: ProductLargura, Label: "Largura (cm)", Kind: KindText, Numeric: true, CharLimit: 6},
	{Name: ProductComprimento, Label: "Comprimento (cm)", Kind: KindText, Numeric: true, CharLimit: 6},
	{Name: ProductTempoProducao, Label: "Tempo de Produção (dias)", Kind: KindText, Numeric: true, CharLimit: 4},
	{Name: ProductMateriais, Label: "Materiais Utilizados", Kind: KindMultiSelect, Required: true, Options: Materiais},
	{Name: ProductCores, Label: "Cores", Kind: KindMultiSelect, Options: Cores},
	{Name: ProductFotos, Label: "Fotos", Kind: KindFiles, Required: true},
	{Name: ProductDestaque, Label: "Produto em destaque", Kind: KindCheckbox},
	{Name: ProductDisponivel, Label: "Produto disponível para venda", Kind: KindCheckbox},
}

// Dimensoes is the product's size group, in centimetres.
type Dimensoes struct {
	Altura      string
	Largura     string
	Comprimento string
}

// Photo is one selected product photo together with its live preview.
type Photo struct {
	Path    string
	Preview *preview.Handle
}

// Name returns the base name of the photo file.
func (p Photo) Name() string {
	if p.Preview != nil {
		return p.Preview.Name()
	}
	if i := strings.LastIndexAny(p.Path, `/\`); i >= 0 {
		return p.Path[i+1:]
	}
	return p.Path
}

// ProductForm is the product registration snapshot.
type ProductForm struct {
	Nome          string
	Categoria     string
	Descricao     string
	Preco         string // digits and decimal comma, e.g. "1234,5"
	Quantidade    string
	Peso          string
	Dimensoes     Dimensoes
	TempoProducao string
	Materiais     []string
	Cores         []string
	Fotos         []Photo
	Destaque      bool
	Disponivel    bool
}

// NewProductForm returns a product form with its declared defaults.
func NewProductForm() ProductForm {
	return ProductForm{Disponivel: true}
}

func (f ProductForm) Fields() []Field { return productFields }

func (f ProductForm) Text(name Name) string {
	switch name {
	case ProductNome:
		return f.Nome
	case ProductCategoria:
		return f.Categoria
	case ProductDescricao:
		return f.Descricao
	case ProductPreco:
		return f.Preco
	case ProductQuantidade:
		return f.Quantidade
	case ProductPeso:
		return f.Peso
	case ProductAltura:
		return f.Dimensoes.Altura
	case ProductLargura:
		return f.Dimensoes.Largura
	case ProductComprimento:
		return f.Dimensoes.Comprimento
	case ProductTempoProducao:
		return f.TempoProducao
	}
	return ""
}

func (f ProductForm) WithText(name Name, value string) (ProductForm, error) {
	switch name {
	case ProductNome:
		f.Nome = value
	case ProductCategoria:
		f.Categoria = value
	case ProductDescricao:
		f.Descricao = value
	case ProductPreco:
		f.Preco = value
	case ProductQuantidade:
		f.Quantidade = value
	case ProductPeso:
		f.Peso = value
	case ProductAltura:
		f.Dimensoes.Altura = value
	case ProductLargura:
		f.Dimensoes.Largura = value
	case ProductComprimento:
		f.Dimensoes.Comprimento = value
	case ProductTempoProducao:
		f.TempoProducao = value
	default:
		return f, unknownField(name)
	}
	return f, nil
}

func (f ProductForm) Checked(name Name) bool {
	switch name {
	case ProductDestaque:
		return f.Destaque
	case ProductDisponivel:
		return f.Disponivel
	}
	return false
}

func (f ProductForm) WithChecked(name Name, checked bool) (ProductForm, error) {
	switch name {
	case ProductDestaque:
		f.Destaque = checked
	case ProductDisponivel:
		f.Disponivel = checked
	default:
		return f, unknownField(name)
	}
	return f, nil
}

func (f ProductForm) Selected(name Name) []string {
	switch name {
	case ProductMateriais:
		return slices.Clone(f.Materiais)
	case ProductCores:
		return slices.Clone(f.Cores)
	}
	return nil
}

func (f ProductForm) WithSelected(name Name, values []string) (ProductForm, error) {
	switch name {
	case ProductMateriais:
		f.Materiais = slices.Clone(values)
	case ProductCores:
		f.Cores = slices.Clone(values)
	default:
		return f, unknownField(name)
	}
	return f, nil
}

// Photos returns a copy of the photo sequence.
func (f ProductForm) Photos() []Photo { return slices.Clone(f.Fotos) }

// WithPhotos returns a snapshot holding a copy of photos.
func (f ProductForm) WithPhotos(photos []Photo) ProductForm {
	f.Fotos = slices.Clone(photos)
	return f
}

// Validate runs every product rule. Optional measures are checked only when
// filled in.
func (f ProductForm) Validate() Errors {
	errs := Errors{}
	errs.set(ProductNome, ValidateRequired(f.Nome, "Nome do produto é obrigatório"))
	errs.set(ProductCategoria, validateCategoria(f.Categoria))
	errs.set(ProductDescricao, ValidateRequired(f.Descricao, "Descrição é obrigatória"))
	errs.set(ProductPreco, ValidatePrice(f.Preco))
	errs.set(ProductQuantidade, ValidateQuantity(f.Quantidade))
	errs.set(ProductPeso, ValidateOptionalMeasure(f.Peso, "Peso inválido"))
	errs.set(ProductAltura, ValidateOptionalMeasure(f.Dimensoes.Altura, "Altura inválida"))
	errs.set(ProductLargura, ValidateOptionalMeasure(f.Dimensoes.Largura, "Largura inválida"))
	errs.set(ProductComprimento, ValidateOptionalMeasure(f.Dimensoes.Comprimento, "Comprimento inválido"))
	errs.set(ProductTempoProducao, ValidateOptionalDays(f.TempoProducao, "Tempo de produção inválido"))
	errs.set(ProductMateriais, ValidateSelection(f.Materiais, "Selecione pelo menos um material"))
	if len(f.Fotos) == 0 {
		errs.set(ProductFotos, "Adicione pelo menos uma foto do produto")
	}
	return errs
}

func validateCategoria(categoria string) string {
	if msg := ValidateRequired(categoria, "Categoria é obrigatória"); msg != "" {
		return msg
	}
	if !slices.Contains(Categorias, categoria) {
		return "Categoria inválida"
	}
	return ""
}
