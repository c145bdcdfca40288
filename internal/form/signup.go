package form

import (
	"slices"

	"github.com/mirage/artesanato/internal/mask"
)

// Artisan signup field names. Address fields live in the "endereco" group.
const (
	SignupNome           Name = "nome"
	SignupEmail          Name = "email"
	SignupSenha          Name = "senha"
	SignupConfirmarSenha Name = "confirmarSenha"
	SignupCPF            Name = "cpf"
	SignupTelefone       Name = "telefone"
	SignupCEP            Name = "endereco.cep"
	SignupRua            Name = "endereco.rua"
	SignupNumero         Name = "endereco.numero"
	SignupComplemento    Name = "endereco.complemento"
	SignupBairro         Name = "endereco.bairro"
	SignupCidade         Name = "endereco.cidade"
	SignupEstado         Name = "endereco.estado"
	SignupEspecialidades Name = "especialidades"
	SignupTermos         Name = "termos"
)

// Especialidades lists the crafts an artisan can declare.
var Especialidades = []string{
	"Cerâmica", "Marcenaria", "Tecelagem", "Bordado", "Crochê", "Tricô",
	"Costura", "Joalheria", "Couro", "Cestaria", "Pintura", "Escultura",
	"Macramê", "Papelaria", "Outros",
}

// Estados lists the Brazilian federative units.
var Estados = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS",
	"MG", "PA", "PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC",
	"SP", "SE", "TO",
}

var signupFields = []Field{
	{Name: SignupNome, Label: "Nome completo", Kind: KindText, Required: true, CharLimit: 120},
	{Name: SignupEmail, Label: "Email", Kind: KindEmail, Required: true, Placeholder: "voce@exemplo.com", CharLimit: 254},
	{Name: SignupSenha, Label: "Senha", Kind: KindPassword, Required: true, CharLimit: 128},
	{Name: SignupConfirmarSenha, Label: "Confirmar senha", Kind: KindPassword, Required: true, CharLimit: 128},
	{Name: SignupCPF, Label: "CPF", Kind: KindText, Mask: mask.CPF, Required: true, Placeholder: "000.000.000-00", CharLimit: 14},
	{Name: SignupTelefone, Label: "Telefone", Kind: KindText, Mask: mask.Phone, Required: true, Placeholder: "(00) 00000-0000", CharLimit: 15},
	{Name: SignupCEP, Label: "CEP", Kind: KindText, Mask: mask.CEP, Required: true, Placeholder: "00000-000", CharLimit: 9},
	{Name: SignupRua, Label: "Rua", Kind: KindText, Required: true, CharLimit: 120},
	{Name: SignupNumero, Label: "Número", Kind: KindText, Required: true, CharLimit: 10},
	{Name: SignupComplemento, Label: "Complemento", Kind: KindText, CharLimit: 60},
	{Name: SignupBairro, Label: "Bairro", Kind: KindText, Required: true, CharLimit: 80},
	{Name: SignupCidade, Label: "Cidade", Kind: KindText, Required: true, CharLimit: 80},
	{Name: SignupEstado, Label: "Estado", Kind: KindSelect, Required: true, Options: Estados},
	{Name: SignupEspecialidades, Label: "Especialidades", Kind: KindMultiSelect, Required: true, Options: Especialidades},
	{Name: SignupTermos, Label: "Concordo com os Termos de Uso e Política de Privacidade", Kind: KindCheckbox, Required: true},
}

// Endereco is the artisan's address group.
type Endereco struct {
	CEP         string
	Rua         string
	Numero      string
	Complemento string
	Bairro      string
	Cidade      string
	Estado      string
}

// SignupForm is the artisan registration snapshot.
type SignupForm struct {
	Nome           string
	Email          string
	Senha          string
	ConfirmarSenha string
	CPF            string
	Telefone       string
	Endereco       Endereco
	Especialidades []string
	Termos         bool
}

// NewSignupForm returns an empty registration form.
func NewSignupForm() SignupForm { return SignupForm{} }

func (f SignupForm) Fields() []Field { return signupFields }

func (f SignupForm) Text(name Name) string {
	switch name {
	case SignupNome:
		return f.Nome
	case SignupEmail:
		return f.Email
	case SignupSenha:
		return f.Senha
	case SignupConfirmarSenha:
		return f.ConfirmarSenha
	case SignupCPF:
		return f.CPF
	case SignupTelefone:
		return f.Telefone
	case SignupCEP:
		return f.Endereco.CEP
	case SignupRua:
		return f.Endereco.Rua
	case SignupNumero:
		return f.Endereco.Numero
	case SignupComplemento:
		return f.Endereco.Complemento
	case SignupBairro:
		return f.Endereco.Bairro
	case SignupCidade:
		return f.Endereco.Cidade
	case SignupEstado:
		return f.Endereco.Estado
	}
	return ""
}

func (f SignupForm) WithText(name Name, value string) (SignupForm, error) {
	switch name {
	case SignupNome:
		f.Nome = value
	case SignupEmail:
		f.Email = value
	case SignupSenha:
		f.Senha = value
	case SignupConfirmarSenha:
		f.ConfirmarSenha = value
	case SignupCPF:
		f.CPF = value
	case SignupTelefone:
		f.Telefone = value
	case SignupCEP:
		f.Endereco.CEP = value
	case SignupRua:
		f.Endereco.Rua = value
	case SignupNumero:
		f.Endereco.Numero = value
	case SignupComplemento:
		f.Endereco.Complemento = value
	case SignupBairro:
		f.Endereco.Bairro = value
	case SignupCidade:
		f.Endereco.Cidade = value
	case SignupEstado:
		f.Endereco.Estado = value
	default:
		return f, unknownField(name)
	}
	return f, nil
}

func (f SignupForm) Checked(name Name) bool {
	return name == SignupTermos && f.Termos
}

func (f SignupForm) WithChecked(name Name, checked bool) (SignupForm, error) {
	if name != SignupTermos {
		return f, unknownField(name)
	}
	f.Termos = checked
	return f, nil
}

func (f SignupForm) Selected(name Name) []string {
	if name == SignupEspecialidades {
		return slices.Clone(f.Especialidades)
	}
	return nil
}

func (f SignupForm) WithSelected(name Name, values []string) (SignupForm, error) {
	if name != SignupEspecialidades {
		return f, unknownField(name)
	}
	f.Especialidades = slices.Clone(values)
	return f, nil
}

// Validate runs every signup rule. No rule stops another from running.
func (f SignupForm) Validate() Errors {
	errs := Errors{}
	errs.set(SignupNome, ValidateRequired(f.Nome, "Nome é obrigatório"))
	errs.set(SignupEmail, ValidateEmail(f.Email))
	errs.set(SignupSenha, ValidatePassword(f.Senha))
	errs.set(SignupConfirmarSenha, ValidatePasswordConfirmation(f.Senha, f.ConfirmarSenha))
	errs.set(SignupCPF, ValidateCPF(f.CPF))
	errs.set(SignupTelefone, ValidateRequired(f.Telefone, "Telefone é obrigatório"))
	errs.set(SignupCEP, ValidateRequired(f.Endereco.CEP, "CEP é obrigatório"))
	errs.set(SignupRua, ValidateRequired(f.Endereco.Rua, "Rua é obrigatória"))
	errs.set(SignupNumero, ValidateRequired(f.Endereco.Numero, "Número é obrigatório"))
	errs.set(SignupBairro, ValidateRequired(f.Endereco.Bairro, "Bairro é obrigatório"))
	errs.set(SignupCidade, ValidateRequired(f.Endereco.Cidade, "Cidade é obrigatória"))
	errs.set(SignupEstado, ValidateRequired(f.Endereco.Estado, "Estado é obrigatório"))
	errs.set(SignupEspecialidades, ValidateSelection(f.Especialidades, "Selecione pelo menos uma especialidade"))
	errs.set(SignupTermos, ValidateChecked(f.Termos, "Você precisa aceitar os termos de uso"))
	return errs
}
