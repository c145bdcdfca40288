package form

// Login field names.
const (
	LoginEmail Name = "email"
	LoginSenha Name = "senha"
)

var loginFields = []Field{
	{Name: LoginEmail, Label: "Email", Kind: KindEmail, Required: true, Placeholder: "voce@exemplo.com", CharLimit: 254},
	{Name: LoginSenha, Label: "Senha", Kind: KindPassword, Required: true, CharLimit: 128},
}

// LoginForm is the artisan login snapshot.
type LoginForm struct {
	Email string
	Senha string
}

// NewLoginForm returns an empty login form.
func NewLoginForm() LoginForm { return LoginForm{} }

func (f LoginForm) Fields() []Field { return loginFields }

func (f LoginForm) Text(name Name) string {
	switch name {
	case LoginEmail:
		return f.Email
	case LoginSenha:
		return f.Senha
	}
	return ""
}

func (f LoginForm) WithText(name Name, value string) (LoginForm, error) {
	switch name {
	case LoginEmail:
		f.Email = value
	case LoginSenha:
		f.Senha = value
	default:
		return f, unknownField(name)
	}
	return f, nil
}

func (f LoginForm) Checked(Name) bool { return false }

func (f LoginForm) WithChecked(name Name, _ bool) (LoginForm, error) {
	return f, unknownField(name)
}

func (f LoginForm) Selected(Name) []string { return nil }

func (f LoginForm) WithSelected(name Name, _ []string) (LoginForm, error) {
	return f, unknownField(name)
}

// Validate checks email shape and password length.
func (f LoginForm) Validate() Errors {
	errs := Errors{}
	errs.set(LoginEmail, ValidateEmail(f.Email))
	errs.set(LoginSenha, ValidatePassword(f.Senha))
	return errs
}
