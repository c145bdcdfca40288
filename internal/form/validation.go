package form

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// CPF is checked against its full mask only. Check digits are not verified.
	cpfPattern = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
)

// Each Validate* function returns the message to show, or "" when the value
// passes. They never fail and never look at other fields unless asked to.

// ValidateRequired fails when the trimmed value is empty.
func ValidateRequired(value, msg string) string {
	if strings.TrimSpace(value) == "" {
		return msg
	}
	return ""
}

// IsEmail reports whether email has the local@domain.tld shape accepted by
// the forms.
func IsEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateEmail checks presence and a local@domain.tld shape.
func ValidateEmail(email string) string {
	if strings.TrimSpace(email) == "" {
		return "Email é obrigatório"
	}
	if !IsEmail(email) {
		return "Email inválido"
	}
	return ""
}

// ValidatePassword checks presence and minimum length.
func ValidatePassword(senha string) string {
	if senha == "" {
		return "Senha é obrigatória"
	}
	if utf8.RuneCountInString(senha) < MinPasswordLength {
		return "A senha deve ter pelo menos 6 caracteres"
	}
	return ""
}

// ValidatePasswordConfirmation compares both raw values exactly.
func ValidatePasswordConfirmation(senha, confirmacao string) string {
	if senha != confirmacao {
		return "As senhas não coincidem"
	}
	return ""
}

// ValidateCPF requires a fully masked CPF (DDD.DDD.DDD-DD).
func ValidateCPF(cpf string) string {
	if strings.TrimSpace(cpf) == "" {
		return "CPF é obrigatório"
	}
	if !cpfPattern.MatchString(cpf) {
		return "CPF inválido"
	}
	return ""
}

// ParsePrice converts a decimal-comma price ("1234,50") into a decimal.
// Thousands dots are not accepted; the stored value never contains them.
func ParsePrice(preco string) (decimal.Decimal, error) {
	s := strings.TrimSuffix(strings.TrimSpace(preco), ",")
	return decimal.NewFromString(strings.Replace(s, ",", ".", 1))
}

// ValidatePrice requires a number strictly greater than zero.
func ValidatePrice(preco string) string {
	if strings.TrimSpace(preco) == "" {
		return "Preço é obrigatório"
	}
	d, err := ParsePrice(preco)
	if err != nil || !d.IsPositive() {
		return "Preço deve ser um valor positivo"
	}
	return ""
}

// ParseQuantity parses a stock quantity.
func ParseQuantity(quantidade string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(quantidade))
}

// ValidateQuantity requires a non-negative integer.
func ValidateQuantity(quantidade string) string {
	if strings.TrimSpace(quantidade) == "" {
		return "Quantidade é obrigatória"
	}
	n, err := ParseQuantity(quantidade)
	if err != nil || n < 0 {
		return "Quantidade deve ser um valor não negativo"
	}
	return ""
}

// ValidateOptionalMeasure accepts an empty value or a non-negative number.
func ValidateOptionalMeasure(value, msg string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	d, err := ParsePrice(value)
	if err != nil || d.IsNegative() {
		return msg
	}
	return ""
}

// ValidateOptionalDays accepts an empty value or a whole number of days.
func ValidateOptionalDays(value, msg string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err != nil || n < 0 {
		return msg
	}
	return ""
}

// ValidateSelection requires at least one selected value.
func ValidateSelection(selected []string, msg string) string {
	if len(selected) == 0 {
		return msg
	}
	return ""
}

// ValidateChecked requires a ticked checkbox.
func ValidateChecked(checked bool, msg string) string {
	if !checked {
		return msg
	}
	return ""
}
