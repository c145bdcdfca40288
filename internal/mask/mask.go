package mask

import (
	"strings"
)

// Kind identifies a display mask.
type Kind int

const (
	// None leaves input untouched.
	None Kind = iota
	// CPF renders DDD.DDD.DDD-DD.
	CPF
	// CEP renders DDDDD-DDD.
	CEP
	// Phone renders (DD) DDDDD-DDDD, or (DD) DDDD-DDDD for landlines.
	Phone
	// Currency renders R$ 1.234,56.
	Currency
)

const (
	cpfDigits   = 11
	cepDigits   = 8
	phoneDigits = 11

	// CurrencySymbol prefixes every Currency rendering.
	CurrencySymbol = "R$ "
)

// String returns the lowercase name of the mask kind.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case CPF:
		return "cpf"
	case CEP:
		return "cep"
	case Phone:
		return "phone"
	case Currency:
		return "currency"
	default:
		return "unknown"
	}
}

// Format turns raw input into its masked display form. It accepts anything,
// including its own output, and always returns the best partial rendering.
func Format(kind Kind, raw string) string {
	switch kind {
	case CPF:
		return formatCPF(raw)
	case CEP:
		return formatCEP(raw)
	case Phone:
		return formatPhone(raw)
	case Currency:
		return formatCurrency(raw)
	default:
		return raw
	}
}

// Unmask returns the semantic value behind a display string: the digits for
// CPF, CEP and Phone, and the digits plus decimal comma for Currency.
func Unmask(kind Kind, display string) string {
	switch kind {
	case CPF, CEP, Phone:
		return Digits(display)
	case Currency:
		return keepDigitsAndComma(display)
	default:
		return display
	}
}

// Digits strips every rune that is not an ASCII digit.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func keepDigitsAndComma(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; (c >= '0' && c <= '9') || c == ',' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func formatCPF(raw string) string {
	d := truncate(Digits(raw), cpfDigits)

	formatted := d
	if len(d) > 3 {
		formatted = d[:3] + "." + d[3:]
	}
	if len(d) > 6 {
		formatted = d[:3] + "." + d[3:6] + "." + d[6:]
	}
	if len(d) > 9 {
		formatted = d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	}
	return formatted
}

func formatCEP(raw string) string {
	d := truncate(Digits(raw), cepDigits)
	if len(d) > 5 {
		return d[:5] + "-" + d[5:]
	}
	return d
}

func formatPhone(raw string) string {
	d := truncate(Digits(raw), phoneDigits)
	if len(d) == 0 {
		return ""
	}
	if len(d) <= 2 {
		return "(" + d
	}

	area, local := d[:2], d[2:]
	// Nine-digit mobile numbers split 5-4; anything shorter splits after four.
	split := 4
	if len(d) == phoneDigits {
		split = 5
	}
	if len(local) > split {
		local = local[:split] + "-" + local[split:]
	}
	return "(" + area + ") " + local
}

func formatCurrency(raw string) string {
	cleaned := keepDigitsAndComma(raw)
	if cleaned == "" {
		return CurrencySymbol
	}

	intPart, decPart, hasComma := strings.Cut(cleaned, ",")
	// Extra commas are dropped; their digits stay in the fractional part.
	decPart = strings.ReplaceAll(decPart, ",", "")
	if len(decPart) > 2 {
		decPart = decPart[:2]
	}

	out := CurrencySymbol + groupThousands(intPart)
	if hasComma {
		out += "," + decPart
	}
	return out
}

// groupThousands inserts a dot between every group of three digits counted
// from the right.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
