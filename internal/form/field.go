package form

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/mirage/artesanato/internal/mask"
)

// Name is the dotted path of a declared field, e.g. "endereco.cep".
type Name string

// Group returns the parent group of a nested name ("endereco" for
// "endereco.cep"), or "" for top-level fields.
func (n Name) Group() string {
	if i := strings.LastIndexByte(string(n), '.'); i >= 0 {
		return string(n[:i])
	}
	return ""
}

// Kind is the input widget a field is edited with.
type Kind int

const (
	KindText Kind = iota
	KindEmail
	KindPassword
	KindTextArea
	KindSelect
	KindCheckbox
	KindMultiSelect
	KindFiles
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEmail:
		return "email"
	case KindPassword:
		return "password"
	case KindTextArea:
		return "textarea"
	case KindSelect:
		return "select"
	case KindCheckbox:
		return "checkbox"
	case KindMultiSelect:
		return "multiselect"
	case KindFiles:
		return "files"
	default:
		return "unknown"
	}
}

// IsText reports whether the field holds a single string value.
func (k Kind) IsText() bool {
	switch k {
	case KindText, KindEmail, KindPassword, KindTextArea, KindSelect:
		return true
	}
	return false
}

// Field describes one declared input of a form variant.
type Field struct {
	Name        Name
	Label       string
	Kind        Kind
	Mask        mask.Kind
	Required    bool
	Numeric     bool // keep only digits, dots and commas
	Placeholder string
	CharLimit   int
	Options     []string
}

var (
	// ErrUnknownField is returned when an event names a field the form does
	// not declare, or declares with a different kind.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidOption is returned when a select value is not one of the
	// declared options.
	ErrInvalidOption = errors.New("invalid option")
	// ErrNoPhotos is returned by photo events on forms without a photo field.
	ErrNoPhotos = errors.New("form has no photo field")
)

func unknownField(name Name) error {
	return fmt.Errorf("%w: %s", ErrUnknownField, name)
}

// Normalize turns raw input into the value stored in the snapshot. Masked
// identity fields keep their display form; currency stores the unmasked
// form of what is displayed, so collapsed commas and capped decimals match.
func (f Field) Normalize(raw string) string {
	switch f.Mask {
	case mask.None:
		if f.Numeric {
			return keepNumeric(raw)
		}
		return raw
	case mask.Currency:
		return mask.Unmask(mask.Currency, mask.Format(mask.Currency, raw))
	default:
		return mask.Format(f.Mask, raw)
	}
}

func keepNumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			return r
		}
		return -1
	}, s)
}

// Display renders a stored value for the user.
func (f Field) Display(stored string) string {
	if f.Mask == mask.Currency {
		return mask.Format(mask.Currency, stored)
	}
	return stored
}

// HasOption reports whether value is one of the field's declared options.
func (f Field) HasOption(value string) bool {
	return slices.Contains(f.Options, value)
}

// Lookup finds the descriptor for name.
func Lookup(fields []Field, name Name) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Errors maps a field to its validation message. A valid field has no entry.
type Errors map[Name]string

// Valid reports whether no rule failed.
func (e Errors) Valid() bool { return len(e) == 0 }

// Has reports whether name has a message.
func (e Errors) Has(name Name) bool {
	_, ok := e[name]
	return ok
}

// Names returns the failing fields in sorted order.
func (e Errors) Names() []Name {
	names := make([]Name, 0, len(e))
	for n := range e {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// set records msg for name when msg is non-empty.
func (e Errors) set(name Name, msg string) {
	if msg != "" {
		e[name] = msg
	}
}

// String formats every message on its own line, sorted by field.
func (e Errors) String() string {
	var b strings.Builder
	for i, n := range e.Names() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", n, e[n])
	}
	return b.String()
}

// toggle adds value to selected when checked and removes every occurrence
// otherwise. The input slice is never modified.
func toggle(selected []string, value string, checked bool) []string {
	if checked {
		if slices.Contains(selected, value) {
			return slices.Clone(selected)
		}
		out := make([]string, 0, len(selected)+1)
		out = append(out, selected...)
		return append(out, value)
	}
	out := make([]string, 0, len(selected))
	for _, s := range selected {
		if s != value {
			out = append(out, s)
		}
	}
	return out
}
