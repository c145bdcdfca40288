package main

import (
	"fmt"
	"strings"

	"github.com/mirage/artesanato/internal/form"
	"github.com/mirage/artesanato/internal/ui"
)

// fieldValues holds the values given on the command line, keyed by field
// name. Repeated flags append.
type fieldValues map[form.Name][]string

// parseFieldFlags turns "name=value" arguments into fieldValues.
func parseFieldFlags(args []string) (fieldValues, error) {
	values := fieldValues{}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("campo inválido %q: use nome=valor", arg)
		}
		values.add(form.Name(name), value)
	}
	return values, nil
}

func (v fieldValues) add(name form.Name, values ...string) {
	v[name] = append(v[name], values...)
}

// fill applies values to state in the order the form declares its fields.
// Required fields without a value are asked for when prompter is set;
// without one they are left for validation to report.
func fill[T form.Snapshot[T]](state *form.State[T], values fieldValues, prompter *ui.Prompter) error {
	fields := state.Fields()
	for name := range values {
		if _, ok := form.Lookup(fields, name); !ok {
			return fmt.Errorf("campo desconhecido: %s", name)
		}
	}

	for _, f := range fields {
		raw, given := values[f.Name]
		if !given {
			if prompter == nil || !f.Required {
				continue
			}
			answer, err := ask(prompter, f)
			if err != nil {
				return err
			}
			raw = answer
		}
		if len(raw) == 0 {
			continue
		}
		if err := apply(state, f, raw); err != nil {
			return fmt.Errorf("%s: %w", f.Label, err)
		}
	}
	return nil
}

func ask(p *ui.Prompter, f form.Field) ([]string, error) {
	label := f.Label
	switch f.Kind {
	case form.KindPassword:
		answer, err := p.Password(label)
		return nonEmpty(answer), err

	case form.KindCheckbox:
		ok, err := p.Confirm(label)
		if err != nil {
			return nil, err
		}
		return []string{fmt.Sprint(ok)}, nil

	case form.KindSelect:
		label += " (" + strings.Join(f.Options, ", ") + ")"

	case form.KindMultiSelect:
		label += " (" + strings.Join(f.Options, ", ") + "; separe com vírgulas)"

	case form.KindFiles:
		label += " (caminhos separados por vírgula)"
	}

	answer, err := p.Line(label)
	if err != nil {
		return nil, err
	}
	if f.Kind == form.KindMultiSelect || f.Kind == form.KindFiles {
		return splitList(answer), nil
	}
	return nonEmpty(answer), nil
}

func apply[T form.Snapshot[T]](state *form.State[T], f form.Field, raw []string) error {
	switch f.Kind {
	case form.KindCheckbox:
		checked, err := parseYesNo(raw[len(raw)-1])
		if err != nil {
			return err
		}
		_, err = state.OnCheckboxChange(f.Name, checked)
		return err

	case form.KindMultiSelect:
		for _, v := range raw {
			for _, item := range splitList(v) {
				option, ok := matchOption(f, item)
				if !ok {
					return fmt.Errorf("opção inválida %q", item)
				}
				if _, err := state.OnMultiSelectToggle(f.Name, option, true); err != nil {
					return err
				}
			}
		}
		return nil

	case form.KindFiles:
		_, err := state.OnFileAdd(raw...)
		return err

	case form.KindSelect:
		option, ok := matchOption(f, strings.TrimSpace(raw[len(raw)-1]))
		if !ok {
			return fmt.Errorf("opção inválida %q", raw[len(raw)-1])
		}
		_, err := state.OnFieldChange(f.Name, option)
		return err

	default:
		_, err := state.OnFieldChange(f.Name, raw[len(raw)-1])
		return err
	}
}

// matchOption finds the declared option equal to value, ignoring case.
func matchOption(f form.Field, value string) (string, bool) {
	for _, o := range f.Options {
		if strings.EqualFold(o, value) {
			return o, true
		}
	}
	return "", false
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "sim", "y", "yes", "true", "1":
		return true, nil
	case "n", "não", "nao", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("valor inválido %q: use sim ou não", s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
