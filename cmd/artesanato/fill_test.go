package main

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirage/artesanato/internal/form"
	"github.com/mirage/artesanato/internal/ui"
)

func TestParseFieldFlags(t *testing.T) {
	values, err := parseFieldFlags([]string{
		"nome=Ana Souza",
		"especialidades=Cerâmica",
		"especialidades=Bordado,Crochê",
		"endereco.complemento=",
		"senha=a=b",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Ana Souza"}, values["nome"])
	assert.Equal(t, []string{"Cerâmica", "Bordado,Crochê"}, values["especialidades"])
	assert.Equal(t, []string{""}, values["endereco.complemento"])
	assert.Equal(t, []string{"a=b"}, values["senha"])

	_, err = parseFieldFlags([]string{"sem-valor"})
	assert.Error(t, err)
	_, err = parseFieldFlags([]string{"=x"})
	assert.Error(t, err)
}

func TestFillSignup(t *testing.T) {
	values, err := parseFieldFlags([]string{
		"nome=Ana Souza",
		"email=ana@mirage.com",
		"senha=segredo1",
		"confirmarSenha=segredo1",
		"cpf=12345678901",
		"telefone=11987654321",
		"endereco.cep=01001000",
		"endereco.estado=sp",
		"especialidades=cerâmica, Bordado",
		"especialidades=Bordado",
		"termos=sim",
	})
	require.NoError(t, err)

	state := form.NewState(form.NewSignupForm(), nil)
	require.NoError(t, fill(state, values, nil))

	got := state.Snapshot()
	assert.Equal(t, "Ana Souza", got.Nome)
	assert.Equal(t, "123.456.789-01", got.CPF)
	assert.Equal(t, "(11) 98765-4321", got.Telefone)
	assert.Equal(t, "01001-000", got.Endereco.CEP)
	assert.Equal(t, "SP", got.Endereco.Estado)
	assert.Equal(t, []string{"Cerâmica", "Bordado"}, got.Especialidades)
	assert.True(t, got.Termos)

	// Fields without values are left for validation.
	errs := state.Validate()
	assert.True(t, errs.Has(form.SignupRua))
	assert.False(t, errs.Has(form.SignupCPF))
}

func TestFillRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		flag string
	}{
		{name: "unknown field", flag: "apelido=Ana"},
		{name: "select option", flag: "endereco.estado=XX"},
		{name: "multiselect option", flag: "especialidades=Origami"},
		{name: "checkbox", flag: "termos=talvez"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := parseFieldFlags([]string{tt.flag})
			require.NoError(t, err)

			state := form.NewState(form.NewSignupForm(), nil)
			assert.Error(t, fill(state, values, nil))
		})
	}
}

func TestFillPromptsForRequiredFields(t *testing.T) {
	prompter := ui.NewPrompter(strings.NewReader("ana@mirage.com\nsegredo1\n"), io.Discard)

	state := form.NewState(form.NewLoginForm(), nil)
	require.NoError(t, fill(state, fieldValues{}, prompter))

	assert.Equal(t, form.LoginForm{Email: "ana@mirage.com", Senha: "segredo1"}, state.Snapshot())
}

func TestFillSkipsPromptForGivenValues(t *testing.T) {
	prompter := ui.NewPrompter(strings.NewReader("segredo1\n"), io.Discard)

	state := form.NewState(form.NewLoginForm(), nil)
	values := fieldValues{}
	values.add(form.LoginEmail, "ana@mirage.com")
	require.NoError(t, fill(state, values, prompter))

	assert.Equal(t, "segredo1", state.Snapshot().Senha)
}

func TestFillProductKeepsDefaults(t *testing.T) {
	values, err := parseFieldFlags([]string{
		"nome=Vaso",
		"categoria=decoração",
		"preco=R$ 1.234,5",
		"quantidade=3 un",
		"destaque=s",
	})
	require.NoError(t, err)

	state := form.NewState(form.NewProductForm(), nil)
	require.NoError(t, fill(state, values, nil))

	got := state.Snapshot()
	assert.Equal(t, "Decoração", got.Categoria)
	assert.Equal(t, "1234,5", got.Preco)
	assert.Equal(t, "3", got.Quantidade)
	assert.True(t, got.Destaque)
	assert.True(t, got.Disponivel)
}

func TestParseYesNo(t *testing.T) {
	for _, s := range []string{"s", "Sim", "yes", "true", "1"} {
		v, err := parseYesNo(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"n", "não", "NAO", "false", "0"} {
		v, err := parseYesNo(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	_, err := parseYesNo("")
	assert.Error(t, err)
}
