package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ID is a backend identifier. The backend has returned ids both as JSON
// strings and as numbers; ID accepts either and sends canonical integers
// back as numbers.
type ID string

// String returns the id text.
func (id ID) String() string { return string(id) }

// MarshalJSON encodes canonical integers as JSON numbers and anything else
// as a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(string(id)), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email string `json:"email" validate:"required,mailbox"`
	Senha string `json:"senha" validate:"required,min=6"`
}

// LoginResult is the success payload of POST /auth/login.
type LoginResult struct {
	ID    ID     `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Nome  string `json:"nome" validate:"required"`
	Email string `json:"email" validate:"required,mailbox"`
	Senha string `json:"senha" validate:"required,min=6"`
}

// RegisterResult is the success payload of POST /auth/register.
type RegisterResult struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

// CreateProductRequest is the body of POST /produtos/{artesaoId}.
type CreateProductRequest struct {
	Nome      string          `json:"nome" validate:"required"`
	Descricao string          `json:"descricao" validate:"required"`
	Preco     decimal.Decimal `json:"preco" validate:"gt=0"`
	ArtesaoID ID              `json:"artesaoId" validate:"required"`
}

// MarshalJSON sends the price as a JSON number.
func (r CreateProductRequest) MarshalJSON() ([]byte, error) {
	type wire struct {
		Nome      string      `json:"nome"`
		Descricao string      `json:"descricao"`
		Preco     json.Number `json:"preco"`
		ArtesaoID ID          `json:"artesaoId"`
	}
	return json.Marshal(wire{
		Nome:      r.Nome,
		Descricao: r.Descricao,
		Preco:     json.Number(r.Preco.String()),
		ArtesaoID: r.ArtesaoID,
	})
}

// Product is a marketplace listing entry.
type Product struct {
	ID        ID              `json:"id,omitempty"`
	Nome      string          `json:"nome"`
	Descricao string          `json:"descricao"`
	Preco     decimal.Decimal `json:"preco"`
	ArtesaoID ID              `json:"artesaoId,omitempty"`
}

// Response is the {status, data} pair every backend call produces. Status
// is the HTTP status code; Data is the raw JSON body.
type Response struct {
	Status int
	Data   json.RawMessage
}

// Accepted reports whether Status is one of codes.
func (r *Response) Accepted(codes ...int) bool {
	for _, c := range codes {
		if r.Status == c {
			return true
		}
	}
	return false
}

// Decode unmarshals Data into v.
func (r *Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return NewParseError("empty response body", r.Status, nil)
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return NewParseError("failed to decode response", r.Status, err)
	}
	return nil
}

// Detail extracts the backend's error message. A string detail is returned
// verbatim; a list of validation entries is flattened to their "msg" texts.
// It returns "" when the body carries no detail.
func (r *Response) Detail() string {
	if len(r.Data) == 0 {
		return ""
	}
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(r.Data, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}

	var entries []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Msg != "" {
				msgs = append(msgs, e.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	return string(body.Detail)
}
