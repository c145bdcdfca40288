package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeHTTP indicates a response the client could not use
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed response body
	ErrTypeParse
	// ErrTypeValidation indicates a request payload rejected before sending
	ErrTypeValidation
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening at the backend address
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeCanceled indicates the caller gave up on the request
	ErrTypeCanceled
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error represents a failure talking to the marketplace backend. A response
// with a non-success status is not an Error; it is returned as a Response.
type Error struct {
	Type           ErrorType
	Message        string
	StatusCode     int
	Err            error
	NetworkSubtype NetworkErrorSubtype
	Endpoint       string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a typed Error
func ClassifyNetworkError(err error, endpoint string) *Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return &Error{Type: ErrTypeCanceled, Message: "Request canceled", Err: err, Endpoint: endpoint}
	}

	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return &Error{
			Type:           ErrTypeTimeout,
			Message:        "Request timed out",
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
			Endpoint:       endpoint,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Type:           ErrTypeDNS,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
			Endpoint:       endpoint,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return &Error{
				Type:           ErrTypeConnectionRefused,
				Message:        "Backend refused connection",
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
				Endpoint:       endpoint,
			}
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return &Error{
				Type:           ErrTypeNetwork,
				Message:        "Host unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
				Endpoint:       endpoint,
			}
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return &Error{
				Type:           ErrTypeNetwork,
				Message:        "Network unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
				Endpoint:       endpoint,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ClassifyNetworkError(urlErr.Err, endpoint)
	}

	return &Error{
		Type:           ErrTypeNetwork,
		Message:        "Network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
		Endpoint:       endpoint,
	}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, endpoint string, err error) *Error {
	classified := ClassifyNetworkError(err, endpoint)
	if classified == nil {
		return &Error{Type: ErrTypeNetwork, Message: message, Endpoint: endpoint}
	}
	classified.Message = message
	return classified
}

// NewHTTPError creates an error for a response the caller cannot use, such
// as a failed listing. detail is the backend's message, if any.
func NewHTTPError(statusCode int, detail string) *Error {
	msg := fmt.Sprintf("HTTP %d", statusCode)
	if detail != "" {
		msg += ": " + detail
	}
	return &Error{
		Type:       ErrTypeHTTP,
		Message:    msg,
		StatusCode: statusCode,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, statusCode int, err error) *Error {
	return &Error{
		Type:       ErrTypeParse,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeValidation,
		Message: message,
		Err:     err,
	}
}

func typeOf(err error) (ErrorType, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Type, true
	}
	return 0, false
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	t, ok := typeOf(err)
	return ok && (t == ErrTypeNetwork || t == ErrTypeTimeout || t == ErrTypeConnectionRefused || t == ErrTypeDNS)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeParse
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeValidation
}

// IsCanceled checks if the request was abandoned by its caller
func IsCanceled(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeCanceled
}

// GetTroubleshootingHint returns user-facing advice for an error
func GetTroubleshootingHint(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return "Ocorreu um erro inesperado. Tente novamente."
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"O servidor não respondeu a tempo.",
			"Sugestões:",
			"  • Verifique sua conexão com a internet",
			"  • Aumente o tempo limite com --timeout",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"O servidor recusou a conexão.",
			"Sugestões:",
			"  • Confira se o backend está rodando em " + apiErr.Endpoint,
			"  • Informe outro endereço com --api-url ou ARTESANATO_API_URL",
			"  • Use 'artesanato descobrir' para procurar o servidor na rede local",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Não foi possível resolver o endereço do servidor.",
			"Sugestões:",
			"  • Use o endereço IP no lugar do nome",
			"  • Verifique as configurações de DNS",
		}, "\n")

	case ErrTypeNetwork:
		return strings.Join([]string{
			"Falha de comunicação com o servidor.",
			"Sugestões:",
			"  • Verifique sua conexão de rede",
			"  • Confira o endereço configurado em api.url",
		}, "\n")

	case ErrTypeParse:
		return fmt.Sprintf("O servidor respondeu em um formato inesperado (HTTP %d).", apiErr.StatusCode)

	case ErrTypeValidation:
		return "Os dados enviados são inválidos. Confira a mensagem de erro."

	case ErrTypeHTTP:
		return fmt.Sprintf("O servidor recusou a solicitação (HTTP %d).", apiErr.StatusCode)

	default:
		return "Confira a mensagem de erro para mais detalhes."
	}
}

// GetShortErrorMessage returns a concise, user-facing error message
func GetShortErrorMessage(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return "Servidor não respondeu (tempo esgotado)"
	case ErrTypeConnectionRefused:
		return "Não foi possível conectar ao servidor"
	case ErrTypeDNS:
		return "Endereço do servidor não encontrado"
	case ErrTypeNetwork:
		switch apiErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			return "Servidor inacessível"
		case NetworkErrorNetworkUnreachable:
			return "Rede inacessível"
		default:
			return "Erro de rede"
		}
	case ErrTypeParse:
		return "Resposta inválida do servidor"
	case ErrTypeCanceled:
		return "Operação cancelada"
	default:
		return apiErr.Message
	}
}
