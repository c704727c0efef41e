package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrTimeout is returned when extraction does not finish before its deadline.
	// The message keeps the "Timeout" prefix that ClassifyError matches.
	ErrTimeout = errors.New("Timeout: a requisição demorou muito para responder")

	// ErrInvalidMetadata is returned when a provider payload has no metadata section at all
	ErrInvalidMetadata = errors.New("invalid metadata: no video details found")
)

// ErrorKind names a class of failure surfaced to API clients
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation_error"
	KindMethodNotAllowed ErrorKind = "method_not_allowed"
	KindTimeout          ErrorKind = "timeout"
	KindUnavailable      ErrorKind = "extraction_unavailable"
	KindUpstream         ErrorKind = "upstream_connection_error"
	KindParse            ErrorKind = "extraction_parse_error"
	KindInternal         ErrorKind = "internal_error"
)

// maxErrorMessageLength bounds raw upstream messages echoed to clients
const maxErrorMessageLength = 200

// Classification is the HTTP status and user-facing message for a failure
type Classification struct {
	Status  int
	Message string
	Kind    ErrorKind
}

type errorRule struct {
	substrings []string
	matches    func(error) bool
	class      Classification
}

// errorRules is checked in order, first match wins. Matching is over free-text
// upstream messages, so it breaks silently when providers reword their errors.
var errorRules = []errorRule{
	{
		substrings: []string{"Video unavailable"},
		class:      Classification{http.StatusNotFound, "Vídeo não disponível ou privado", KindUnavailable},
	},
	{
		substrings: []string{"Private video"},
		class:      Classification{http.StatusForbidden, "Este vídeo é privado", KindUnavailable},
	},
	{
		substrings: []string{"Sign in to confirm your age"},
		class:      Classification{http.StatusForbidden, "Este vídeo requer confirmação de idade", KindUnavailable},
	},
	{
		substrings: []string{"Timeout"},
		matches: func(err error) bool {
			return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
		},
		class: Classification{http.StatusGatewayTimeout, "A requisição demorou muito. Tente novamente ou use outro vídeo.", KindTimeout},
	},
	{
		substrings: []string{
			"Unable to retrieve video metadata",
			"ECONNRESET", "socket", "ECONNREFUSED", "ENOTFOUND",
			"connection reset", "connection refused", "no such host",
		},
		class: Classification{http.StatusServiceUnavailable, "Erro de conexão com o YouTube. Tente novamente em alguns instantes.", KindUpstream},
	},
	{
		substrings: []string{"ERR_INTERNET_DISCONNECTED", "network"},
		class:      Classification{http.StatusServiceUnavailable, "Erro de conexão com o YouTube. Verifique sua internet.", KindUpstream},
	},
	{
		substrings: []string{"parse", "decipher", "transform"},
		class:      Classification{http.StatusServiceUnavailable, "Erro ao processar informações do vídeo. Tente novamente.", KindParse},
	},
}

// ClassifyError maps an extraction failure to a status code and message
func ClassifyError(err error) Classification {
	if err == nil || err.Error() == "" {
		return Classification{http.StatusInternalServerError, "Erro ao obter informações do vídeo. Verifique se a URL está correta.", KindInternal}
	}
	if errors.Is(err, ErrInvalidMetadata) {
		return Classification{http.StatusInternalServerError, "Não foi possível obter informações do vídeo", KindInternal}
	}

	msg := err.Error()
	for _, rule := range errorRules {
		if rule.matches != nil && rule.matches(err) {
			return rule.class
		}
		for _, s := range rule.substrings {
			if strings.Contains(msg, s) {
				return rule.class
			}
		}
	}

	return Classification{http.StatusInternalServerError, truncateRunes(msg, maxErrorMessageLength), KindInternal}
}
