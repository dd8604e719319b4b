// Package domain defines domain-level errors for the signanalysis feature.
package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies a fatal pipeline failure.
type FailureKind string

const (
	// KindInvalidInput means the request was rejected before any external call.
	KindInvalidInput FailureKind = "invalid_input"
	// KindStorageFailure means the image could not be written; nothing else ran.
	KindStorageFailure FailureKind = "storage_failure"
	// KindExtractionFailure means text detection failed; the stored object is kept.
	KindExtractionFailure FailureKind = "extraction_failure"
)

// User-facing messages for the failure kinds.
const (
	MsgMissingImage      = "Petición inválida: falta el archivo 'image'"
	MsgEmptyFilename     = "Petición inválida: no se ha seleccionado ningún archivo"
	MsgEmptyImage        = "Petición inválida: el archivo 'image' está vacío"
	MsgImageTooLarge     = "Petición inválida: la imagen supera el tamaño máximo permitido"
	MsgStorageFailure    = "Fallo al subir la imagen a S3"
	MsgExtractionFailure = "Error en los servicios de IA al analizar la imagen"
)

// Degraded location descriptions. These are embedded in a successful response.
const (
	MsgInferenceNotConfigured = "Error: El servicio de localización (Gemini) no está configurado."
	MsgInferenceFailed        = "Error al contactar el servicio de localización (Gemini)."
)

// ErrInferenceNotConfigured is returned by a location inferer that could not be
// initialized at startup. It never changes for the lifetime of the process.
var ErrInferenceNotConfigured = errors.New("location inference is not configured")

// PipelineError is a fatal failure of the analysis pipeline.
// Message is safe to show to clients; Err is for logs only.
type PipelineError struct {
	Kind    FailureKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError creates a PipelineError of the given kind.
func NewPipelineError(kind FailureKind, message string, cause error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Err: cause}
}

// AsPipelineError reports whether err is (or wraps) a PipelineError.
func AsPipelineError(err error) (*PipelineError, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
