package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"booth/internal/domain"
	"booth/internal/middleware"
)

type errorKind struct {
	status int
	code   string
	pt     string
	en     string
}

var errorKinds = map[error]errorKind{
	domain.ErrValidation:    {http.StatusBadRequest, "validation", "Requisição inválida. Verifique a imagem e tente novamente.", "Invalid request. Check the photo and try again."},
	domain.ErrConfiguration: {http.StatusServiceUnavailable, "configuration", "O serviço de transformação não está configurado.", "The image service is not configured."},
	domain.ErrUpstream:      {http.StatusBadGateway, "upstream", "Erro ao transformar imagem. Tente novamente.", "The image service failed. Please try again."},
	domain.ErrEmptyResult:   {http.StatusBadGateway, "empty_result", "Nenhuma imagem foi gerada. Tente novamente.", "No image was generated. Please try again."},
	domain.ErrResourceLoad:  {http.StatusUnprocessableEntity, "resource_load", "Falha ao carregar a imagem.", "An image could not be loaded."},
	domain.ErrConversion:    {http.StatusUnprocessableEntity, "conversion", "Falha ao converter a imagem para envio.", "The image could not be prepared for upload."},
	domain.ErrProtocol:      {http.StatusBadGateway, "protocol", "A resposta do serviço de compartilhamento foi inválida.", "The share service returned an invalid response."},
	domain.ErrNetwork:       {http.StatusBadGateway, "network", "Erro de rede. Verifique sua conexão e desative bloqueadores de anúncios ou VPN que possam estar interferindo.", "Network error. Check your connection and disable ad blockers or VPNs that may interfere."},
	domain.ErrIO:            {http.StatusBadRequest, "io", "Falha ao ler a imagem enviada.", "The uploaded image could not be read."},
	domain.ErrFormat:        {http.StatusUnsupportedMediaType, "format", "Formato de imagem não suportado.", "Unsupported image format."},
	domain.ErrQRRender:      {http.StatusInternalServerError, "qr_render", "Ocorreu um erro ao renderizar o QR code.", "The QR code could not be rendered."},
	domain.ErrOffline:       {http.StatusServiceUnavailable, "offline", "Você está offline. A transformação de imagens não funcionará.", "You are offline. Image transformation will not work."},
	domain.ErrBusy:          {http.StatusConflict, "busy", "Uma geração já está em andamento.", "A generation is already in progress."},
	domain.ErrNotFound:      {http.StatusNotFound, "not_found", "Recurso não encontrado.", "Not found."},
}

var unknownError = errorKind{http.StatusInternalServerError, "internal", "Ocorreu um erro desconhecido.", "An unknown error occurred."}

func classify(err error) errorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return errorKinds[domain.ErrUpstream]
	}
	if kind, ok := errorKinds[domain.KindOf(err)]; ok {
		return kind
	}
	return unknownError
}

func (k errorKind) message(locale string) string {
	if strings.HasPrefix(strings.ToLower(locale), "pt") {
		return k.pt
	}
	return k.en
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// describeError returns the localized body for err, or nil for a nil error.
func describeError(err error, locale string) *errorBody {
	if err == nil {
		return nil
	}
	kind := classify(err)
	return &errorBody{Code: kind.code, Message: kind.message(locale)}
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{"error": errorBody{Code: errCode, Message: message}})
}

// fail maps err to its status and localized message. Server side failures
// are logged with the request id.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := classify(err)
	if kind.status >= http.StatusInternalServerError {
		a.Logger.Error().Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Str("path", r.URL.Path).
			Msg("http: request failed")
	}
	a.error(w, kind.status, kind.code, kind.message(middleware.LocaleFromContext(r.Context())))
}
