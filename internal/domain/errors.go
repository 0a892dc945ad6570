package domain

import "errors"

// Failure kinds surfaced by the booth pipeline. Callers wrap them with
// fmt.Errorf("%w: ...") and classify with errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrConfiguration = errors.New("configuration missing")
	ErrUpstream      = errors.New("upstream service failure")
	ErrEmptyResult   = errors.New("empty result")
	ErrResourceLoad  = errors.New("image resource could not be loaded")
	ErrConversion    = errors.New("data uri conversion failed")
	ErrProtocol      = errors.New("unexpected response from upload host")
	ErrNetwork       = errors.New("network failure")
	ErrIO            = errors.New("payload could not be read")
	ErrFormat        = errors.New("unsupported payload format")
	ErrQRRender      = errors.New("qr code rendering failed")
	ErrOffline       = errors.New("service is offline")
	ErrBusy          = errors.New("generation already in progress")
	ErrNotFound      = errors.New("not found")
)

// Kinds lists every failure kind in the order the HTTP layer checks them.
var Kinds = []error{
	ErrValidation,
	ErrConfiguration,
	ErrUpstream,
	ErrEmptyResult,
	ErrResourceLoad,
	ErrConversion,
	ErrProtocol,
	ErrNetwork,
	ErrIO,
	ErrFormat,
	ErrQRRender,
	ErrOffline,
	ErrBusy,
	ErrNotFound,
}

// KindOf returns the first failure kind wrapped by err, or nil when err does
// not carry one.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range Kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
