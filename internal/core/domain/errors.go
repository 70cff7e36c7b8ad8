package domain

import "errors"

var ErrNotFound = errors.New("resource not found")
var ErrUnexpectedShape = errors.New("unexpected response shape")
var ErrBackendRejected = errors.New("backend rejected the request")
var ErrInvalidLogin = errors.New("invalid login response")
var ErrInvalidRegistration = errors.New("invalid registration response")
var ErrInvalidKyc = errors.New("invalid kyc submission")
var ErrInvalidCatalogType = errors.New("unknown catalog type")
var ErrUnauthenticated = errors.New("authentication required")
var ErrForbidden = errors.New("access forbidden")
