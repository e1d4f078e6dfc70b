package httperror

import "net/http"

type CommonError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *CommonError) Error() string {
	return e.Message
}

func newError(code int) *CommonError {
	return &CommonError{
		Code:    code,
		Message: http.StatusText(code),
	}
}

func NewBadRequest() *CommonError {
	return newError(http.StatusBadRequest)
}

func NewUnauthorized() *CommonError {
	return newError(http.StatusUnauthorized)
}

func NewForbidden() *CommonError {
	return newError(http.StatusForbidden)
}

func NewNotFound() *CommonError {
	return newError(http.StatusNotFound)
}

func NewConflict() *CommonError {
	return newError(http.StatusConflict)
}

func NewInternalServerError() *CommonError {
	return newError(http.StatusInternalServerError)
}

func NewBadGateway() *CommonError {
	return newError(http.StatusBadGateway)
}
