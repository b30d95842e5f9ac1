package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leilauto/gatekeeper/internal/app/service/lifecycle"
	"github.com/leilauto/gatekeeper/pkg/response"
)

// respondErr maps the typed service failures onto envelope codes so the UI
// can render a specific message. HTTP status stays 200; clients key on the
// envelope code.
func respondErr(c *gin.Context, err error) {
	code := response.APIResponseCodeError
	switch {
	case errors.Is(err, lifecycle.ErrValidation):
		code = response.APIResponseCodeBadRequest
	case errors.Is(err, lifecycle.ErrNotFound):
		code = response.APIResponseCodeNotFound
	case errors.Is(err, lifecycle.ErrPrecondition):
		code = response.APIResponseCodePrecondition
	case errors.Is(err, lifecycle.ErrUpstreamPayment):
		code = response.APIResponseCodePaymentFailed
	}
	c.JSON(http.StatusOK, response.ErrorT[any](code, err.Error()))
}
