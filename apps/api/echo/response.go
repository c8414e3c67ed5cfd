package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// envelope wraps every response body. Status repeats the HTTP status code.
type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func respond(ctx echo.Context, code int, message string, data interface{}) error {
	if message == "" {
		message = http.StatusText(code)
	}
	return ctx.JSON(code, envelope{Status: code, Message: message, Data: data})
}
