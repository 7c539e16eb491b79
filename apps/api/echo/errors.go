package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core"
)

var (
	errUnauthorized       = echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	errInvalidCredentials = echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	errMissingCredentials = echo.NewHTTPError(http.StatusBadRequest, "missing credentials")
	errHttpForbidden      = echo.NewHTTPError(http.StatusForbidden, "insufficient role")
	errHttpNotFound       = echo.NewHTTPError(http.StatusNotFound, "not found")

	errInternalServerError = http.StatusText(http.StatusInternalServerError)
)

type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		res := errorResponse{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				res.Message = "missing authorization header"
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				res.Message = msg
			} else {
				res.Message = http.StatusText(code)
			}
		case validator.ValidationErrors:
			res.Errors = make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				res.Errors[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			res.Message = "validation failed"
		case *core.ValidationError:
			if origErr.Fields != nil {
				res.Errors = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					res.Errors[fErr.Field] = fErr.Error
				}
			}
			code = http.StatusBadRequest
			res.Message = origErr.Error()
		case *core.NotFoundError:
			code = http.StatusNotFound
			res.Message = origErr.Error()
		case *core.ConflictError:
			code = http.StatusConflict
			res.Message = origErr.Error()
		default: // any other error is a server error
			code = http.StatusInternalServerError
			res.Message = errInternalServerError

			ident, _ := contextIdentity(ctx)
			logger.Error(errInternalServerError, errors.Wrap(err, errInternalServerError), ident)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			res.Message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, res)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
