package apperr

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/trekora/trekora/pkg/response"
)

// Fail attaches err to the Gin context and stops the handler chain. The
// Handler middleware turns it into a response once the chain unwinds.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Handler renders the last error attached to the context. API routes get the
// JSON envelope; everything else gets the HTML error page. Non-operational
// errors are logged and reduced to a generic message unless dev is set.
func Handler(logger *logrus.Logger, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		ginErr := c.Errors.Last()
		if ginErr == nil || c.Writer.Written() {
			return
		}
		err := ginErr.Err

		e := As(err)
		if e == nil {
			logger.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).WithError(err).Error("unexpected error")
			e = Wrap(Upstream, "something went very wrong", err)
		} else if e.Kind == Upstream {
			logger.WithField("path", c.Request.URL.Path).WithError(err).Error("upstream failure")
		}

		if !isAPIRequest(c) {
			renderErrorPage(c, e, dev)
			return
		}

		msg := e.Message
		var details any
		if e.Kind == Validation {
			details = e.Details
		}
		if dev {
			var stack string
			if e.Kind == Upstream {
				stack = string(debug.Stack())
			}
			c.JSON(e.Status(), response.Envelope{
				Status:  statusWord(e.Status()),
				Message: e.Error(),
				Details: details,
				Stack:   stack,
			})
			return
		}
		response.Fail(c, e.Status(), msg, details)
	}
}

// NotFoundHandler answers routes no module claimed.
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAPIRequest(c) {
			response.Fail(c, http.StatusNotFound, "can't find "+c.Request.URL.Path+" on this server", nil)
			return
		}
		c.HTML(http.StatusNotFound, "error.tmpl", gin.H{
			"title":   "Page not found",
			"message": "The page you are looking for does not exist.",
		})
	}
}

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api")
}

func renderErrorPage(c *gin.Context, e *Error, dev bool) {
	msg := e.Message
	if e.Kind == Upstream && !dev {
		msg = "Please try again later."
	}
	c.HTML(e.Status(), "error.tmpl", gin.H{
		"title":   "Something went wrong",
		"message": msg,
	})
}

func statusWord(code int) string {
	switch {
	case code < 400:
		return "success"
	case code < 500:
		return "fail"
	default:
		return "error"
	}
}
