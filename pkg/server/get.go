package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fable/pkg/utils"
)

const indexPath = "static/index.html"

// handleGetRoot serves the single-page client shell when it is present next
// to the binary, falling back to a service banner.
func (s *Server) handleGetRoot(c echo.Context) error {
	if utils.Exists(indexPath) {
		return c.File(indexPath)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"service": "Fable Story API",
		"status":  "ok",
	})
}
