package devserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status    string `json:"status"`
	ChatPeers int    `json:"chatPeers"`
}

func (s *Server) liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", ChatPeers: s.hub.count()})
}
