package handler

import (
	"net/http"

	"retailpos/internal/notifier"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Observers connect from the POS frontend on another origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct{ hub *notifier.Hub }

func NewWSHandler(hub *notifier.Hub) *WSHandler { return &WSHandler{hub: hub} }

// Serve upgrades the connection and registers the client as a live stock
// observer. The hub owns the connection from here on.
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	h.hub.Register(conn)
}
