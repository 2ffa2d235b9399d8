package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/versin01/vertical-systems-crm/internal/authz"
	"github.com/versin01/vertical-systems-crm/internal/realtime"
)

type LiveHandler struct {
	Hub *realtime.BoardHub
}

func NewLiveHandler(hub *realtime.BoardHub) *LiveHandler {
	return &LiveHandler{Hub: hub}
}

// Board godoc
// @Summary  Live pipeline board updates over websocket
// @Tags     pipeline
// @Param    access_token query string false "JWT when the Authorization header cannot be set"
// @Success  101
// @Router   /pipeline/live [get]
func (h *LiveHandler) Board(c *gin.Context) {
	userID, role := getUserAndRole(c)
	sub := realtime.Subscription{}
	if !authz.IsElevated(role) && !authz.IsReadOnly(role) {
		sub.OwnerID = userID
	}

	conn, err := realtime.Upgrade(c.Writer, c.Request)
	if err != nil {
		if errors.Is(err, realtime.ErrNotWebSocket) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		_ = c.Error(err)
		return
	}
	h.Hub.Register(conn, sub)
	defer h.Hub.Unregister(conn)

	// Clients only send control frames; block until they go away.
	for {
		if _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
