package delivery

import (
	"errors"
	"net/http"

	authdomain "pushgate-backend/internal/auth/domain"
	pushdto "pushgate-backend/internal/push/dto"
	"pushgate-backend/internal/push/usecase"

	"github.com/gin-gonic/gin"
)

type PushHandler struct {
	registry *usecase.Registry
	sender   *usecase.Sender
}

func NewPushHandler(registry *usecase.Registry, sender *usecase.Sender) *PushHandler {
	return &PushHandler{
		registry: registry,
		sender:   sender,
	}
}

// UpdateToken registers or unregisters a push token. With a valid bearer
// token the mutation targets the caller's session attachment; anonymous
// calls go to the anonymous registry.
func (h *PushHandler) UpdateToken(c *gin.Context) {
	var req pushdto.UpdateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := sessionFromContext(c)

	var err error
	if req.Unsubscribe {
		err = h.registry.Unregister(c.Request.Context(), req.AppName, req.Token, session)
	} else {
		err = h.registry.Register(c.Request.Context(), req.AppName, req.Platform, req.Token, session)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SendNotification accepts a notification descriptor and returns the
// delivery report. A missing recipient specification is a 400; a recipient
// with no registered tokens yields an empty report.
func (h *PushHandler) SendNotification(c *gin.Context) {
	var req pushdto.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.sender.Send(c.Request.Context(), req.ToNotification())
	if err != nil {
		if errors.Is(err, usecase.ErrNoRecipient) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func sessionFromContext(c *gin.Context) *authdomain.Session {
	value, exists := c.Get("session")
	if !exists {
		return nil
	}
	session, ok := value.(*authdomain.Session)
	if !ok {
		return nil
	}
	return session
}
