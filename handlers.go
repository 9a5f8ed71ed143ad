package main

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wordlebot/internal/types"
)

// eventHandler feeds one chat message to the session manager and returns its reply.
func (app *App) eventHandler(c *gin.Context) {
	var req types.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected event body")
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBadRequest})
		return
	}

	reply := app.Sessions.HandleEvent(c.Request.Context(), req.SessionID, req.Text)
	c.JSON(http.StatusOK, types.EventResponse{SessionID: req.SessionID, Reply: reply})
}

// telegramWebhookHandler answers a Telegram update in the webhook response
// itself, using the chat id as the session id.
func (app *App) telegramWebhookHandler(c *gin.Context) {
	if secret := app.Config.TelegramWebhookSecret; secret != "" {
		got := c.GetHeader(HeaderTelegramSecret)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrorUnauthorized})
			return
		}
	}

	var update types.TelegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Non-text updates are acknowledged without a reply.
	if update.Message == nil || update.Message.Text == "" {
		c.Status(http.StatusOK)
		return
	}

	msg := update.Message
	sessionID := strconv.FormatInt(msg.Chat.ID, 10)
	reply := app.Sessions.HandleEvent(c.Request.Context(), sessionID, msg.Text)
	c.JSON(http.StatusOK, types.TelegramReply{
		Method:           "sendMessage",
		ChatID:           msg.Chat.ID,
		Text:             reply,
		ReplyToMessageID: msg.MessageID,
	})
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"env":            envName(app.Config.IsProduction()),
		"words_loaded":   app.WordCount,
		"accepted_words": app.AcceptedCount,
		"active_games":   app.Sessions.Active(),
		"uptime":         formatUptime(uptime),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
