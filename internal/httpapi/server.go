// Package httpapi serves the webhook notify relay and the admin REST API
// for managing the whitelist.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zonebot/core"
	"zonebot/internal/users"
)

const (
	maxNotifyBody = 256 << 10
	maxBodyChars  = 3500
	sendTimeout   = 10 * time.Second
)

// Server exposes the HTTP surface: health, notify relay, admin user CRUD.
type Server struct {
	store         *users.Store
	notifier      core.Notifier
	allowedChatID string
	notifySecret  string
	adminToken    string
	logger        *slog.Logger
}

// New creates a Server.
func New(store *users.Store, notifier core.Notifier, allowedChatID, notifySecret, adminToken string, logger *slog.Logger) *Server {
	return &Server{
		store:         store,
		notifier:      notifier,
		allowedChatID: allowedChatID,
		notifySecret:  notifySecret,
		adminToken:    adminToken,
		logger:        logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	router.Any("/notify", s.checkNotifySecret, s.handleNotify)

	api := router.Group("/api", s.requireAdmin)
	api.GET("/users", s.handleListUsers)
	api.POST("/users", s.handleCreateUser)
	api.PATCH("/users/:id", s.handleUpdateUser)
	api.DELETE("/users/:id", s.handleDeleteUser)

	return router
}

// Run starts the server on the given port. Blocks until the listener fails.
func (s *Server) Run(port int) error {
	return s.Router().Run(fmt.Sprintf(":%d", port))
}

func (s *Server) checkNotifySecret(c *gin.Context) {
	if s.notifySecret == "" {
		return
	}
	if c.GetHeader("X-Notify-Secret") != s.notifySecret {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
	}
}

// handleNotify forwards a summary of any inbound HTTP request to the
// allowed chat. Delivery failures are logged, never reported back, so a
// broken chat cannot make callers retry into a loop.
func (s *Server) handleNotify(c *gin.Context) {
	body, _ := io.ReadAll(io.LimitReader(c.Request.Body, maxNotifyBody))

	headers := map[string]string{}
	for _, h := range []string{"Host", "User-Agent", "Content-Type", "X-Forwarded-For", "X-Real-Ip"} {
		v := c.GetHeader(h)
		if h == "Host" {
			v = c.Request.Host
		}
		if v != "" {
			headers[strings.ToLower(h)] = v
		}
	}
	headerJSON, _ := json.Marshal(headers)

	ua := c.GetHeader("User-Agent")
	if ua == "" {
		ua = "(none)"
	}
	query := "(empty)"
	if raw := c.Request.URL.RawQuery; raw != "" {
		query = raw
	}
	bodyText := "(empty)"
	if len(body) > 0 {
		bodyText = shorten(string(body), maxBodyChars)
	}

	text := fmt.Sprintf("📨 HTTP %s %s\nIP: %s\nUser-Agent: %s\nQuery: %s\nHeaders: %s\nBody:\n```\n%s\n```",
		c.Request.Method, c.Request.URL.Path, c.ClientIP(), ua, query, headerJSON, bodyText)

	id := uuid.New().String()
	n := core.Notification{
		ID:        id,
		ChatID:    s.allowedChatID,
		Text:      text,
		Markdown:  true,
		Source:    "notify",
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sendTimeout)
	defer cancel()
	if err := s.notifier.Send(ctx, n); err != nil {
		s.logger.Error("notify delivery failed", "id", id, "error", err)
	} else {
		s.logger.Info("notification sent", "id", id, "method", c.Request.Method)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return fmt.Sprintf("%s\n...[truncated %d chars]", s[:max], len(s)-max)
}

func (s *Server) requireAdmin(c *gin.Context) {
	if s.adminToken == "" {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "ADMIN_TOKEN not configured"})
		return
	}
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || token != s.adminToken {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
	}
}

func (s *Server) handleListUsers(c *gin.Context) {
	items, err := s.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
}

type createUserRequest struct {
	Username   string `json:"username"`
	TelegramID int64  `json:"telegramId"`
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid input"})
		return
	}
	item, err := s.store.Create(c.Request.Context(), req.Username, req.TelegramID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "item": item})
}

type updateUserRequest struct {
	Username   *string `json:"username"`
	TelegramID *int64  `json:"telegramId"`
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid input"})
		return
	}
	item, err := s.store.Update(c.Request.Context(), c.Param("id"), req.Username, req.TelegramID)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, users.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "item": item})
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
