package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"arena-service/config"
	"arena-service/internal/client"
	"arena-service/internal/models"
	ws "arena-service/internal/websocket"
	"arena-service/pkg/cache"
	"arena-service/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origins in prod
	},
}

// WebSocketHandler is the connection gateway: it resolves the bearer
// credential to a verified identity before the upgrade. No room operation
// is reachable without one.
type WebSocketHandler struct {
	hub         *ws.Hub
	config      *config.Config
	userClient  *client.UserClient
	redisClient *cache.RedisClient
}

func NewWebSocketHandler(hub *ws.Hub, cfg *config.Config, userClient *client.UserClient, redisClient *cache.RedisClient) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		config:      cfg,
		userClient:  userClient,
		redisClient: redisClient,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing credential"})
		return
	}

	claims, err := jwt.ValidateAccessToken(token, h.config.Auth.JWTSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credential"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	identity, err := h.resolveIdentity(ctx, claims.UserID)
	if err != nil {
		log.Printf("Failed to resolve identity for %s: %v", claims.UserID, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	wsClient := ws.NewClient(h.hub, conn, *identity)
	h.hub.Register <- wsClient

	go wsClient.WritePump()
	go wsClient.ReadPump()
}

// resolveIdentity fetches the profile from the user service, going
// through the redis cache when it is available.
func (h *WebSocketHandler) resolveIdentity(ctx context.Context, userID string) (*models.Identity, error) {
	cacheKey := client.ProfileCacheKey(userID)

	if h.redisClient != nil {
		if cached, err := h.redisClient.Get(ctx, cacheKey); err == nil {
			var identity models.Identity
			if err := json.Unmarshal([]byte(cached), &identity); err == nil {
				return &identity, nil
			}
		}
	}

	identity, err := h.userClient.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if h.redisClient != nil {
		if data, err := json.Marshal(identity); err == nil {
			ttl := time.Duration(h.config.Redis.ProfileTTL) * time.Second
			if err := h.redisClient.Set(ctx, cacheKey, string(data), ttl); err != nil {
				log.Printf("Failed to cache profile for %s: %v", userID, err)
			}
		}
	}
	return identity, nil
}

// bearerToken pulls the credential from the Authorization header, the
// token query parameter, or the access_token cookie, in that order.
func bearerToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	if token := c.Query("token"); token != "" {
		return token
	}
	if token, err := c.Cookie("access_token"); err == nil {
		return token
	}
	return ""
}
