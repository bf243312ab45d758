package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nandanhq/peerverse/internal/service"
	"github.com/nandanhq/peerverse/pkg/response"
	"github.com/redis/go-redis/v9"
)

type ChatHandler struct {
	chatService service.ChatService
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

func NewChatHandler(chatService service.ChatService, redisClient *redis.Client) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

type inboundChatMessage struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// GetHistory returns the replay window shown to a newly joined client.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	messages, err := h.chatService.GetRecentMessages(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": messages})
}

// SendMessage is the REST fallback for clients without a websocket.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req inboundChatMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), userID, req.Content, req.Type)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// HandleWebSocket upgrades the connection and bridges it to the global
// chat channel: inbound frames are persisted and published, published
// messages from any instance are written back out.
func (h *ChatHandler) HandleWebSocket(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	if h.redisClient == nil {
		log.Println("Redis client is nil, cannot subscribe to chat channel")
		return
	}

	pubsub := h.redisClient.Subscribe(c.Request.Context(), service.GlobalChatChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(c.Request.Context()); err != nil {
		log.Printf("Failed to subscribe to redis channel: %v", err)
		return
	}

	ch := pubsub.Channel()
	clientClosed := make(chan struct{})

	go func() {
		defer close(clientClosed)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var inbound inboundChatMessage
			if err := json.Unmarshal(data, &inbound); err != nil {
				continue
			}

			// The sender receives their own message via the pub/sub echo,
			// same as every other subscriber.
			if _, err := h.chatService.SendMessage(c.Request.Context(), userID, inbound.Content, inbound.Type); err != nil {
				log.Printf("Failed to handle chat message: %v", err)
			}
		}
	}()

	for {
		select {
		case msg := <-ch:
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("Failed to write message to websocket: %v", err)
				return
			}
		case <-clientClosed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
