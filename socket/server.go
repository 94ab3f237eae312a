// Package socket pushes newly created posts to connected socket.io clients.
package socket

import (
	"net/http"
	"strings"

	socketio "github.com/googollee/go-socket.io"
	"go.uber.org/zap"

	"social_server/models"
)

const (
	namespace     = "/"
	eventJoin     = "join"
	eventLeave    = "leave"
	eventNewPost  = "newPost"
	authorRoomTag = "author:"
)

// Hub wraps a socket.io server. Clients join an author's room and receive
// that author's posts as newPost events.
type Hub struct {
	server *socketio.Server
	logger *zap.Logger
}

// NewHub initializes the socket.io server and its event handlers
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{server: socketio.NewServer(nil), logger: logger}

	h.server.OnConnect(namespace, func(c socketio.Conn) error {
		h.logger.Debug("socket connected", zap.String("socketId", c.ID()))
		return nil
	})

	h.server.OnEvent(namespace, eventJoin, func(c socketio.Conn, data map[string]string) {
		room, ok := RoomFor(data["userId"])
		if !ok {
			h.logger.Warn("invalid userId in join request", zap.String("socketId", c.ID()))
			return
		}
		c.Join(room)
		h.logger.Debug("socket joined room", zap.String("socketId", c.ID()), zap.String("room", room))
	})

	h.server.OnEvent(namespace, eventLeave, func(c socketio.Conn, data map[string]string) {
		if room, ok := RoomFor(data["userId"]); ok {
			c.Leave(room)
		}
	})

	h.server.OnError(namespace, func(c socketio.Conn, err error) {
		h.logger.Warn("socket error", zap.Error(err))
	})

	h.server.OnDisconnect(namespace, func(c socketio.Conn, reason string) {
		h.logger.Debug("socket disconnected", zap.String("socketId", c.ID()), zap.String("reason", reason))
	})

	return h
}

// RoomFor names the room that follows userID's posts.
func RoomFor(userID string) (string, bool) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", false
	}
	return authorRoomTag + userID, true
}

// PostCreated broadcasts post to everyone in its author's room.
func (h *Hub) PostCreated(post models.Post) {
	room, ok := RoomFor(post.AuthorID())
	if !ok {
		return
	}
	if !h.server.BroadcastToRoom(namespace, room, eventNewPost, post) {
		h.logger.Debug("no socket namespace for broadcast", zap.String("room", room))
	}
}

// Serve runs the socket.io event loop until Close.
func (h *Hub) Serve() error {
	return h.server.Serve()
}

// Close stops the server and drops every connection.
func (h *Hub) Close() error {
	return h.server.Close()
}

// ServeHTTP mounts the hub on a router, usually at /socket.io/.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.server.ServeHTTP(w, r)
}
