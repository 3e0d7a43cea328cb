package game

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"time"

	"dive-server/config"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleConnections handles WebSocket connections.
func (s *GameServer) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}

	client := &Client{
		conn: conn,
		id:   uuid.New().String(),
		send: make(chan []byte, 256),
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	// Queued before registration so it is always the first message.
	hello, _ := json.Marshal(map[string]interface{}{"type": "hello", "payload": map[string]interface{}{
		"clientId":   client.id,
		"characters": []config.CharacterPreset{s.tuning.Shortfin, s.tuning.Longfin},
		"fps":        s.fps,
	}})
	client.send <- hello

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(s)
}

func (c *Client) sendError(server *GameServer, msg string) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.sendLocked(c, "error", map[string]string{"message": msg})
}

// readPump handles incoming messages from the client.
func (c *Client) readPump(server *GameServer) {
	defer func() {
		select {
		case server.unregister <- c:
		case <-server.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		var msg message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		switch msg.Type {
		case "start":
			var p startPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				c.sendError(server, "invalid start payload")
				continue
			}
			if err := server.start(c, p); err != nil {
				c.sendError(server, err.Error())
			}
		case "input":
			var p inputPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				continue
			}
			if loop := server.loopOf(c); loop != nil {
				loop.SetDirection(p.Direction)
			}
		case "resize":
			var p resizePayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				continue
			}
			if loop := server.loopOf(c); loop != nil {
				loop.Resize(Size{Width: p.Width, Height: p.Height})
			}
		default:
			log.Printf("Client %s sent unknown message type %q", c.id, msg.Type)
		}
	}
}

func (s *GameServer) loopOf(c *Client) *Loop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.loop
}

// writePump writes messages to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
