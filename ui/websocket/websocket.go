package websocket

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	domainActivity "github.com/wasched/wasched/domains/activity"
	domainConnection "github.com/wasched/wasched/domains/connection"
)

type client struct{}

type BroadcastMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Result  any    `json:"result"`
}

var (
	Clients    = make(map[*websocket.Conn]client)
	Register   = make(chan *websocket.Conn)
	Broadcast  = make(chan BroadcastMessage, 16)
	Unregister = make(chan *websocket.Conn)
)

func handleRegister(conn *websocket.Conn) {
	Clients[conn] = client{}
	logrus.Debug("[WS] Connection registered")
}

func handleUnregister(conn *websocket.Conn) {
	delete(Clients, conn)
	logrus.Debug("[WS] Connection unregistered")
}

func broadcastToLocal(message BroadcastMessage) {
	marshalMessage, err := json.Marshal(message)
	if err != nil {
		logrus.Errorf("[WS] Marshal error: %v", err)
		return
	}

	for conn := range Clients {
		if err := conn.WriteMessage(websocket.TextMessage, marshalMessage); err != nil {
			logrus.Errorf("[WS] Write error: %v", err)
			closeConnection(conn)
		}
	}
}

func closeConnection(conn *websocket.Conn) {
	_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
	_ = conn.Close()
	delete(Clients, conn)
}

// RunHub owns the client set. It is the only goroutine touching
// Clients, so no lock is needed.
func RunHub() {
	for {
		select {
		case conn := <-Register:
			handleRegister(conn)

		case conn := <-Unregister:
			handleUnregister(conn)

		case message := <-Broadcast:
			broadcastToLocal(message)
		}
	}
}

// NotifyActivity pushes a freshly appended journal entry to connected
// dashboards. Non-blocking: a full channel drops the push, the next
// poll catches the client up.
func NotifyActivity(entry domainActivity.Entry) {
	select {
	case Broadcast <- BroadcastMessage{Code: "ACTIVITY_APPENDED", Message: entry.Message, Result: entry}:
	default:
	}
}

// NotifyConnection pushes a connection-state transition.
func NotifyConnection(state domainConnection.State) {
	message := "WhatsApp disconnected"
	if state.Connected {
		message = "WhatsApp connected"
	}
	select {
	case Broadcast <- BroadcastMessage{Code: "CONNECTION_STATE", Message: message, Result: state}:
	default:
	}
}

// NotifyScheduledRefresh signals that the scheduled list snapshot was
// replaced; clients re-fetch rather than receiving the full list.
func NotifyScheduledRefresh() {
	select {
	case Broadcast <- BroadcastMessage{Code: "SCHEDULED_REFRESHED", Message: "Scheduled messages updated"}:
	default:
	}
}

func RegisterRoutes(app fiber.Router) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		defer func() {
			Unregister <- conn
			_ = conn.Close()
		}()

		Register <- conn

		for {
			// Reads only keep the connection alive; the dashboard
			// never sends commands over the socket.
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logrus.Errorf("[WS] Read error: %v", err)
				}
				return
			}
		}
	}))
}
