package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes exposes the event stream. JWT runs before the upgrade so
// member_id is already in locals.
func RegisterRoutes(api fiber.Router, hub *Hub, jwtMiddleware fiber.Handler) {
	api.Use("/chat/ws", jwtMiddleware, func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	api.Get("/chat/ws", websocket.New(func(conn *websocket.Conn) {
		memberId, _ := conn.Locals("member_id").(string)
		if memberId == "" {
			conn.Close()
			return
		}

		client := &Client{
			Hub:      hub,
			Conn:     conn,
			MemberId: memberId,
			Send:     make(chan []byte, 32),
		}
		hub.register <- client

		go client.writePump()
		client.readPump()
	}))
}
