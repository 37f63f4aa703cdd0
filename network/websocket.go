package network

import (
	"log/slog"

	"github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"
	"summy.bot/bot"
)

var upgrader = websocket.FastHTTPUpgrader{}

// wsEventsHandler streams each newly recorded webhook event record to
// the dashboard over a websocket. Slow consumers miss records rather
// than backing up the recorder.
func wsEventsHandler(ctx *fasthttp.RequestCtx, recorder *bot.Recorder, logger *slog.Logger) {
	if !websocket.FastHTTPIsWebSocketUpgrade(ctx) {
		ctx.Error("WebSocket required", fasthttp.StatusBadRequest)
		return
	}
	err := upgrader.Upgrade(ctx, func(conn *websocket.Conn) {
		defer conn.Close()

		id, events := recorder.Subscribe()
		defer recorder.Unsubscribe(id)
		logger.Info("events feed connected", slog.String("connection_id", id))

		// Read pump exists only to notice the peer going away.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case rec := <-events:
				if err := conn.WriteJSON(rec); err != nil {
					logger.Warn("events feed write failed", slog.String("connection_id", id), slog.Any("err", err))
					return
				}
			case <-done:
				logger.Info("events feed disconnected", slog.String("connection_id", id))
				return
			}
		}
	})
	if err != nil {
		logger.Warn("websocket upgrade failed", slog.Any("err", err))
	}
}
