package network

import (
	"context"
	"log/slog"
	"os"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"summy.bot/bot"
	"summy.bot/config"
	"summy.bot/msglog"
)

type Server struct {
	route     *router.Router
	cfg       *config.Config
	processor *bot.Processor
	recorder  *bot.Recorder
	msgLog    *msglog.Log
	ctx       context.Context
	cnl       context.CancelFunc
	logger    *slog.Logger
}

func NewServer(cfg *config.Config, processor *bot.Processor, recorder *bot.Recorder, msgLog *msglog.Log) *Server {
	server := new(Server)
	server.route = router.New()
	server.cfg = cfg
	server.processor = processor
	server.recorder = recorder
	server.msgLog = msgLog
	server.ctx, server.cnl = context.WithCancel(context.Background())
	base := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	server.logger = base.With(
		slog.String("component", "HttpServer"),
	)
	server.route.GET("/", server.DashboardWrapper)
	server.route.ServeFiles("/public/{filepath:*}", "./public")
	server.route.GET("/webhook", server.WebhookVerifyWrapper)
	server.route.POST("/webhook", server.WebhookReceiveWrapper)
	server.route.GET("/api/messages", server.MessagesWrapper)
	server.route.GET("/api/webhook-events", server.WebhookEventsWrapper)
	server.route.GET("/api/stats", server.StatsWrapper)
	server.route.GET("/health", server.HealthWrapper)
	server.route.GET("/debug", server.DebugWrapper)
	server.route.GET("/test-message", server.TestMessageWrapper)
	server.route.GET("/ws", server.EventsFeedWrapper)
	return server
}

func (s *Server) Run() {
	s.logger.InfoContext(s.ctx, "Listening on port "+s.cfg.Port)
	if !s.cfg.AccessTokenConfigured() {
		s.logger.Warn("INSTAGRAM_ACCESS_TOKEN not configured")
	}
	if !s.cfg.AppSecretConfigured() {
		s.logger.Warn("INSTAGRAM_APP_SECRET not configured")
	}
	err := fasthttp.ListenAndServe(s.cfg.Port, s.route.Handler)
	if err != nil {
		panic(err)
	}
	select {
	case <-s.ctx.Done():
		return
	}
}

func (s *Server) Stop() {
	s.cnl()
}

// DashboardWrapper serves the polling dashboard page.
func (s *Server) DashboardWrapper(ctx *fasthttp.RequestCtx) {
	htmlContent, err := os.ReadFile("./public/index.html")
	if err != nil {
		ctx.Error("404 Not Found", fasthttp.StatusNotFound)
		s.logger.Error("dashboard page read failed", slog.Any("err", err))
		return
	}

	ctx.SetContentType("text/html; charset=utf-8")
	ctx.Write(htmlContent)
}

func (s *Server) WebhookVerifyWrapper(ctx *fasthttp.RequestCtx) {
	WebhookVerifyHandler(ctx, s.cfg.VerifyToken, s.logger)
}

func (s *Server) WebhookReceiveWrapper(ctx *fasthttp.RequestCtx) {
	s.handleWebhookReceive(ctx)
}

func (s *Server) MessagesWrapper(ctx *fasthttp.RequestCtx) {
	MessagesHandler(ctx, s.msgLog)
}

func (s *Server) WebhookEventsWrapper(ctx *fasthttp.RequestCtx) {
	WebhookEventsHandler(ctx, s.recorder)
}

func (s *Server) StatsWrapper(ctx *fasthttp.RequestCtx) {
	StatsHandler(ctx, s.processor, s.recorder, s.cfg)
}

func (s *Server) HealthWrapper(ctx *fasthttp.RequestCtx) {
	HealthHandler(ctx, s.processor)
}

func (s *Server) DebugWrapper(ctx *fasthttp.RequestCtx) {
	DebugHandler(ctx, s.processor, s.recorder, s.cfg)
}

func (s *Server) TestMessageWrapper(ctx *fasthttp.RequestCtx) {
	TestMessageHandler(ctx, s.msgLog)
}

func (s *Server) EventsFeedWrapper(ctx *fasthttp.RequestCtx) {
	s.logger.InfoContext(s.ctx, "EventsFeedWrapper called")
	wsEventsHandler(ctx, s.recorder, s.logger)
}
