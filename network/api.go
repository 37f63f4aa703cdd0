package network

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
	"summy.bot/bot"
	"summy.bot/config"
	"summy.bot/msglog"
)

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetContentType("application/json; charset=utf-8")
	ctx.SetStatusCode(status)
	body, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(`{"error":"encoding failed"}`)
		return
	}
	ctx.SetBody(body)
}

// MessagesHandler lists the message log, most recent first. Lines that
// do not match the log format come back as {"raw": line}.
func MessagesHandler(ctx *fasthttp.RequestCtx, msgLog *msglog.Log) {
	records, err := msgLog.Records()
	if err != nil {
		writeJSON(ctx, fasthttp.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{"messages": records})
}

// WebhookEventsHandler exposes the last 10 webhook event records plus a
// total count.
func WebhookEventsHandler(ctx *fasthttp.RequestCtx, recorder *bot.Recorder) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"webhook_events": recorder.Recent(10),
		"total_events":   recorder.Total(),
	})
}

func StatsHandler(ctx *fasthttp.RequestCtx, processor *bot.Processor, recorder *bot.Recorder, cfg *config.Config) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"processed_messages":      processor.ProcessedCount(),
		"webhook_events":          recorder.Total(),
		"access_token_configured": cfg.AccessTokenConfigured(),
		"app_secret_configured":   cfg.AppSecretConfigured(),
	})
}

func HealthHandler(ctx *fasthttp.RequestCtx, processor *bot.Processor) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"status":             "healthy",
		"message":            "Instagram webhook bot is running",
		"processed_messages": processor.ProcessedCount(),
	})
}

// DebugHandler surfaces configuration booleans and recent activity.
// Credential values themselves never leave the process.
func DebugHandler(ctx *fasthttp.RequestCtx, processor *bot.Processor, recorder *bot.Recorder, cfg *config.Config) {
	var businessID any
	if cfg.BusinessAccountID != "" {
		id := cfg.BusinessAccountID
		if len(id) > 10 {
			id = id[:10]
		}
		businessID = id + "..."
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"access_token_configured":   cfg.AccessTokenConfigured(),
		"app_secret_configured":     cfg.AppSecretConfigured(),
		"ig_business_id_configured": cfg.BusinessAccountID != "",
		"ig_business_id":            businessID,
		"webhook_events_count":      recorder.Total(),
		"processed_messages_count":  processor.ProcessedCount(),
		"recent_webhook_events":     recorder.Recent(3),
	})
}

// TestMessageHandler appends a canned entry to the log so the dashboard
// can be exercised without real platform traffic.
func TestMessageHandler(ctx *fasthttp.RequestCtx, msgLog *msglog.Log) {
	testUsername := "test_user"
	testMessage := "This is a test message from the bot"
	testReply := bot.ComposeReply(testUsername)

	msgLog.Append(testUsername, testMessage, testReply)

	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"status":       "success",
		"message":      "Test message logged successfully",
		"username":     testUsername,
		"message_text": testMessage,
		"reply":        testReply,
	})
}
