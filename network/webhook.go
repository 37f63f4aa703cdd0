package network

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/valyala/fasthttp"
	"summy.bot/shared"
)

// WebhookVerifyHandler answers the platform's subscription challenge.
// The challenge must be echoed back verbatim, never transformed.
func WebhookVerifyHandler(ctx *fasthttp.RequestCtx, verifyToken string, logger *slog.Logger) {
	args := ctx.QueryArgs()
	mode := string(args.Peek("hub.mode"))
	token := string(args.Peek("hub.verify_token"))
	challenge := string(args.Peek("hub.challenge"))

	logger.Info("webhook verification", slog.String("mode", mode))

	if mode == "subscribe" && token == verifyToken {
		logger.Info("webhook verified")
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString(challenge)
	} else {
		logger.Warn("webhook verification failed")
		ctx.SetStatusCode(fasthttp.StatusForbidden)
		ctx.SetBodyString("Forbidden")
	}
}

// handleWebhookReceive ingests one webhook call: records it, checks the
// signature (logged, not enforced), parses the batch and dispatches each
// messaging event to the processor. The platform always gets a 200 once
// parsing succeeds, no matter how many individual messages fail — a
// failure status here would only provoke its retry storm.
func (s *Server) handleWebhookReceive(ctx *fasthttp.RequestCtx) {
	body := ctx.PostBody()
	signature := string(ctx.Request.Header.Peek("X-Hub-Signature-256"))

	rec := s.recorder.NewRecord(SignaturePreview(signature), len(body))

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("webhook handler panic", slog.Any("panic", r))
			rec.Status = shared.StatusError
			rec.Error = fmt.Sprintf("%v", r)
			s.recorder.Add(rec)
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			ctx.SetBodyString("Internal Server Error")
		}
	}()

	s.logger.Info("webhook received",
		slog.String("signature", rec.Signature),
		slog.Int("payload_size", rec.PayloadSize))

	if VerifySignature(body, signature, s.cfg.AppSecret) {
		s.logger.Info("signature verified")
		rec.Status = shared.StatusSignatureVerified
	} else {
		// Deliberately not enforced, see DESIGN.md.
		s.logger.Warn("signature verification failed, proceeding")
		rec.Status = shared.StatusSignatureFailed
	}

	var payload shared.WebhookPayload
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		s.logger.Warn("no JSON data in webhook")
		rec.Status = shared.StatusNoJSON
		s.recorder.Add(rec)
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.SetBodyString("Bad Request")
		return
	}

	rec.Data = json.RawMessage(append([]byte(nil), body...))
	rec.Status = shared.StatusProcessingMessages

	messagesProcessed := 0
	for _, entry := range payload.Entry {
		s.logger.Info("processing entry", slog.String("entry_id", entry.ID))
		for _, messagingEvent := range entry.Messaging {
			// Fire and forget: the webhook response never waits on the
			// platform round-trips inside the processor.
			go s.processor.Process(context.Background(), messagingEvent)
			messagesProcessed++
		}
	}

	rec.MessagesProcessed = messagesProcessed
	rec.Status = shared.StatusCompleted
	s.recorder.Add(rec)

	s.logger.Info("webhook processing completed", slog.Int("messages_processed", messagesProcessed))

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBodyString("OK")
}
