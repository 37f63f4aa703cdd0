package network

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"summy.bot/bot"
	"summy.bot/config"
	"summy.bot/msglog"
	"summy.bot/shared"
	"summy.bot/utils"
)

type stubPlatform struct{}

func (stubPlatform) GetUserInfo(_ context.Context, userID string) shared.UserInfo {
	return shared.UserInfo{ID: userID, Username: "User_" + userID}
}
func (stubPlatform) GetConversations(context.Context) []shared.Conversation { return nil }
func (stubPlatform) SendMessage(context.Context, string, string) error      { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := &config.Config{
		VerifyToken: "test_verify_token",
		Port:        ":0",
		LogFile:     filepath.Join(t.TempDir(), "messages.txt"),
	}
	msgLog := msglog.New(cfg.LogFile, logger)
	processor := bot.NewProcessor(stubPlatform{}, msgLog, nil, "bot-id", logger)
	recorder := bot.NewRecorder(utils.NewIDGen())
	return NewServer(cfg, processor, recorder, msgLog)
}

func verifyRequest(mode, token, challenge string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI(fmt.Sprintf(
		"/webhook?hub.mode=%s&hub.verify_token=%s&hub.challenge=%s", mode, token, challenge))
	return ctx
}

func TestWebhookVerifyEchoesChallenge(t *testing.T) {
	s := newTestServer(t)

	ctx := verifyRequest("subscribe", "test_verify_token", "challenge-123")
	s.WebhookVerifyWrapper(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "challenge-123", string(ctx.Response.Body()),
		"challenge must be echoed verbatim")
}

func TestWebhookVerifyForbidden(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name  string
		mode  string
		token string
	}{
		{"wrong token", "subscribe", "nope"},
		{"wrong mode", "unsubscribe", "test_verify_token"},
		{"missing everything", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := verifyRequest(tc.mode, tc.token, "challenge-123")
			s.WebhookVerifyWrapper(ctx)
			assert.Equal(t, fasthttp.StatusForbidden, ctx.Response.StatusCode())
			assert.NotEqual(t, "challenge-123", string(ctx.Response.Body()))
		})
	}
}

func postRequest(body string, headers map[string]string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetRequestURI("/webhook")
	ctx.Request.SetBodyString(body)
	for k, v := range headers {
		ctx.Request.Header.Set(k, v)
	}
	return ctx
}

func TestWebhookReceiveAlwaysAcks(t *testing.T) {
	s := newTestServer(t)

	body := `{"entry":[{"id":"1","messaging":[{"sender":{"id":"555"},"recipient":{"id":"999"},"message":{"mid":"m1","text":"hi"}}]}]}`
	ctx := postRequest(body, nil)
	s.handleWebhookReceive(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "OK", string(ctx.Response.Body()))

	require.Equal(t, 1, s.recorder.Total())
	rec := s.recorder.Recent(1)[0]
	assert.Equal(t, shared.StatusCompleted, rec.Status)
	assert.Equal(t, 1, rec.MessagesProcessed)
	assert.Equal(t, len(body), rec.PayloadSize)
	assert.JSONEq(t, body, string(rec.Data))
}

func TestWebhookReceiveBadJSON(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{"", "{not json"} {
		ctx := postRequest(body, nil)
		s.handleWebhookReceive(ctx)

		assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
		assert.Equal(t, "Bad Request", string(ctx.Response.Body()))
	}

	require.Equal(t, 2, s.recorder.Total())
	for _, rec := range s.recorder.Recent(2) {
		assert.Equal(t, shared.StatusNoJSON, rec.Status)
	}
}

func TestWebhookReceiveCountsDispatchedEvents(t *testing.T) {
	s := newTestServer(t)

	body := `{"entry":[
		{"id":"1","messaging":[
			{"sender":{"id":"555"},"message":{"mid":"m1","text":"a"}},
			{"sender":{"id":"556"},"message":{"mid":"m2","text":"b"}}]},
		{"id":"2","messaging":[
			{"sender":{"id":"557"},"message":{"mid":"m3","text":"c"}}]},
		{"id":"3"}]}`
	ctx := postRequest(body, nil)
	s.handleWebhookReceive(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	rec := s.recorder.Recent(1)[0]
	assert.Equal(t, 3, rec.MessagesProcessed, "dispatched count, not success count")
}

func TestWebhookReceiveRecordsSignaturePreview(t *testing.T) {
	s := newTestServer(t)

	ctx := postRequest(`{"entry":[]}`, map[string]string{
		"X-Hub-Signature-256": "sha256=0123456789abcdef0123456789abcdef",
	})
	s.handleWebhookReceive(ctx)

	rec := s.recorder.Recent(1)[0]
	assert.Equal(t, "sha256=0123456789abc...", rec.Signature)
}
