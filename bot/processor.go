package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"summy.bot/kafka"
	"summy.bot/msglog"
	"summy.bot/shared"
)

// PlatformAPI is the slice of the platform client the processor needs.
type PlatformAPI interface {
	GetUserInfo(ctx context.Context, userID string) shared.UserInfo
	GetConversations(ctx context.Context) []shared.Conversation
	SendMessage(ctx context.Context, conversationID, text string) error
}

// Processor handles one inbound messaging event end to end: dedup,
// filtering, identity lookup, reply composition, conversation
// resolution, sending and logging. The dedup set lives for the process
// lifetime only; a restart forgets it. Known limitation, not a bug.
type Processor struct {
	mx        sync.RWMutex
	processed map[string]struct{}

	client  PlatformAPI
	log     *msglog.Log
	history *kafka.ProducerPool
	selfID  string
	logger  *slog.Logger
}

func NewProcessor(client PlatformAPI, log *msglog.Log, history *kafka.ProducerPool, selfID string, logger *slog.Logger) *Processor {
	return &Processor{
		processed: make(map[string]struct{}),
		client:    client,
		log:       log,
		history:   history,
		selfID:    selfID,
		logger:    logger.With(slog.String("component", "MessageProcessor")),
	}
}

// ProcessedCount reports how many distinct message ids were handled.
func (p *Processor) ProcessedCount() int {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return len(p.processed)
}

func (p *Processor) alreadyProcessed(mid string) bool {
	p.mx.RLock()
	defer p.mx.RUnlock()
	_, ok := p.processed[mid]
	return ok
}

// markProcessed is idempotent, so concurrent duplicates collapse to one entry.
func (p *Processor) markProcessed(mid string) {
	p.mx.Lock()
	p.processed[mid] = struct{}{}
	p.mx.Unlock()
}

// Process runs the full pipeline for one messaging event. It never
// returns an error: every failure downstream of the webhook response is
// converted to a fallback value or a log marker.
func (p *Processor) Process(ctx context.Context, ev shared.MessagingEvent) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic while processing message", slog.Any("panic", r))
		}
	}()

	mid := ev.Message.MID
	fromID := ev.Sender.ID
	p.logger.Info("processing message",
		slog.String("mid", mid),
		slog.String("from", fromID),
		slog.String("to", ev.Recipient.ID),
		slog.Bool("is_echo", ev.Message.IsEcho))

	// Echo of our own send: not a new inbound message, no dedup mark.
	if ev.Message.IsEcho {
		p.logger.Info("skipping echo message", slog.String("mid", mid))
		return
	}

	if p.alreadyProcessed(mid) {
		p.logger.Info("skipping already processed message", slog.String("mid", mid))
		return
	}

	// Messages from the bot account itself are marked so they are never
	// revisited, but produce no reply and no log entry.
	if fromID == "" || fromID == p.selfID {
		p.logger.Info("skipping own message", slog.String("mid", mid))
		p.markProcessed(mid)
		return
	}

	info := p.client.GetUserInfo(ctx, fromID)
	username := info.Username
	if username == "" {
		username = "User_" + fromID
	}

	replyText := ComposeReply(username)

	conversationID := findConversation(p.client.GetConversations(ctx), fromID)

	displayText := ev.Message.Text
	if displayText == "" {
		displayText = noTextPlaceholder
	}

	switch {
	case conversationID == "":
		p.logger.Warn("conversation not found", slog.String("from", fromID))
		p.record(username, displayText, ReplyNotFound, "not_found")
	case p.client.SendMessage(ctx, conversationID, replyText) != nil:
		p.record(username, displayText, ReplyFailed, "send_failed")
	default:
		p.record(username, displayText, replyText, "sent")
	}

	// Always mark, even after a failed delivery: at most one attempt per mid.
	p.markProcessed(mid)
}

func (p *Processor) record(username, messageText, replyText, status string) {
	p.log.Append(username, messageText, replyText)
	if err := p.history.Post(kafka.HistoryMessage{
		Username: username,
		Message:  messageText,
		Reply:    replyText,
		Status:   status,
		Ts:       time.Now().UnixMilli(),
	}); err != nil {
		p.logger.Error("history mirror rejected message", slog.Any("err", err))
	}
}

// findConversation scans participants for the sender, first match wins.
func findConversation(conversations []shared.Conversation, userID string) string {
	for _, conv := range conversations {
		for _, participant := range conv.Participants.Data {
			if participant.ID == userID {
				return conv.ID
			}
		}
	}
	return ""
}
