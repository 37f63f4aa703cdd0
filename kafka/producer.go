package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	historyTopic = "instagram-message-history"
	dlqTopic     = "instagram-message-history-dlq"
)

// ProducerPool mirrors processed messages onto Kafka asynchronously.
// Posting never blocks the message pipeline: a full buffer spills to the
// DLQ topic instead.
type ProducerPool struct {
	historyCh chan HistoryMessage
	dlqCh     chan DLQMessage
	writers   []*kafka.Writer
	dlqWriter *kafka.Writer
	wg        sync.WaitGroup
	logger    *slog.Logger
}

func NewProducerPool(brokers []string, logger *slog.Logger) *ProducerPool {
	pool := &ProducerPool{
		historyCh: make(chan HistoryMessage, 50000),
		dlqCh:     make(chan DLQMessage, 1000),
		logger:    logger.With(slog.String("component", "HistoryProducer")),
	}

	for i := 0; i < runtime.NumCPU(); i++ {
		w := newKafkaWriter(brokers, historyTopic)
		pool.writers = append(pool.writers, w)
	}

	pool.dlqWriter = newKafkaWriter(brokers, dlqTopic)

	pool.Start()
	return pool
}

func newKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Async:        true,
		RequiredAcks: kafka.RequireOne,
		BatchSize:    500,
		BatchTimeout: 10 * time.Millisecond,
		Compression:  kafka.Snappy,
	}
}

// Post enqueues one history record. A nil pool means mirroring is
// disabled and the call is a no-op.
func (p *ProducerPool) Post(msg HistoryMessage) error {
	if p == nil {
		return nil
	}
	select {
	case p.historyCh <- msg:
		return nil
	default:
		p.logger.Warn("history buffer full")
		dlqMsg := DLQMessage{
			HistoryMessage: msg,
			Error:          errors.New("history_buffer_is_full").Error(),
			Retry:          1,
		}
		return p.sendToDLQ(dlqMsg)
	}
}

func (p *ProducerPool) worker(w *kafka.Writer) {
	defer p.wg.Done()
	defer w.Close()

	for msg := range p.historyCh {
		key := []byte(msg.Username + "_" + msg.Status)
		if msgJson, err := json.Marshal(msg); err == nil {
			if err := w.WriteMessages(context.Background(),
				kafka.Message{Key: key, Value: msgJson},
			); err != nil {
				p.logger.Error("Kafka write failed", slog.Any("err", err))
				dlqMsg := DLQMessage{
					HistoryMessage: msg,
					Error:          err.Error(),
					Retry:          1,
				}
				p.sendToDLQ(dlqMsg)
			}
		} else {
			p.logger.Error("Message dropped", slog.Any("err", err))
		}
	}
}

func (p *ProducerPool) dlqWorker() {
	defer p.wg.Done()
	defer p.dlqWriter.Close()

	for dlqMsg := range p.dlqCh {
		key := []byte(fmt.Sprintf("%s_dlq", dlqMsg.Username))
		if msgJson, err := json.Marshal(dlqMsg); err == nil {
			if err := p.dlqWriter.WriteMessages(context.Background(),
				kafka.Message{
					Key:   key,
					Value: msgJson,
				},
			); err != nil {
				p.logger.Error("DLQ write failed", slog.Any("err", err))
			}
		}
	}
}

func (p *ProducerPool) sendToDLQ(dlqMsg DLQMessage) error {
	select {
	case p.dlqCh <- dlqMsg:
		return nil
	default:
		p.logger.Error("DLQ buffer full")
		return fmt.Errorf("dlq_buffer_full")
	}
}

func (p *ProducerPool) Start() {
	p.wg.Add(len(p.writers) + 1) // + DLQ worker

	for _, w := range p.writers {
		go p.worker(w)
	}
	go p.dlqWorker()
}

func (p *ProducerPool) Close() {
	if p == nil {
		return
	}
	close(p.historyCh)
	close(p.dlqCh)
	p.wg.Wait()
}
