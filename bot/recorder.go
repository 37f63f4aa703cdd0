package bot

import (
	"sync"

	"summy.bot/shared"
	"summy.bot/utils"
)

// MaxRecords bounds the in-memory webhook event history.
const MaxRecords = 50

// Recorder keeps the most recent webhook event records in memory and
// fans each new record out to live subscribers (the /ws feed). Records
// are never persisted; oldest are evicted first.
type Recorder struct {
	mx     sync.RWMutex
	events []shared.WebhookEventRecord
	ids    *utils.IDGen
	subs   map[string]chan shared.WebhookEventRecord
}

func NewRecorder(ids *utils.IDGen) *Recorder {
	return &Recorder{
		ids:  ids,
		subs: make(map[string]chan shared.WebhookEventRecord),
	}
}

// NewRecord starts a record for one inbound webhook call.
func (r *Recorder) NewRecord(signaturePreview string, payloadSize int) shared.WebhookEventRecord {
	return shared.WebhookEventRecord{
		ID:          r.ids.Generate(),
		Timestamp:   utils.UTCTimestamp(),
		Type:        "webhook_received",
		Signature:   signaturePreview,
		PayloadSize: payloadSize,
		Status:      shared.StatusProcessing,
	}
}

// Add appends a finished record, trimming to the most recent MaxRecords,
// and notifies subscribers without ever blocking on a slow one.
func (r *Recorder) Add(rec shared.WebhookEventRecord) {
	r.mx.Lock()
	r.events = append(r.events, rec)
	if len(r.events) > MaxRecords {
		r.events = r.events[len(r.events)-MaxRecords:]
	}
	r.mx.Unlock()

	r.mx.RLock()
	defer r.mx.RUnlock()
	for _, ch := range r.subs {
		select {
		case ch <- rec:
		default:
		}
	}
}

// Recent returns up to n of the newest records in chronological order.
func (r *Recorder) Recent(n int) []shared.WebhookEventRecord {
	r.mx.RLock()
	defer r.mx.RUnlock()
	start := len(r.events) - n
	if start < 0 {
		start = 0
	}
	out := make([]shared.WebhookEventRecord, len(r.events)-start)
	copy(out, r.events[start:])
	return out
}

func (r *Recorder) Total() int {
	r.mx.RLock()
	defer r.mx.RUnlock()
	return len(r.events)
}

// Subscribe registers a live feed consumer. The returned channel is
// buffered; records are dropped rather than blocking the recorder.
func (r *Recorder) Subscribe() (string, <-chan shared.WebhookEventRecord) {
	id := r.ids.Generate()
	ch := make(chan shared.WebhookEventRecord, 16)
	r.mx.Lock()
	r.subs[id] = ch
	r.mx.Unlock()
	return id, ch
}

func (r *Recorder) Unsubscribe(id string) {
	r.mx.Lock()
	delete(r.subs, id)
	r.mx.Unlock()
}
