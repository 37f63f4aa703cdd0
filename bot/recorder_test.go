package bot

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"summy.bot/shared"
	"summy.bot/utils"
)

func TestRecorderEvictsOldest(t *testing.T) {
	r := NewRecorder(utils.NewIDGen())

	for i := 1; i <= MaxRecords+1; i++ {
		rec := r.NewRecord("sig...", i)
		rec.Status = shared.StatusCompleted
		rec.Error = fmt.Sprintf("call-%d", i)
		r.Add(rec)
	}

	assert.Equal(t, MaxRecords, r.Total(), "ring never exceeds %d entries", MaxRecords)

	all := r.Recent(MaxRecords)
	require.Len(t, all, MaxRecords)
	assert.Equal(t, "call-2", all[0].Error, "the oldest call was evicted")
	assert.Equal(t, fmt.Sprintf("call-%d", MaxRecords+1), all[len(all)-1].Error)
}

func TestRecorderRecent(t *testing.T) {
	r := NewRecorder(utils.NewIDGen())
	assert.Empty(t, r.Recent(10))

	for i := 0; i < 3; i++ {
		r.Add(r.NewRecord("sig...", i))
	}

	assert.Len(t, r.Recent(10), 3)
	assert.Len(t, r.Recent(2), 2)
	assert.Equal(t, 3, r.Total())
}

func TestRecorderNewRecordDefaults(t *testing.T) {
	r := NewRecorder(utils.NewIDGen())
	rec := r.NewRecord("sha256=abcd...", 42)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "webhook_received", rec.Type)
	assert.Equal(t, shared.StatusProcessing, rec.Status)
	assert.Equal(t, 42, rec.PayloadSize)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, rec.Timestamp)
}

func TestRecorderFanOut(t *testing.T) {
	r := NewRecorder(utils.NewIDGen())

	id, events := r.Subscribe()
	defer r.Unsubscribe(id)

	rec := r.NewRecord("sig...", 1)
	r.Add(rec)

	got := <-events
	assert.Equal(t, rec.ID, got.ID)
}

func TestRecorderNeverBlocksOnSlowSubscriber(t *testing.T) {
	r := NewRecorder(utils.NewIDGen())

	id, _ := r.Subscribe()
	defer r.Unsubscribe(id)

	// Nobody drains the channel; Add must still return promptly.
	for i := 0; i < 100; i++ {
		r.Add(r.NewRecord("sig...", i))
	}
	assert.Equal(t, MaxRecords, r.Total())
}
