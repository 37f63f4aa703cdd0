package utils

import (
	"sync"
	"time"

	"github.com/sqids/sqids-go"
)

// IDGen hands out short unique ids for webhook event records and
// websocket connections. Ids only need to be unique within one process.
type IDGen struct {
	sqids *sqids.Sqids
	mu    sync.Mutex
	seq   uint64
}

func NewIDGen() *IDGen {
	symbols := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	opts := sqids.Options{
		Alphabet:  symbols,
		MinLength: 8,
	}
	s, _ := sqids.New(opts)

	return &IDGen{sqids: s}
}

func (g *IDGen) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := uint64(time.Now().UnixNano() / 1e6)
	idNum := now<<16 | (g.seq & 0xffff)
	g.seq++

	id, _ := g.sqids.Encode([]uint64{idNum})
	return id
}
