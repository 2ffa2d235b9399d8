package realtime

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/versin01/vertical-systems-crm/internal/models"
)

const EventStageChanged = "deal.stage_changed"

// Event is pushed to board subscribers after a deal changes stage.
type Event struct {
	Type string       `json:"type"`
	From models.Stage `json:"from"`
	To   models.Stage `json:"to"`
	Deal models.Deal  `json:"deal"`
	At   time.Time    `json:"at"`
}

// Subscription scopes what a connection receives. An empty OwnerID sees every deal.
type Subscription struct {
	OwnerID string
}

func (s Subscription) wants(d models.Deal) bool {
	if s.OwnerID == "" {
		return true
	}
	return d.OwnerID != nil && *d.OwnerID == s.OwnerID
}

// sendQueue is how many events a subscriber may lag behind before it is dropped.
const sendQueue = 32

type subscriber struct {
	sub  Subscription
	send chan Event
}

// BoardHub fans stage changes out to live pipeline board connections. Each
// connection has its own writer goroutine so a slow client never blocks a move.
type BoardHub struct {
	mu     sync.RWMutex
	conns  map[*Conn]*subscriber
	logger *zap.Logger
}

func NewBoardHub(logger *zap.Logger) *BoardHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardHub{
		conns:  make(map[*Conn]*subscriber),
		logger: logger,
	}
}

func (h *BoardHub) Register(conn *Conn, sub Subscription) {
	s := &subscriber{sub: sub, send: make(chan Event, sendQueue)}
	h.mu.Lock()
	h.conns[conn] = s
	h.mu.Unlock()
	go h.writeLoop(conn, s)
}

func (h *BoardHub) writeLoop(conn *Conn, s *subscriber) {
	for evt := range s.send {
		if err := conn.WriteJSON(evt); err != nil {
			h.logger.Debug("dropping board subscriber", zap.Error(err))
			h.Unregister(conn)
			return
		}
	}
}

// Unregister closes the connection. Safe to call more than once.
func (h *BoardHub) Unregister(conn *Conn) {
	h.mu.Lock()
	if s, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		close(s.send)
	}
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *BoardHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// DealMoved queues the change for every interested subscriber. Subscribers
// whose queue is full are dropped.
func (h *BoardHub) DealMoved(_ context.Context, deal models.Deal, from models.Stage) {
	evt := Event{
		Type: EventStageChanged,
		From: from,
		To:   deal.Stage,
		Deal: deal,
		At:   deal.UpdatedAt,
	}

	h.mu.RLock()
	var slow []*Conn
	for conn, s := range h.conns {
		if !s.sub.wants(deal) {
			continue
		}
		select {
		case s.send <- evt:
		default:
			slow = append(slow, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range slow {
		h.logger.Warn("board subscriber too slow, dropping")
		h.Unregister(conn)
	}
}
