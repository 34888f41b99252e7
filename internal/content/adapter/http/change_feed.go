package http

import (
	"context"
	"sync"
	"time"

	"welfare-cms/internal/shared/eventbus"
	"welfare-cms/internal/shared/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// FeedMessage is one event pushed to /ws/changes subscribers.
type FeedMessage struct {
	Type      string      `json:"type"`
	Domain    string      `json:"domain"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

type feedClient struct {
	id   string
	send chan FeedMessage
}

// Keepalive timing for subscribers. A subscriber that answers no ping within
// defaultPongWait is dropped.
const (
	defaultPingPeriod = 30 * time.Second
	defaultPongWait   = 60 * time.Second
)

// ChangeFeed fans content events out to connected admin dashboards. Slow
// clients lose messages rather than block publishers.
type ChangeFeed struct {
	mu      sync.RWMutex
	clients map[string]*feedClient
	buffer  int
	log     logger.Logger

	pingPeriod time.Duration
	pongWait   time.Duration
}

// NewChangeFeed creates a feed and subscribes it to every event on bus.
func NewChangeFeed(bus eventbus.EventBusInterface, buffer int, log logger.Logger) *ChangeFeed {
	if buffer <= 0 {
		buffer = 16
	}
	if log == nil {
		log = logger.Nop()
	}
	f := &ChangeFeed{
		clients:    make(map[string]*feedClient),
		buffer:     buffer,
		log:        log.WithComponent("change-feed"),
		pingPeriod: defaultPingPeriod,
		pongWait:   defaultPongWait,
	}
	if bus != nil {
		bus.Subscribe(eventbus.AllEvents, f.handleEvent)
	}
	return f
}

func (f *ChangeFeed) handleEvent(ctx context.Context, ev eventbus.Event) error {
	f.Broadcast(FeedMessage{
		Type:      ev.Type(),
		Domain:    eventbus.DomainOf(ev),
		Actor:     eventbus.ActorOf(ev),
		Timestamp: ev.Timestamp(),
		Data:      ev.Data(),
	})
	return nil
}

// Broadcast queues msg for every client.
func (f *ChangeFeed) Broadcast(msg FeedMessage) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, cl := range f.clients {
		select {
		case cl.send <- msg:
		default:
			f.log.Warnf("Dropping change event for slow subscriber %s", cl.id)
		}
	}
}

func (f *ChangeFeed) register() *feedClient {
	cl := &feedClient{id: uuid.NewString(), send: make(chan FeedMessage, f.buffer)}
	f.mu.Lock()
	f.clients[cl.id] = cl
	f.mu.Unlock()
	return cl
}

func (f *ChangeFeed) unregister(cl *feedClient) {
	f.mu.Lock()
	if _, ok := f.clients[cl.id]; ok {
		delete(f.clients, cl.id)
		close(cl.send)
	}
	f.mu.Unlock()
}

// ClientCount returns the number of connected subscribers.
func (f *ChangeFeed) ClientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// Serve runs one websocket subscriber until it disconnects.
func (f *ChangeFeed) Serve(conn *websocket.Conn) {
	cl := f.register()
	f.log.Infof("Change feed subscriber connected: %s", cl.id)

	extend := func() error { return conn.SetReadDeadline(time.Now().Add(f.pongWait)) }
	_ = extend()
	conn.SetPongHandler(func(string) error { return extend() })

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					f.log.Warnf("Change feed subscriber %s: %v", cl.id, err)
				}
				return
			}
			_ = extend()
		}
	}()

	ping := time.NewTicker(f.pingPeriod)
	defer func() {
		ping.Stop()
		f.unregister(cl)
		f.log.Infof("Change feed subscriber disconnected: %s", cl.id)
	}()

	for {
		select {
		case <-done:
			return
		case msg, ok := <-cl.send:
			if !ok {
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every subscriber.
func (f *ChangeFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, cl := range f.clients {
		delete(f.clients, id)
		close(cl.send)
	}
}
