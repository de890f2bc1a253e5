package websocket

import (
	"context"

	"github.com/rs/zerolog"
)

type delivery struct {
	login   string
	payload []byte
}

// Hub owns the live connections, one per login. All map access happens on the Run
// goroutine; other goroutines talk to it through channels.
type Hub struct {
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	direct     chan delivery

	// closed when Run returns
	done chan struct{}

	log zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan delivery, 256),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "hub").Logger(),
	}
}

// Deliver queues payload for login without blocking. It returns false when the hub is
// saturated or stopped; the payload is then dropped.
func (h *Hub) Deliver(login string, payload []byte) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.direct <- delivery{login: login, payload: payload}:
		return true
	default:
		h.log.Warn().Str("login", login).Msg("hub direct channel full, dropping payload")
		return false
	}
}

// Run serves the hub until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.log.Info().Msg("hub started")

	for {
		select {
		case <-ctx.Done():
			for login, client := range h.clients {
				close(client.send)
				delete(h.clients, login)
			}
			h.log.Info().Msg("hub stopped")
			return

		case client := <-h.register:
			if existing, ok := h.clients[client.Login]; ok {
				h.log.Info().Str("login", client.Login).Msg("replacing existing connection")
				close(existing.send)
			}
			h.clients[client.Login] = client
			h.log.Debug().Str("login", client.Login).Msg("client registered")

		case client := <-h.unregister:
			// an already replaced connection must not evict its successor
			if stored, ok := h.clients[client.Login]; ok && stored == client {
				delete(h.clients, client.Login)
				close(client.send)
				h.log.Debug().Str("login", client.Login).Msg("client unregistered")
			}

		case d := <-h.direct:
			client, ok := h.clients[d.login]
			if !ok {
				continue
			}
			select {
			case client.send <- d.payload:
			default:
				h.log.Warn().Str("login", d.login).Msg("client send buffer full, dropping connection")
				close(client.send)
				delete(h.clients, d.login)
			}
		}
	}
}
