// Package inspect serves read-only session state over HTTP and streams
// combat events to websocket clients
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/hud"
	"github.com/lixenwraith/void-fighter/ship"
)

const (
	clientBuffer    = 256
	writeWait       = 5 * time.Second
	shutdownTimeout = 2 * time.Second
)

// EventFrame is the websocket encoding of one game event
type EventFrame struct {
	Type    string `json:"type"`
	Frame   int64  `json:"frame"`
	Payload any    `json:"payload"`
}

// ShipView is the JSON projection of a ship
type ShipView struct {
	ID        core.Entity `json:"id"`
	Name      string      `json:"name"`
	TypeID    string      `json:"type_id"`
	Kind      string      `json:"kind"`
	Player    bool        `json:"player"`
	Hull      float64     `json:"hull"`
	MaxHull   float64     `json:"max_hull"`
	Shield    float64     `json:"shield"`
	Energy    float64     `json:"energy"`
	MaxEnergy float64     `json:"max_energy"`
	Position  [3]float64  `json:"position"`
	Systems   []string    `json:"systems"`
	Destroyed bool        `json:"destroyed"`
}

type client struct {
	send   chan []byte
	filter event.TypeSet
}

// Server is the inspector; register it with a service.Hub
type Server struct {
	addr string
	game *engine.GameContext
	feed *hud.Feed
	log  zerolog.Logger

	router   *mux.Router
	upgrader websocket.Upgrader
	srv      *http.Server

	mu      sync.Mutex
	clients map[*client]struct{}
	dropped uint64
}

// New wires routes and subscribes to the game's event router
// feed may be nil, in which case /messages is not served
func New(addr string, game *engine.GameContext, feed *hud.Feed, log zerolog.Logger) *Server {
	s := &Server{
		addr:     addr,
		game:     game,
		feed:     feed,
		log:      log.With().Str("component", "inspect").Logger(),
		router:   mux.NewRouter(),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*client]struct{}),
	}
	s.router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/ships", s.handleShips).Methods(http.MethodGet)
	s.router.HandleFunc("/ships/{id:[0-9]+}", s.handleShip).Methods(http.MethodGet)
	if feed != nil {
		s.router.HandleFunc("/messages", s.handleMessages).Methods(http.MethodGet)
	}
	s.router.HandleFunc("/feed", s.handleFeed)
	game.Router.Observe(s.broadcast)
	return s
}

// Handler exposes the route table
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Name() string { return "inspect" }

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.srv = &http.Server{Handler: s.router, ReadHeaderTimeout: writeWait}
	s.log.Info().Str("addr", ln.Addr().String()).Msg("inspector listening")
	core.Go(func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("inspector stopped")
		}
	})
	return nil
}

func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.srv.Shutdown(ctx)
	s.mu.Lock()
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
	s.mu.Unlock()
	s.srv = nil
	return err
}

// broadcast runs on the tick goroutine; slow clients lose frames rather
// than stall the simulation
func (s *Server) broadcast(ev event.GameEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.clients) == 0 {
		return
	}
	data, err := json.Marshal(EventFrame{Type: ev.Type.String(), Frame: s.game.Scheduler.Frame(), Payload: ev.Payload})
	if err != nil {
		s.log.Warn().Err(err).Str("event", ev.Type.String()).Msg("encode event")
		return
	}
	for c := range s.clients {
		if !c.filter.Accepts(ev.Type) {
			continue
		}
		select {
		case c.send <- data:
		default:
			s.dropped++
		}
	}
}

// ClientCount is the number of connected feed clients
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.game.Status.Snapshot())
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.feed.Active(0))
}

func viewOf(sh *ship.Ship, player core.Entity) ShipView {
	v := ShipView{
		ID:        sh.ID,
		Name:      sh.Name,
		TypeID:    sh.TypeID,
		Kind:      sh.Kind.String(),
		Player:    sh.ID == player,
		Hull:      sh.Hull(),
		MaxHull:   sh.MaxHull(),
		Shield:    sh.ShieldHP(),
		Energy:    sh.Energy(),
		MaxEnergy: sh.MaxEnergy(),
		Position:  [3]float64{sh.Position.X, sh.Position.Y, sh.Position.Z},
		Destroyed: sh.IsDestroyed(),
	}
	for _, sys := range sh.Systems() {
		v.Systems = append(v.Systems, sys.Name())
	}
	return v
}

func (s *Server) handleShips(w http.ResponseWriter, r *http.Request) {
	var out []ShipView
	s.game.World.RunSafe(func() {
		player := s.game.World.PlayerID()
		for _, sh := range s.game.World.Ships.Values() {
			out = append(out, viewOf(sh, player))
		}
	})
	writeJSON(w, out)
}

func (s *Server) handleShip(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var (
		v  ShipView
		ok bool
	)
	s.game.World.RunSafe(func() {
		var sh *ship.Ship
		if sh, ok = s.game.World.Ship(core.Entity(id)); ok {
			v = viewOf(sh, s.game.World.PlayerID())
		}
	})
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, v)
}

// handleFeed upgrades to a websocket and streams events; ?types= takes a
// comma-separated list of event names
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade")
		return
	}
	c := &client{send: make(chan []byte, clientBuffer), filter: event.ParseTypeSet(r.URL.Query().Get("types"))}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	done := make(chan struct{})
	core.Go(func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	defer func() {
		s.mu.Lock()
		if _, ok := s.clients[c]; ok {
			delete(s.clients, c)
			close(c.send)
		}
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		select {
		case <-done:
			return
		case data, ok := <-c.send:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
