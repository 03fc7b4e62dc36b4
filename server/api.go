package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/lazharichir/nutsrv/domain"
	"github.com/lazharichir/nutsrv/history"
	"github.com/lazharichir/nutsrv/server/connection"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are checked by the CORS layer
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GameResponse represents a game in API responses
type GameResponse struct {
	ID          int             `json:"id"`
	Type        string          `json:"type"`
	Started     bool            `json:"started"`
	MaxPlayers  int             `json:"maxPlayers"`
	PlayerCount int             `json:"playerCount"`
	Players     []int           `json:"players"`
	Tables      []TableResponse `json:"tables,omitempty"`
}

// TableResponse is the public view of a table; hole cards are never included
type TableResponse struct {
	ID        int            `json:"id"`
	HandID    string         `json:"handId,omitempty"`
	State     string         `json:"state"`
	Round     string         `json:"round"`
	Dealer    int            `json:"dealer"`
	SB        int            `json:"sb"`
	BB        int            `json:"bb"`
	Current   int            `json:"current"`
	BetAmount int            `json:"betAmount"`
	Community []string       `json:"community"`
	Seats     []SeatResponse `json:"seats"`
	Pots      []PotResponse  `json:"pots"`
}

type SeatResponse struct {
	SeatNo   int  `json:"seatNo"`
	ClientID int  `json:"clientId"`
	Stake    int  `json:"stake"`
	Bet      int  `json:"bet"`
	InRound  bool `json:"inRound"`
}

type PotResponse struct {
	Amount  int   `json:"amount"`
	Final   bool  `json:"final"`
	Players []int `json:"players"`
}

// Handler builds the HTTP API and the websocket endpoint. Connections opened
// through it live until ctx is cancelled.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.handleWebSocket(ctx, w, r)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/games", s.handleGetGames)
		r.Get("/games/{id}", s.handleGetGame)
		r.Get("/games/{id}/results", s.handleGetResults)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	return c.Handler(r)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("http request")
	})
}

// handleWebSocket serves the line protocol over a websocket, one line per frame
func (s *Server) handleWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("error upgrading to websocket")
		return
	}
	s.serveConn(ctx, connection.NewWSConn(conn))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleGetGames returns a list of all games
func (s *Server) handleGetGames(w http.ResponseWriter, r *http.Request) {
	var games []GameResponse
	err := s.query(r.Context(), func() {
		for _, g := range s.registry.Games() {
			games = append(games, gameResponse(g, false))
		}
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	if games == nil {
		games = []GameResponse{}
	}
	writeJSON(w, http.StatusOK, games)
}

// handleGetGame returns one game including its tables
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	var resp GameResponse
	var lookupErr error
	err := s.query(r.Context(), func() {
		g, err := s.registry.Get(id)
		if err != nil {
			lookupErr = err
			return
		}
		resp = gameResponse(g, true)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if errors.Is(lookupErr, domain.ErrGameNotFound) {
		http.Error(w, lookupErr.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleGetResults returns the recorded hands of a game
func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	var lookupErr error
	err := s.query(r.Context(), func() {
		_, lookupErr = s.registry.Get(id)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if lookupErr != nil {
		http.Error(w, lookupErr.Error(), http.StatusNotFound)
		return
	}

	results, err := s.history.Results(id)
	if err != nil {
		s.logger.WithError(err).WithField("game", id).Error("loading hand results")
		http.Error(w, "failed to load results", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []history.Result{}
	}

	writeJSON(w, http.StatusOK, results)
}

func gameIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func gameResponse(g *domain.GameController, withTables bool) GameResponse {
	resp := GameResponse{
		ID:          g.ID(),
		Type:        "sng",
		Started:     g.Started(),
		MaxPlayers:  g.MaxPlayers(),
		PlayerCount: g.PlayerCount(),
		Players:     g.PlayerList(),
	}
	if !withTables {
		return resp
	}

	for _, t := range g.Tables() {
		tr := TableResponse{
			ID:        t.ID,
			HandID:    t.HandID,
			State:     t.State.String(),
			Round:     t.Round.String(),
			Dealer:    t.Dealer,
			SB:        t.SB,
			BB:        t.BB,
			Current:   t.Current,
			BetAmount: t.BetAmount,
			Community: []string{},
			Seats:     []SeatResponse{},
			Pots:      []PotResponse{},
		}
		for _, c := range t.Community {
			tr.Community = append(tr.Community, c.String())
		}
		for _, seat := range t.Seats {
			tr.Seats = append(tr.Seats, SeatResponse{
				SeatNo:   seat.SeatNo,
				ClientID: seat.Player.ClientID,
				Stake:    seat.Player.Stake(),
				Bet:      seat.Bet,
				InRound:  seat.InRound,
			})
		}
		for _, p := range t.Pots {
			pr := PotResponse{Amount: p.Amount, Final: p.Final, Players: []int{}}
			for _, pl := range p.Players {
				pr.Players = append(pr.Players, pl.ClientID)
			}
			tr.Pots = append(tr.Pots, pr)
		}
		resp.Tables = append(resp.Tables, tr)
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
