package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/auctionhouse/internal/api/middleware"
	"github.com/mcoot/auctionhouse/internal/api/response"
	"github.com/mcoot/auctionhouse/internal/realtime"
	"github.com/mcoot/auctionhouse/internal/services/auction"
	"github.com/mcoot/auctionhouse/internal/storage"
)

const maxQueueLimit = 50

// AuctionHandler serves read-only views of the auction
type AuctionHandler struct {
	store   *auction.Store
	storage storage.Storage
	hub     *realtime.Hub
}

// NewAuctionHandler creates a new auction handler
func NewAuctionHandler(store *auction.Store, storage storage.Storage, hub *realtime.Hub) *AuctionHandler {
	return &AuctionHandler{
		store:   store,
		storage: storage,
		hub:     hub,
	}
}

// Health handles GET /api/v1/health
func (h *AuctionHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{
		Status:      "ok",
		Connections: h.hub.Stats().TotalConnections,
		AuctionOver: h.store.State().IsComplete(),
	})
}

// State handles GET /api/v1/state.
// Admin sessions see team passwords; everyone else gets the redacted snapshot.
func (h *AuctionHandler) State(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAdmin(r.Context()) {
		response.JSON(w, http.StatusOK, h.store.AdminState())
		return
	}
	response.JSON(w, http.StatusOK, h.store.PublicState())
}

// SetProgress handles GET /api/v1/sets/progress
func (h *AuctionHandler) SetProgress(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.SetProgressList{Sets: h.store.SetProgress()})
}

// Queue handles GET /api/v1/queue
func (h *AuctionHandler) Queue(w http.ResponseWriter, r *http.Request) {
	limit := auction.DefaultQueueLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxQueueLimit {
			WriteError(w, NewInvalidRequestError("limit must be between 1 and "+strconv.Itoa(maxQueueLimit)))
			return
		}
		limit = n
	}

	response.JSON(w, http.StatusOK, response.Queue{
		CurrentSet: h.store.State().CurrentSet,
		Players:    h.store.UpcomingPlayers(limit),
	})
}

// Teams handles GET /api/v1/teams
func (h *AuctionHandler) Teams(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Teams{Teams: h.store.TeamsByPurse()})
}

// Sales handles GET /api/v1/sales
func (h *AuctionHandler) Sales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.storage.ListSales(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SalesFromLedger(sales))
}

// Connections handles GET /api/v1/connections
func (h *AuctionHandler) Connections(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.hub.Stats())
}
