package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/auctionhouse/internal/api/response"
	"github.com/mcoot/auctionhouse/internal/catalog"
	"github.com/mcoot/auctionhouse/internal/services/auction"
	"github.com/mcoot/auctionhouse/internal/services/auth"
	"github.com/mcoot/auctionhouse/internal/storage"
)

const maxCatalogSize = 4 << 20

// CatalogHandler stores the catalog that an auction reset loads
type CatalogHandler struct {
	storage     storage.Storage
	authService *auth.Service
	logger      *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(storage storage.Storage, authService *auth.Service, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		storage:     storage,
		authService: authService,
		logger:      logger,
	}
}

// Get handles GET /api/v1/catalog
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.storage.GetCatalog(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.CatalogSummaryFromModel(c))
}

// Put handles PUT /api/v1/catalog. YAML bodies are accepted with a yaml content type.
func (h *CatalogHandler) Put(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxCatalogSize))
	if err != nil {
		WriteError(w, NewInvalidRequestError("failed to read request body"))
		return
	}

	c, err := catalog.Decode(data, formatOf(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := auction.ValidateCatalog(c); err != nil {
		WriteError(w, err)
		return
	}
	c, err = h.authService.HashCatalog(c)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.storage.SaveCatalog(r.Context(), &c); err != nil {
		WriteError(w, err)
		return
	}

	h.logger.Info("catalog stored",
		slog.Int("teams", len(c.Teams)),
		slog.Int("players", len(c.Players)))
	response.JSON(w, http.StatusOK, response.CatalogSummaryFromModel(&c))
}

func formatOf(r *http.Request) catalog.Format {
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return catalog.FormatYAML
	}
	return catalog.FormatJSON
}
