package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/services/auction"
	"github.com/mcoot/auctionhouse/internal/services/auth"
	"github.com/mcoot/auctionhouse/internal/services/bidding"
	"github.com/mcoot/auctionhouse/internal/services/session"
)

// CatalogSource returns the catalog a reset rebuilds the auction from
type CatalogSource func(ctx context.Context) (model.Catalog, error)

const catalogTimeout = 5 * time.Second

// Dispatcher routes inbound frames to the registry and the store
type Dispatcher struct {
	store    *auction.Store
	registry *session.Registry
	auth     *auth.Service
	hub      *Hub
	catalog  CatalogSource
	logger   *slog.Logger
}

var _ MessageHandler = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher
func NewDispatcher(store *auction.Store, registry *session.Registry, authService *auth.Service, hub *Hub, catalog CatalogSource, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:    store,
		registry: registry,
		auth:     authService,
		hub:      hub,
		catalog:  catalog,
		logger:   logger.With(slog.String("component", "dispatcher")),
	}
}

// Handle processes one inbound frame. Failures are reported to the sender only.
func (d *Dispatcher) Handle(connID model.ConnectionID, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
		d.replyError(connID, fmt.Errorf("%w: invalid envelope", model.ErrMalformedPayload))
		return
	}

	var err error
	switch env.Type {
	case TypeIdentity:
		err = d.identity(connID, env)
	case TypeBid:
		err = d.asAdmin(connID, env, d.bid)
	case TypeSale:
		err = d.asAdmin(connID, env, d.sale)
	case TypeMarkUnsold:
		err = d.asAdmin(connID, env, d.markUnsold)
	case TypeStateUpdate:
		err = d.asAdmin(connID, env, d.stateUpdate)
	case TypePlayerStatusUpdate:
		err = d.asAdmin(connID, env, d.playerStatusUpdate)
	case TypeChangeSet:
		err = d.asAdmin(connID, env, d.changeSet)
	case TypeResetAuction:
		err = d.asAdmin(connID, env, d.resetAuction)
	case TypeRequeueUnsold:
		err = d.asAdmin(connID, env, d.requeueUnsold)
	default:
		err = fmt.Errorf("%w: unknown message type %q", model.ErrMalformedPayload, env.Type)
	}
	if err == nil {
		return
	}

	if rejection, ok := bidding.AsRejection(err); ok {
		d.logger.Debug("bid rejected",
			slog.String("connection_id", string(connID)),
			slog.String("reason", string(rejection.Reason)))
		d.reply(connID, TypeBidRejected, BidRejectedPayload{Message: rejection.Message, Reason: rejection.Reason})
		return
	}
	d.logger.Info("message failed",
		slog.String("connection_id", string(connID)),
		slog.String("type", string(env.Type)),
		slog.Any("error", err))
	d.replyError(connID, err)
}

// Disconnect forgets the connection's session
func (d *Dispatcher) Disconnect(connID model.ConnectionID) {
	d.registry.Unregister(connID)
}

func (d *Dispatcher) reply(connID model.ConnectionID, t MessageType, payload any) {
	data, err := Encode(t, payload)
	if err != nil {
		d.logger.Error("failed to encode reply", slog.Any("error", err))
		return
	}
	d.hub.SendTo(connID, data)
}

func (d *Dispatcher) replyError(connID model.ConnectionID, err error) {
	code := errorCode(err)
	message := err.Error()
	if code == "internal" {
		message = "internal error"
	}
	d.reply(connID, TypeError, ErrorPayload{Message: message, Code: code})
}

// asAdmin runs fn only for the admin session
func (d *Dispatcher) asAdmin(connID model.ConnectionID, env Envelope, fn func(env Envelope) error) error {
	if _, err := d.registry.RequireRole(connID, model.RoleAdmin); err != nil {
		return err
	}
	return fn(env)
}

func (d *Dispatcher) identity(connID model.ConnectionID, env Envelope) error {
	var p IdentityPayload
	if err := decodePayload(env, &p); err != nil {
		return err
	}
	if !p.Role.Valid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidRole, p.Role)
	}
	if err := d.auth.AuthorizeIdentity(p.Role, p.TeamID, p.Token); err != nil {
		return err
	}
	if _, err := d.registry.Register(connID, p.DeviceID, p.Role, p.TeamID, d.store.TeamExists); err != nil {
		return err
	}
	d.hub.ConfirmIdentity(connID)
	return nil
}

func (d *Dispatcher) bid(env Envelope) error {
	var p BidPayload
	if err := decodePayload(env, &p); err != nil {
		return err
	}
	_, err := d.store.ApplyBid(model.BidRequest{TeamID: p.TeamID, Amount: p.Amount, PlayerID: p.PlayerID})
	return err
}

func (d *Dispatcher) sale(env Envelope) error {
	var p SalePayload
	if err := decodePayload(env, &p); err != nil {
		return err
	}
	_, err := d.store.ApplySale(p.TeamID, p.Lot(), p.Amount)
	return err
}

func (d *Dispatcher) markUnsold(env Envelope) error {
	_, err := d.store.MarkUnsold()
	return err
}

func (d *Dispatcher) stateUpdate(env Envelope) error {
	patch, err := decodePatch(env)
	if err != nil {
		return err
	}
	if patch.Teams != nil {
		teams, err := d.auth.HashTeamPasswords(*patch.Teams)
		if err != nil {
			return err
		}
		patch.Teams = &teams
	}
	_, err = d.store.ApplyPatch(patch)
	return err
}

func (d *Dispatcher) playerStatusUpdate(env Envelope) error {
	var p PlayerStatusPayload
	if err := decodePayload(env, &p); err != nil {
		return err
	}
	_, err := d.store.ApplyPlayerStatusUpdate(p.Players)
	return err
}

func (d *Dispatcher) changeSet(env Envelope) error {
	var p SetPayload
	if err := decodePayload(env, &p); err != nil {
		return err
	}
	_, err := d.store.ChangeSet(p.Set)
	return err
}

func (d *Dispatcher) requeueUnsold(env Envelope) error {
	var p SetPayload
	if err := decodePayload(env, &p); err != nil {
		return err
	}
	_, err := d.store.RequeueUnsold(p.Set)
	return err
}

func (d *Dispatcher) resetAuction(env Envelope) error {
	ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
	defer cancel()

	c, err := d.catalog(ctx)
	if err != nil {
		if errors.Is(err, model.ErrCatalogNotFound) {
			return err
		}
		return fmt.Errorf("load catalog: %w", err)
	}
	c, err = d.auth.HashCatalog(c)
	if err != nil {
		return err
	}
	_, err = d.store.ResetToInitial(c)
	return err
}
