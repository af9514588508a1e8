// Package handlers is the HTTP surface over the slotting core. Every handler
// assumes its route's gate chain already ran; handlers only parse, call the
// engine or a store, and shape the response.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"slotboard/config"
	"slotboard/gate"
	"slotboard/live"
	"slotboard/matches"
	"slotboard/shares"
	"slotboard/slots"
	"slotboard/utils"
)

type API struct {
	cfg    config.Config
	gate   *gate.Gate
	store  matches.Store
	engine *slots.Engine
	shares shares.Store
	hub    *live.Hub
}

func New(cfg config.Config, g *gate.Gate, store matches.Store, engine *slots.Engine, shareStore shares.Store, hub *live.Hub) *API {
	return &API{cfg: cfg, gate: g, store: store, engine: engine, shares: shareStore, hub: hub}
}

func reqCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}

// respondStoreError maps the engine's and stores' sentinel errors onto the
// wire taxonomy.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, slots.ErrNotFound), errors.Is(err, matches.ErrNotFound), errors.Is(err, shares.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, slots.ErrConflict):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, slots.ErrForbidden):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// MethodNotAllowed keeps 405 responses in the JSON error shape.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	utils.RespondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
}
