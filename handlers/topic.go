package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"slotboard/gate"
	"slotboard/models"
	"slotboard/utils"
)

// ListMatches returns every match of the topic.
func (a *API) ListMatches(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	ms, err := a.store.ListByTopic(ctx, ps.ByName("tid"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if ms == nil {
		ms = []models.Match{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"matches": ms})
}

// SlottedUserIDs returns the deduplicated occupant ids across all matches.
func (a *API) SlottedUserIDs(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	ids, err := a.engine.OccupantUserIDs(ctx, ps.ByName("tid"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"userIds": ids})
}

// HasPermissions reports whether the caller may manage this topic's matches.
// A probe, never a gate: it answers false instead of failing.
func (a *API) HasPermissions(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	rq := gate.RequestFrom(r, ps)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"result": a.gate.IsAdminOrThreadOwner(ctx, rq)})
}
