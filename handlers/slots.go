package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"slotboard/gate"
	"slotboard/live"
	"slotboard/middleware"
	"slotboard/models"
	"slotboard/utils"
)

type slotUserPayload struct {
	UserID string `json:"userId"`
}

// resolveActor decides which user id a claim/release acts for. The JWT
// identity is authoritative; a body user id is honored only for
// token-authorized callers (who have no identity) and for privileged callers
// acting on someone's behalf.
func resolveActor(r *http.Request, privileged bool) string {
	actor := middleware.UserID(r)

	var body slotUserPayload
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	if body.UserID != "" && (actor == "" || privileged) {
		return body.UserID
	}
	return actor
}

func (a *API) ListSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	list, err := a.engine.ListSlots(ctx, ps.ByName("tid"), ps.ByName("matchid"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if list == nil {
		list = []models.Slot{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"slots": list})
}

func (a *API) ClaimSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	rq := gate.RequestFrom(r, ps)
	privileged := a.gate.IsAdminOrThreadOwner(ctx, rq)
	actor := resolveActor(r, privileged)
	if actor == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "user id required")
		return
	}

	topicID, matchID, slotID := ps.ByName("tid"), ps.ByName("matchid"), ps.ByName("slotid")
	if err := a.engine.Claim(ctx, topicID, matchID, slotID, actor, privileged); err != nil {
		respondStoreError(w, err)
		return
	}

	a.hub.Publish(live.Event{Action: "claim", TopicID: topicID, MatchID: matchID, SlotID: slotID, UserID: actor})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{})
}

func (a *API) ReleaseSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	rq := gate.RequestFrom(r, ps)
	privileged := a.gate.IsAdminOrThreadOwner(ctx, rq)
	actor := resolveActor(r, privileged)
	if actor == "" && !privileged {
		utils.RespondWithError(w, http.StatusBadRequest, "user id required")
		return
	}

	topicID, matchID, slotID := ps.ByName("tid"), ps.ByName("matchid"), ps.ByName("slotid")
	if err := a.engine.Release(ctx, topicID, matchID, slotID, actor, privileged); err != nil {
		respondStoreError(w, err)
		return
	}

	a.hub.Publish(live.Event{Action: "release", TopicID: topicID, MatchID: matchID, SlotID: slotID, UserID: actor})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{})
}

func (a *API) GetSlotOccupant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	slot, err := a.engine.GetSlot(ctx, ps.ByName("tid"), ps.ByName("matchid"), ps.ByName("slotid"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"userId": slot.OccupantUserID})
}
