package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"slotboard/live"
	"slotboard/utils"
)

// SetReservation binds a slot to a user ahead of time. Admin/owner only,
// enforced by the route's gate.
func (a *API) SetReservation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	var body slotUserPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "user id required")
		return
	}

	topicID, matchID, slotID := ps.ByName("tid"), ps.ByName("matchid"), ps.ByName("slotid")
	if err := a.engine.Reserve(ctx, topicID, matchID, slotID, body.UserID); err != nil {
		respondStoreError(w, err)
		return
	}

	a.hub.Publish(live.Event{Action: "reserve", TopicID: topicID, MatchID: matchID, SlotID: slotID, UserID: body.UserID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{})
}

func (a *API) ClearReservation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	topicID, matchID, slotID := ps.ByName("tid"), ps.ByName("matchid"), ps.ByName("slotid")
	if err := a.engine.Unreserve(ctx, topicID, matchID, slotID); err != nil {
		respondStoreError(w, err)
		return
	}

	a.hub.Publish(live.Event{Action: "unreserve", TopicID: topicID, MatchID: matchID, SlotID: slotID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{})
}

func (a *API) GetReservation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	slot, err := a.engine.GetSlot(ctx, ps.ByName("tid"), ps.ByName("matchid"), ps.ByName("slotid"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"reservedForUserId": slot.ReservedForUserID})
}
