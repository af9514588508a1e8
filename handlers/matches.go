package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"slotboard/live"
	"slotboard/middleware"
	"slotboard/models"
	"slotboard/slots"
	"slotboard/utils"
)

type matchPayload struct {
	Name      string           `json:"name"`
	Structure models.SlotGroup `json:"structure"`
}

func (a *API) CreateMatch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	var body matchPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := slots.ValidateStructure(&body.Structure); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	m := &models.Match{
		MatchID:   utils.NewID(),
		TopicID:   ps.ByName("tid"),
		Name:      body.Name,
		Structure: body.Structure,
		CreatedBy: middleware.UserID(r),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.Insert(ctx, m); err != nil {
		respondStoreError(w, err)
		return
	}

	a.hub.Publish(live.Event{Action: "structure", TopicID: m.TopicID, MatchID: m.MatchID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"match": m})
}

func (a *API) GetMatch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	m, err := a.store.Get(ctx, ps.ByName("tid"), ps.ByName("matchid"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"match": m})
}

// ReplaceMatch is a full overwrite of the roster structure. The payload is
// authoritative; an admin replacing the structure may silently evict users
// whose slot no longer exists.
func (a *API) ReplaceMatch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	var body matchPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := slots.ValidateStructure(&body.Structure); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	topicID, matchID := ps.ByName("tid"), ps.ByName("matchid")
	if err := a.engine.ReplaceStructure(ctx, topicID, matchID, body.Name, body.Structure); err != nil {
		respondStoreError(w, err)
		return
	}

	a.hub.Publish(live.Event{Action: "structure", TopicID: topicID, MatchID: matchID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{})
}

// DeleteMatch removes the match and revokes its share tokens: a deleted match
// must not leave standing write capabilities behind.
func (a *API) DeleteMatch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	topicID, matchID := ps.ByName("tid"), ps.ByName("matchid")
	if err := a.store.Delete(ctx, topicID, matchID); err != nil {
		respondStoreError(w, err)
		return
	}
	if err := a.shares.DeleteByMatch(ctx, topicID, matchID); err != nil {
		log.Printf("handlers: revoking tokens of deleted match %s/%s: %v", topicID, matchID, err)
	}

	a.hub.Publish(live.Event{Action: "structure", TopicID: topicID, MatchID: matchID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{})
}
