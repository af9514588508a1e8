package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"

	"slotboard/middleware"
	"slotboard/models"
	"slotboard/utils"
)

func (a *API) ListShares(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	toks, err := a.shares.List(ctx, ps.ByName("tid"), ps.ByName("matchid"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if toks == nil {
		toks = []models.ShareToken{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"tokens": toks})
}

// CreateShare issues a new token. The secret appears in this response and
// nowhere else; only its hash is stored.
func (a *API) CreateShare(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	topicID, matchID := ps.ByName("tid"), ps.ByName("matchid")
	if _, err := a.store.Get(ctx, topicID, matchID); err != nil {
		respondStoreError(w, err)
		return
	}

	tok, secret, err := a.shares.Create(ctx, topicID, matchID, middleware.UserID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token":  tok,
		"secret": secret,
		"link":   a.shareLink(topicID, matchID, secret),
	})
}

// DeleteShares revokes every token of the match.
func (a *API) DeleteShares(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	if err := a.shares.DeleteByMatch(ctx, ps.ByName("tid"), ps.ByName("matchid")); err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{})
}

func (a *API) GetShare(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	tok, err := a.shares.Get(ctx, ps.ByName("tid"), ps.ByName("matchid"), ps.ByName("shareid"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"token": tok})
}

// ShareQR renders the share link as a QR PNG. The caller must present the
// secret it was handed at creation; the server cannot reconstruct it.
func (a *API) ShareQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	topicID, matchID := ps.ByName("tid"), ps.ByName("matchid")
	secret := r.URL.Query().Get("token")

	ok, err := a.shares.Validate(ctx, topicID, matchID, secret)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if !ok {
		utils.RespondWithError(w, http.StatusForbidden, "invalid share token")
		return
	}

	png, err := qrcode.Encode(a.shareLink(topicID, matchID, secret), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (a *API) shareLink(topicID, matchID, secret string) string {
	return fmt.Sprintf("%s/topic/%s?match=%s&share=%s",
		a.cfg.ForumBaseURL, url.PathEscape(topicID), url.QueryEscape(matchID), url.QueryEscape(secret))
}
