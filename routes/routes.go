// Package routes binds the HTTP surface. Every route composes its own gate
// chain explicitly; the chain order is part of the contract (existence before
// category before credentials before event window before permission).
package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"slotboard/config"
	"slotboard/gate"
	"slotboard/handlers"
	"slotboard/live"
	"slotboard/middleware"
	"slotboard/ratelim"
	"slotboard/utils"
)

func AddSlottingRoutes(router *httprouter.Router, cfg config.Config, api *handlers.API, g *gate.Gate, rl *ratelim.RateLimiter, hub *live.Hub) {
	auth := middleware.OptionalAuth(cfg.JwtSecret)
	base := cfg.APIRoot

	// Read routes: the caller must be allowed to see attendance.
	view := func(h httprouter.Handle) httprouter.Handle {
		return auth(g.Wrap(h,
			g.TopicExists(), g.CategoryAllowed(), g.RequireCanSeeAttendance()))
	}
	// Slot writes: credentials, a live event window, then write permission
	// (share token, API key or forum attend permission).
	slotWrite := func(h httprouter.Handle) httprouter.Handle {
		return auth(rl.Limit(g.Wrap(h,
			g.TopicExists(), g.CategoryAllowed(), g.RequireLoggedIn(),
			g.RequireEventInFuture(), g.RequireCanWriteAttendance())))
	}
	// Structural writes: matches, shares, reservations. Admin or thread owner.
	manage := func(h httprouter.Handle) httprouter.Handle {
		return auth(rl.Limit(g.Wrap(h,
			g.TopicExists(), g.CategoryAllowed(), g.RequireLoggedIn(),
			g.RequireEventInFuture(), g.RequireAdminOrThreadOwner())))
	}
	// Admin reads: ownership required, but no event window. Share tokens
	// stay listable after the event has started.
	adminView := func(h httprouter.Handle) httprouter.Handle {
		return auth(g.Wrap(h,
			g.TopicExists(), g.CategoryAllowed(), g.RequireAdminOrThreadOwner()))
	}
	// Token-bearing reads: the topic must resolve, nothing more.
	exists := func(h httprouter.Handle) httprouter.Handle {
		return auth(g.Wrap(h, g.TopicExists(), g.CategoryAllowed()))
	}

	router.GET(base+"/:tid", view(api.ListMatches))
	router.GET(base+"/:tid/slotted-user-ids", view(api.SlottedUserIDs))
	router.GET(base+"/:tid/has-permissions", auth(api.HasPermissions))

	router.POST(base+"/:tid/match", manage(api.CreateMatch))
	router.GET(base+"/:tid/match/:matchid", view(api.GetMatch))
	router.PUT(base+"/:tid/match/:matchid", manage(api.ReplaceMatch))
	router.DELETE(base+"/:tid/match/:matchid", manage(api.DeleteMatch))
	router.GET(base+"/:tid/match/:matchid/roster.pdf", view(api.RosterPDF))

	router.GET(base+"/:tid/match/:matchid/share", adminView(api.ListShares))
	router.POST(base+"/:tid/match/:matchid/share", manage(api.CreateShare))
	router.DELETE(base+"/:tid/match/:matchid/share", manage(api.DeleteShares))
	router.GET(base+"/:tid/match/:matchid/share/:shareid", exists(api.GetShare))
	router.GET(base+"/:tid/match/:matchid/share/:shareid/qr", exists(api.ShareQR))

	router.GET(base+"/:tid/match/:matchid/slot", view(api.ListSlots))
	router.PUT(base+"/:tid/match/:matchid/slot/:slotid/user", slotWrite(api.ClaimSlot))
	router.DELETE(base+"/:tid/match/:matchid/slot/:slotid/user", slotWrite(api.ReleaseSlot))
	router.GET(base+"/:tid/match/:matchid/slot/:slotid/user", view(api.GetSlotOccupant))

	router.PUT(base+"/:tid/match/:matchid/slot/:slotid/reservation", manage(api.SetReservation))
	router.DELETE(base+"/:tid/match/:matchid/slot/:slotid/reservation", manage(api.ClearReservation))
	router.GET(base+"/:tid/match/:matchid/slot/:slotid/reservation", view(api.GetReservation))

	router.GET(base+"/:tid/updates", live.Handler(hub))
}

func AddUtilityRoutes(router *httprouter.Router) {
	router.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "ok"})
	})
	router.MethodNotAllowed = http.HandlerFunc(handlers.MethodNotAllowed)
}
