// Package gate holds the authorization checks evaluated per request. Each
// check is an independent predicate returning nil (pass) or a denial with a
// status and message; the routing layer composes exactly the right chain per
// verb per resource. Evaluation order matters and is preserved by the chain:
// topic existence → category → login → event window → permission.
package gate

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"slotboard/config"
	"slotboard/eventdate"
	"slotboard/globals"
	"slotboard/host"
	"slotboard/shares"
	"slotboard/utils"
)

const (
	HeaderAPIKey     = "X-Api-Key"
	HeaderShareToken = "X-Share-Token"
)

// Request is the per-request view the checks operate on.
type Request struct {
	TopicID    string
	MatchID    string
	UserID     string
	APIKey     string
	ShareToken string

	topic *hostTopic // memoized lookup
}

type hostTopic struct {
	title      string
	categoryID string
}

// Denial short-circuits a request with a status and message.
type Denial struct {
	Status  int
	Message string
}

func deny(status int, msg string) *Denial {
	return &Denial{Status: status, Message: msg}
}

// Check is one authorization predicate.
type Check func(ctx context.Context, rq *Request) *Denial

type Gate struct {
	cfg    config.Config
	forum  host.Forum
	shares shares.Store
	now    func() time.Time
}

func New(cfg config.Config, forum host.Forum, shareStore shares.Store) *Gate {
	return &Gate{cfg: cfg, forum: forum, shares: shareStore, now: time.Now}
}

// RequestFrom builds the check input from the HTTP request. The user id comes
// from the JWT middleware's context value when present.
func RequestFrom(r *http.Request, ps httprouter.Params) *Request {
	rq := &Request{
		TopicID:    ps.ByName("tid"),
		MatchID:    ps.ByName("matchid"),
		APIKey:     r.Header.Get(HeaderAPIKey),
		ShareToken: r.Header.Get(HeaderShareToken),
	}
	if uid, ok := r.Context().Value(globals.UserIDKey).(string); ok {
		rq.UserID = uid
	}
	return rq
}

// Wrap runs the checks in order before the handler; the first denial wins.
func (g *Gate) Wrap(next httprouter.Handle, checks ...Check) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		rq := RequestFrom(r, ps)
		for _, check := range checks {
			if d := check(r.Context(), rq); d != nil {
				utils.RespondWithError(w, d.Status, d.Message)
				return
			}
		}
		next(w, r, ps)
	}
}

func (g *Gate) apiKeyOK(rq *Request) bool {
	return g.cfg.APIKey != "" && rq.APIKey == g.cfg.APIKey
}

func (g *Gate) topic(ctx context.Context, rq *Request) (*hostTopic, *Denial) {
	if rq.topic != nil {
		return rq.topic, nil
	}
	t, err := g.forum.Topic(ctx, rq.TopicID)
	if errors.Is(err, host.ErrTopicNotFound) {
		return nil, deny(http.StatusNotFound, "topic not found")
	}
	if err != nil {
		return nil, deny(http.StatusInternalServerError, err.Error())
	}
	rq.topic = &hostTopic{title: t.Title, categoryID: t.CategoryID}
	return rq.topic, nil
}

// TopicExists fails NotFound when the topic id does not resolve on the forum.
func (g *Gate) TopicExists() Check {
	return func(ctx context.Context, rq *Request) *Denial {
		_, d := g.topic(ctx, rq)
		return d
	}
}

// CategoryAllowed applies the category allow-list. An empty list disables the
// feature and always passes. A topic outside the list reads as NotFound, not
// Forbidden: the service pretends those topics have no slotting at all.
func (g *Gate) CategoryAllowed() Check {
	return func(ctx context.Context, rq *Request) *Denial {
		if len(g.cfg.AllowedCategories) == 0 {
			return nil
		}
		t, d := g.topic(ctx, rq)
		if d != nil {
			return d
		}
		if !utils.Contains(g.cfg.AllowedCategories, t.categoryID) {
			return deny(http.StatusNotFound, "topic not found")
		}
		return nil
	}
}

// RequireLoggedIn passes when the caller presents the static API key, an
// authenticated identity, or a share token. A share token only asserts
// credentials here; RequireCanWriteAttendance validates it later in the
// chain, so an invalid token still ends in Forbidden before any handler runs.
func (g *Gate) RequireLoggedIn() Check {
	return func(ctx context.Context, rq *Request) *Denial {
		if g.apiKeyOK(rq) || rq.UserID != "" || rq.ShareToken != "" {
			return nil
		}
		return deny(http.StatusUnauthorized, "not logged in")
	}
}

// RequireEventInFuture fails NotFound for non-event topics and Forbidden once
// the event window has passed.
func (g *Gate) RequireEventInFuture() Check {
	return func(ctx context.Context, rq *Request) *Denial {
		t, d := g.topic(ctx, rq)
		if d != nil {
			return d
		}
		if !eventdate.IsEvent(t.title) {
			return deny(http.StatusNotFound, "topic is not an event")
		}
		if eventdate.SecondsToEvent(t.title, g.now()) < 0 {
			return deny(http.StatusForbidden, "event has already started")
		}
		return nil
	}
}

// RequireCanSeeAttendance delegates to the forum's visibility check.
func (g *Gate) RequireCanSeeAttendance() Check {
	return func(ctx context.Context, rq *Request) *Denial {
		if g.apiKeyOK(rq) {
			return nil
		}
		ok, err := g.forum.CanSee(ctx, rq.UserID, rq.TopicID)
		if err != nil {
			return deny(http.StatusInternalServerError, err.Error())
		}
		if !ok {
			return deny(http.StatusForbidden, "you may not view attendance of this topic")
		}
		return nil
	}
}

// RequireCanWriteAttendance authorizes slot writes. A present share token is
// validated against the one (topic, match) pair it was issued for and wins or
// loses on its own; without a token the forum's attend permission decides.
func (g *Gate) RequireCanWriteAttendance() Check {
	return func(ctx context.Context, rq *Request) *Denial {
		if rq.ShareToken != "" {
			ok, err := g.shares.Validate(ctx, rq.TopicID, rq.MatchID, rq.ShareToken)
			if err != nil {
				return deny(http.StatusInternalServerError, err.Error())
			}
			if !ok {
				return deny(http.StatusForbidden, "invalid share token")
			}
			return nil
		}
		if g.apiKeyOK(rq) {
			return nil
		}
		ok, err := g.forum.CanAttend(ctx, rq.UserID, rq.TopicID)
		if err != nil {
			return deny(http.StatusInternalServerError, err.Error())
		}
		if !ok {
			return deny(http.StatusForbidden, "you may not slot in this topic")
		}
		return nil
	}
}

// RequireAdminOrThreadOwner restricts structural operations to the static API
// key, forum admins, and the thread owner (via the forum's edit permission).
func (g *Gate) RequireAdminOrThreadOwner() Check {
	return func(ctx context.Context, rq *Request) *Denial {
		if g.apiKeyOK(rq) {
			return nil
		}
		if rq.TopicID == "" || rq.UserID == "" {
			return deny(http.StatusBadRequest, "topic id and user id required")
		}
		ok, err := g.forum.CanEdit(ctx, rq.UserID, rq.TopicID)
		if err != nil {
			return deny(http.StatusInternalServerError, err.Error())
		}
		if !ok {
			return deny(http.StatusForbidden, "you may not manage matches of this topic")
		}
		return nil
	}
}

// IsAdminOrThreadOwner is the read-only probe behind the has-permissions
// endpoint and the privileged flag of claim/release. Same logic as
// RequireAdminOrThreadOwner but it never fails the request.
func (g *Gate) IsAdminOrThreadOwner(ctx context.Context, rq *Request) bool {
	if g.apiKeyOK(rq) {
		return true
	}
	if rq.TopicID == "" || rq.UserID == "" {
		return false
	}
	ok, err := g.forum.CanEdit(ctx, rq.UserID, rq.TopicID)
	return err == nil && ok
}
