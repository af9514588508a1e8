package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"slotboard/config"
	"slotboard/gate"
	"slotboard/globals"
	"slotboard/host"
	"slotboard/live"
	"slotboard/matches"
	"slotboard/models"
	"slotboard/shares"
	"slotboard/slots"
)

type stubForum struct {
	topics map[string]*models.Topic
	edit   map[string]bool // userID -> may edit
}

func (f *stubForum) Topic(_ context.Context, tid string) (*models.Topic, error) {
	if t, ok := f.topics[tid]; ok {
		return t, nil
	}
	return nil, host.ErrTopicNotFound
}
func (f *stubForum) CanSee(context.Context, string, string) (bool, error)    { return true, nil }
func (f *stubForum) CanAttend(context.Context, string, string) (bool, error) { return true, nil }
func (f *stubForum) CanEdit(_ context.Context, uid, _ string) (bool, error) {
	return f.edit[uid], nil
}

type testEnv struct {
	api    *API
	store  matches.Store
	shares shares.Store
	engine *slots.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{APIKey: "service-key", ForumBaseURL: "http://forum.test"}
	forum := &stubForum{
		topics: map[string]*models.Topic{"t1": {TopicID: "t1", Title: "OP 2030-01-10", CategoryID: "7"}},
		edit:   map[string]bool{"admin": true},
	}
	store := matches.NewMemStore()
	shareStore := shares.NewMemStore()
	engine := slots.NewEngine(store)
	g := gate.New(cfg, forum, shareStore)

	hub := live.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	return &testEnv{
		api:    New(cfg, g, store, engine, shareStore, hub),
		store:  store,
		shares: shareStore,
		engine: engine,
	}
}

func (e *testEnv) seedMatch(t *testing.T) *models.Match {
	t.Helper()
	m := &models.Match{
		MatchID: "m1",
		TopicID: "t1",
		Name:    "Session One",
		Structure: models.SlotGroup{
			ID:   "root",
			Name: "Alpha Company",
			Slots: []models.Slot{
				{ID: "sl-lead", Name: "Squad Lead"},
				{ID: "sl-medic", Name: "Medic"},
			},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := e.store.Insert(context.Background(), m); err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return m
}

// call invokes a handler directly with routing params, optionally as a logged
// in user, and decodes the JSON body.
func call(h httprouter.Handle, method, uid string, headers map[string]string, body string, params ...string) (*httptest.ResponseRecorder, map[string]any) {
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/", rdr)
	if uid != "" {
		req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, uid))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	var ps httprouter.Params
	for i := 0; i+1 < len(params); i += 2 {
		ps = append(ps, httprouter.Param{Key: params[i], Value: params[i+1]})
	}

	w := httptest.NewRecorder()
	h(w, req, ps)

	out := map[string]any{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func TestCreateAndGetMatch(t *testing.T) {
	e := newTestEnv(t)

	body := `{"name":"Session One","structure":{"id":"root","slots":[{"id":"s1","name":"Lead"}]}}`
	w, out := call(e.api.CreateMatch, http.MethodPost, "admin", nil, body, "tid", "t1")
	if w.Code != http.StatusOK {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	created, ok := out["match"].(map[string]any)
	if !ok {
		t.Fatalf("create: no match in %v", out)
	}
	matchID, _ := created["matchId"].(string)
	if matchID == "" {
		t.Fatalf("create: no match id in %v", created)
	}
	if created["createdBy"] != "admin" {
		t.Fatalf("create: createdBy = %v", created["createdBy"])
	}

	w, out = call(e.api.GetMatch, http.MethodGet, "", nil, "", "tid", "t1", "matchid", matchID)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}
	if got := out["match"].(map[string]any)["name"]; got != "Session One" {
		t.Fatalf("get: name = %v", got)
	}
}

func TestCreateMatchRejectsDuplicateSlotIDs(t *testing.T) {
	e := newTestEnv(t)

	body := `{"structure":{"id":"root","slots":[{"id":"s1"},{"id":"s1"}]}}`
	w, out := call(e.api.CreateMatch, http.MethodPost, "admin", nil, body, "tid", "t1")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if out["message"] == "" {
		t.Fatal("expected an error message")
	}
}

func TestClaimReleaseFlow(t *testing.T) {
	e := newTestEnv(t)
	e.seedMatch(t)

	params := []string{"tid", "t1", "matchid", "m1", "slotid", "sl-lead"}

	w, _ := call(e.api.ClaimSlot, http.MethodPut, "u1", nil, "", params...)
	if w.Code != http.StatusOK {
		t.Fatalf("claim: status %d body %s", w.Code, w.Body.String())
	}

	w, out := call(e.api.GetSlotOccupant, http.MethodGet, "", nil, "", params...)
	if w.Code != http.StatusOK || out["userId"] != "u1" {
		t.Fatalf("occupant = %v (status %d)", out["userId"], w.Code)
	}

	// second claimant loses with a conflict
	w, out = call(e.api.ClaimSlot, http.MethodPut, "u2", nil, "", params...)
	if w.Code != http.StatusConflict {
		t.Fatalf("second claim: status %d, want 409", w.Code)
	}
	if out["message"] == "" {
		t.Fatal("conflict response carries no message")
	}

	// non-occupant cannot release
	w, _ = call(e.api.ReleaseSlot, http.MethodDelete, "u2", nil, "", params...)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign release: status %d, want 403", w.Code)
	}

	w, _ = call(e.api.ReleaseSlot, http.MethodDelete, "u1", nil, "", params...)
	if w.Code != http.StatusOK {
		t.Fatalf("release: status %d", w.Code)
	}

	// releasing again: the slot is already empty
	w, _ = call(e.api.ReleaseSlot, http.MethodDelete, "u1", nil, "", params...)
	if w.Code != http.StatusNotFound {
		t.Fatalf("release empty: status %d, want 404", w.Code)
	}
}

func TestClaimWithoutActorFails(t *testing.T) {
	e := newTestEnv(t)
	e.seedMatch(t)

	w, _ := call(e.api.ClaimSlot, http.MethodPut, "", nil, "", "tid", "t1", "matchid", "m1", "slotid", "sl-lead")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAPIKeyClaimsOnBehalf(t *testing.T) {
	e := newTestEnv(t)
	e.seedMatch(t)

	headers := map[string]string{gate.HeaderAPIKey: "service-key"}
	w, _ := call(e.api.ClaimSlot, http.MethodPut, "", headers, `{"userId":"u9"}`,
		"tid", "t1", "matchid", "m1", "slotid", "sl-medic")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}

	slot, err := e.engine.GetSlot(context.Background(), "t1", "m1", "sl-medic")
	if err != nil || slot.OccupantUserID != "u9" {
		t.Fatalf("occupant = %q, err %v", slot.OccupantUserID, err)
	}
}

func TestBodyUserIDIgnoredForPlainUsers(t *testing.T) {
	e := newTestEnv(t)
	e.seedMatch(t)

	// a logged-in non-admin cannot claim for somebody else
	w, _ := call(e.api.ClaimSlot, http.MethodPut, "u1", nil, `{"userId":"victim"}`,
		"tid", "t1", "matchid", "m1", "slotid", "sl-lead")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	slot, _ := e.engine.GetSlot(context.Background(), "t1", "m1", "sl-lead")
	if slot.OccupantUserID != "u1" {
		t.Fatalf("occupant = %q, want the caller's own id", slot.OccupantUserID)
	}
}

func TestReservationEndpoints(t *testing.T) {
	e := newTestEnv(t)
	e.seedMatch(t)

	params := []string{"tid", "t1", "matchid", "m1", "slotid", "sl-lead"}

	w, _ := call(e.api.SetReservation, http.MethodPut, "admin", nil, `{"userId":"u5"}`, params...)
	if w.Code != http.StatusOK {
		t.Fatalf("reserve: status %d body %s", w.Code, w.Body.String())
	}

	w, out := call(e.api.GetReservation, http.MethodGet, "", nil, "", params...)
	if w.Code != http.StatusOK || out["reservedForUserId"] != "u5" {
		t.Fatalf("reservation = %v (status %d)", out["reservedForUserId"], w.Code)
	}

	w, _ = call(e.api.ClearReservation, http.MethodDelete, "admin", nil, "", params...)
	if w.Code != http.StatusOK {
		t.Fatalf("clear: status %d", w.Code)
	}

	// clearing an absent reservation stays a success
	w, _ = call(e.api.ClearReservation, http.MethodDelete, "admin", nil, "", params...)
	if w.Code != http.StatusOK {
		t.Fatalf("clear twice: status %d", w.Code)
	}
}

func TestReservationRequiresUserID(t *testing.T) {
	e := newTestEnv(t)
	e.seedMatch(t)

	w, _ := call(e.api.SetReservation, http.MethodPut, "admin", nil, `{}`,
		"tid", "t1", "matchid", "m1", "slotid", "sl-lead")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestDeleteMatchRevokesShares(t *testing.T) {
	e := newTestEnv(t)
	e.seedMatch(t)

	ctx := context.Background()
	_, secret, err := e.shares.Create(ctx, "t1", "m1", "admin")
	if err != nil {
		t.Fatalf("create share: %v", err)
	}

	w, _ := call(e.api.DeleteMatch, http.MethodDelete, "admin", nil, "", "tid", "t1", "matchid", "m1")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}

	ok, err := e.shares.Validate(ctx, "t1", "m1", secret)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if ok {
		t.Fatal("share token survived match deletion")
	}
}

func TestCreateShareReturnsSecretOnce(t *testing.T) {
	e := newTestEnv(t)
	e.seedMatch(t)

	w, out := call(e.api.CreateShare, http.MethodPost, "admin", nil, "", "tid", "t1", "matchid", "m1")
	if w.Code != http.StatusOK {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	secret, _ := out["secret"].(string)
	if secret == "" {
		t.Fatal("create response carries no secret")
	}

	tok := out["token"].(map[string]any)
	shareID, _ := tok["shareId"].(string)
	if shareID == "" {
		t.Fatal("create response carries no share id")
	}

	// the read endpoint must not leak the secret or its hash
	w, out = call(e.api.GetShare, http.MethodGet, "", nil, "", "tid", "t1", "matchid", "m1", "shareid", shareID)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}
	if body := w.Body.String(); strings.Contains(body, secret) || strings.Contains(body, "secretHash") {
		t.Fatalf("share read leaks secret material: %s", body)
	}
}

func TestShareQR(t *testing.T) {
	e := newTestEnv(t)
	e.seedMatch(t)

	_, secret, err := e.shares.Create(context.Background(), "t1", "m1", "admin")
	if err != nil {
		t.Fatalf("create share: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/?token="+secret, nil)
	w := httptest.NewRecorder()
	e.api.ShareQR(w, req, httprouter.Params{
		{Key: "tid", Value: "t1"}, {Key: "matchid", Value: "m1"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}

	// a wrong secret is rejected before any image is produced
	req = httptest.NewRequest(http.MethodGet, "/?token=wrong", nil)
	w = httptest.NewRecorder()
	e.api.ShareQR(w, req, httprouter.Params{
		{Key: "tid", Value: "t1"}, {Key: "matchid", Value: "m1"},
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("wrong secret: status %d, want 403", w.Code)
	}
}

func TestRosterPDF(t *testing.T) {
	e := newTestEnv(t)
	e.seedMatch(t)

	w, _ := call(e.api.RosterPDF, http.MethodGet, "", nil, "", "tid", "t1", "matchid", "m1")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("body is not a PDF document")
	}
}

func TestSlottedUserIDs(t *testing.T) {
	e := newTestEnv(t)
	e.seedMatch(t)

	ctx := context.Background()
	if err := e.engine.Claim(ctx, "t1", "m1", "sl-lead", "u2", false); err != nil {
		t.Fatal(err)
	}
	if err := e.engine.Claim(ctx, "t1", "m1", "sl-medic", "u1", false); err != nil {
		t.Fatal(err)
	}

	w, out := call(e.api.SlottedUserIDs, http.MethodGet, "", nil, "", "tid", "t1")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	ids, _ := out["userIds"].([]any)
	if len(ids) != 2 || ids[0] != "u1" || ids[1] != "u2" {
		t.Fatalf("userIds = %v, want sorted [u1 u2]", ids)
	}
}

func TestHasPermissionsProbe(t *testing.T) {
	e := newTestEnv(t)

	w, out := call(e.api.HasPermissions, http.MethodGet, "admin", nil, "", "tid", "t1")
	if w.Code != http.StatusOK || out["result"] != true {
		t.Fatalf("admin probe = %v (status %d)", out["result"], w.Code)
	}

	w, out = call(e.api.HasPermissions, http.MethodGet, "u1", nil, "", "tid", "t1")
	if w.Code != http.StatusOK || out["result"] != false {
		t.Fatalf("plain user probe = %v (status %d)", out["result"], w.Code)
	}
}

func TestUnknownMatchReads404(t *testing.T) {
	e := newTestEnv(t)

	w, out := call(e.api.GetMatch, http.MethodGet, "", nil, "", "tid", "t1", "matchid", "nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if out["message"] == "" {
		t.Fatal("missing error message")
	}
}

func TestMethodNotAllowedIsJSON(t *testing.T) {
	router := httprouter.New()
	router.GET("/thing", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {})
	router.MethodNotAllowed = http.HandlerFunc(MethodNotAllowed)

	req := httptest.NewRequest(http.MethodPost, "/thing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
	var out map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("body is not JSON: %s", w.Body.String())
	}
	if out["message"] == "" {
		t.Fatal("405 body carries no message")
	}
}
