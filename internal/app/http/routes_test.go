package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventsdiscovery/internal/app/catalog"
	"eventsdiscovery/internal/app/http/middleware"
	"eventsdiscovery/internal/app/upgrade"
	"eventsdiscovery/internal/clock"
	"eventsdiscovery/internal/domain/events"
	"eventsdiscovery/internal/domain/tiers"
	"eventsdiscovery/internal/domain/users"
	"eventsdiscovery/internal/domain/venues"
	"eventsdiscovery/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

var now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	events *store.MemoryEventStore
	venues *store.MemoryVenueStore
	users  *store.MemoryUserStore
	ids    map[string]string
}

// flakyUsers fails SetTier on demand.
type flakyUsers struct {
	*store.MemoryUserStore
	failSetTier bool
}

func (f *flakyUsers) SetTier(ctx context.Context, id string, t tiers.Tier) error {
	if f.failSetTier {
		return errors.New("connection reset")
	}
	return f.MemoryUserStore.SetTier(ctx, id, t)
}

func newEnv(t *testing.T, opts ...func(*Deps)) *testEnv {
	t.Helper()

	es := store.NewMemoryEventStore(
		events.Event{Title: "Free Meetup", Description: "Say hi", Tier: tiers.Free, EventDate: now.Add(24 * time.Hour)},
		events.Event{Title: "Silver Jazz", Description: "Quartet", Tier: tiers.Silver, EventDate: now.Add(48 * time.Hour), ExternalLink: "https://example.com/jazz"},
		events.Event{Title: "Gold Gala", Description: "Black tie", Tier: tiers.Gold, EventDate: now.Add(72 * time.Hour), ExternalLink: "https://example.com/gala"},
		events.Event{Title: "Old Fair", Tier: tiers.Free, EventDate: now.Add(-72 * time.Hour)},
	)
	vs := store.NewMemoryVenueStore(venues.Venue{Name: "Blue Room", AddressLine1: "1 Main St"})
	us := store.NewMemoryUserStore(
		users.User{ID: "free-user", Email: "f@example.com", Tier: tiers.Free},
		users.User{ID: "silver-user", Email: "s@example.com", Tier: tiers.Silver},
	)

	ids := map[string]string{}
	all, _ := es.List(context.Background(), events.Filter{Tiers: tiers.Order()})
	for _, e := range all {
		ids[e.Title] = e.ID
	}

	clk := clock.NewFixed(now)
	d := Deps{
		JWTSecret: testSecret,
		Catalog:   catalog.NewService(es, vs, clk),
		Upgrades:  upgrade.NewWorkflow(us, nil, clk),
		Users:     us,
	}
	for _, opt := range opts {
		opt(&d)
	}

	return &testEnv{router: NewRouter(d), events: es, venues: vs, users: us, ids: ids}
}

func token(t *testing.T, sub, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   sub,
		"email": sub + "@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func (e *testEnv) do(t *testing.T, method, path, tok, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeTitles(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var list []events.Event
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	out := []string{}
	for _, e := range list {
		out = append(out, e.Title)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHealth(t *testing.T) {
	env := newEnv(t)
	w := env.do(t, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get(middleware.HeaderRequestID) == "" {
		t.Fatalf("missing request id header")
	}
}

func TestAuth_Required(t *testing.T) {
	env := newEnv(t)
	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Token abc"},
		{"bad signature", "Bearer " + mustSign(t, "other-secret")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d", w.Code)
			}
		})
	}
}

func mustSign(t *testing.T, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestListEvents_TierGating(t *testing.T) {
	env := newEnv(t)

	tests := []struct {
		name string
		sub  string
		path string
		want []string
	}{
		{"free upcoming", "free-user", "/events?tab=upcoming", []string{"Free Meetup"}},
		{"silver upcoming", "silver-user", "/events?tab=upcoming", []string{"Free Meetup", "Silver Jazz"}},
		{"tier param narrows", "silver-user", "/events?tab=upcoming&tier=free", []string{"Free Meetup"}},
		{"tier param cannot widen", "free-user", "/events?tab=upcoming&tier=platinum", []string{"Free Meetup"}},
		{"past tab", "free-user", "/events?tab=past", []string{"Old Fair"}},
		{"no tab uses raw range", "free-user", "/events", []string{"Old Fair", "Free Meetup"}},
		{"search", "silver-user", "/events?tab=upcoming&search=QUARTET", []string{"Silver Jazz"}},
		{"first sight user is free", "new-user", "/events?tab=upcoming", []string{"Free Meetup"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, tt.path, token(t, tt.sub, ""), "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d %s", w.Code, w.Body.String())
			}
			if got := decodeTitles(t, w); !equal(got, tt.want) {
				t.Fatalf("titles = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListEvents_BadParams(t *testing.T) {
	env := newEnv(t)
	tok := token(t, "free-user", "")
	for _, path := range []string{"/events?from=yesterday", "/events?to=2025-13-45", "/events?tab=soon"} {
		if w := env.do(t, http.MethodGet, path, tok, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s = %d, want 400", path, w.Code)
		}
	}
}

func TestListEvents_DateRange(t *testing.T) {
	env := newEnv(t)
	w := env.do(t, http.MethodGet, "/events?from=2025-06-17&to=2025-06-17T23:59:59Z", token(t, "silver-user", ""), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decodeTitles(t, w); !equal(got, []string{"Silver Jazz"}) {
		t.Fatalf("titles = %v", got)
	}
}

func TestGetEvent(t *testing.T) {
	env := newEnv(t)

	t.Run("visible", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/events/"+env.ids["Silver Jazz"], token(t, "silver-user", ""), "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var got map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &got)
		if got["locked"] != false || got["external_link"] != "https://example.com/jazz" {
			t.Fatalf("body = %v", got)
		}
	})

	t.Run("above tier is locked", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/events/"+env.ids["Gold Gala"], token(t, "silver-user", ""), "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var got map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &got)
		if got["locked"] != true || got["title"] != "Gold Gala" {
			t.Fatalf("body = %v", got)
		}
		if d, _ := got["description"].(string); d != "" {
			t.Fatalf("description leaked: %q", d)
		}
		if l, _ := got["external_link"].(string); l != "" {
			t.Fatalf("link leaked: %q", l)
		}
	})

	t.Run("not found", func(t *testing.T) {
		tok := token(t, "free-user", "")
		for _, id := range []string{"not-a-uuid", "00000000-0000-0000-0000-000000000000"} {
			if w := env.do(t, http.MethodGet, "/events/"+id, tok, ""); w.Code != http.StatusNotFound {
				t.Errorf("%s = %d, want 404", id, w.Code)
			}
		}
	})
}

func TestCreateEvents(t *testing.T) {
	env := newEnv(t)
	tok := token(t, "free-user", "")

	t.Run("single object", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/events", tok, `{"title":"<b>Poetry</b> Slam","event_date":"2025-07-01","tier":"silver"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d %s", w.Code, w.Body.String())
		}
		var list []events.Event
		if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list) != 1 {
			t.Fatalf("body = %s", w.Body.String())
		}
		if list[0].Title != "Poetry Slam" {
			t.Fatalf("title not sanitized: %q", list[0].Title)
		}
		if list[0].ID == "" || list[0].Tier != tiers.Silver {
			t.Fatalf("event = %+v", list[0])
		}
	})

	t.Run("array", func(t *testing.T) {
		body := `[{"title":"A","event_date":"2025-07-02T19:00:00Z"},{"title":"B","event_date":"2025-07-03"}]`
		w := env.do(t, http.MethodPost, "/events", tok, body)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d %s", w.Code, w.Body.String())
		}
		if got := decodeTitles(t, w); !equal(got, []string{"A", "B"}) {
			t.Fatalf("titles = %v", got)
		}
	})

	bad := map[string]string{
		"unknown tier":  `{"title":"X","event_date":"2025-07-01","tier":"diamond"}`,
		"missing title": `{"event_date":"2025-07-01"}`,
		"missing date":  `{"title":"X"}`,
		"bad date":      `{"title":"X","event_date":"soon"}`,
		"malformed":     `{"title":`,
	}
	for name, body := range bad {
		t.Run(name, func(t *testing.T) {
			if w := env.do(t, http.MethodPost, "/events", tok, body); w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestVenuesAndFilters(t *testing.T) {
	env := newEnv(t)
	tok := token(t, "free-user", "")

	w := env.do(t, http.MethodPost, "/venues", tok, `{"name":"Attic","address_line_1":"2 High St"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create venue = %d %s", w.Code, w.Body.String())
	}
	if w := env.do(t, http.MethodPost, "/venues", tok, `{"name":"No address"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid venue = %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/venues", tok, "")
	var vs []venues.Venue
	if err := json.Unmarshal(w.Body.Bytes(), &vs); err != nil || len(vs) != 2 || vs[0].Name != "Attic" {
		t.Fatalf("venues = %s", w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/filters", tok, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Blue Room") {
		t.Fatalf("filters = %d %s", w.Code, w.Body.String())
	}
}

func TestMe(t *testing.T) {
	env := newEnv(t)
	w := env.do(t, http.MethodGet, "/me", token(t, "silver-user", ""), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got struct {
		User   struct{ ID, Tier string }
		Access struct {
			AllowedTiers   []string `json:"allowed_tiers"`
			UpgradeOptions []string `json:"upgrade_options"`
			CanUpgrade     bool     `json:"can_upgrade"`
		}
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.User.ID != "silver-user" || got.User.Tier != "silver" {
		t.Fatalf("user = %+v", got.User)
	}
	if !equal(got.Access.AllowedTiers, []string{"free", "silver"}) || !equal(got.Access.UpgradeOptions, []string{"gold", "platinum"}) || !got.Access.CanUpgrade {
		t.Fatalf("access = %+v", got.Access)
	}
}

func TestUpgradeTier(t *testing.T) {
	t.Run("upgrade then see more", func(t *testing.T) {
		env := newEnv(t)
		tok := token(t, "free-user", "")

		w := env.do(t, http.MethodPost, "/users", tok, `{"id":"free-user","tier":"gold"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"upgraded":true`) {
			t.Fatalf("body = %s", w.Body.String())
		}

		w = env.do(t, http.MethodGet, "/events?tab=upcoming", tok, "")
		if got := decodeTitles(t, w); !equal(got, []string{"Free Meetup", "Silver Jazz", "Gold Gala"}) {
			t.Fatalf("titles after upgrade = %v", got)
		}
	})

	t.Run("lower tier is a no-op", func(t *testing.T) {
		env := newEnv(t)
		w := env.do(t, http.MethodPost, "/users", token(t, "silver-user", ""), `{"id":"silver-user","tier":"free"}`)
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"upgraded":false`) {
			t.Fatalf("status = %d %s", w.Code, w.Body.String())
		}
		u, _ := env.users.Get(context.Background(), "silver-user")
		if u.Tier != tiers.Silver {
			t.Fatalf("tier = %s", u.Tier)
		}
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		env := newEnv(t)
		w := env.do(t, http.MethodPost, "/users", token(t, "free-user", ""), `{"id":"silver-user","tier":"gold"}`)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("invalid tier", func(t *testing.T) {
		env := newEnv(t)
		w := env.do(t, http.MethodPost, "/users", token(t, "free-user", ""), `{"id":"free-user","tier":"diamond"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("store failure leaves tier", func(t *testing.T) {
		var flaky *flakyUsers
		env := newEnv(t, func(d *Deps) {
			flaky = &flakyUsers{MemoryUserStore: d.Users.(*store.MemoryUserStore), failSetTier: true}
			d.Upgrades = upgrade.NewWorkflow(flaky, nil, clock.NewFixed(now))
		})
		w := env.do(t, http.MethodPost, "/users", token(t, "free-user", ""), `{"id":"free-user","tier":"gold"}`)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", w.Code)
		}
		if strings.Contains(w.Body.String(), "connection reset") {
			t.Fatalf("internal error leaked: %s", w.Body.String())
		}
		u, _ := env.users.Get(context.Background(), "free-user")
		if u.Tier != tiers.Free {
			t.Fatalf("tier = %s", u.Tier)
		}
	})
}

func TestAdminUsers(t *testing.T) {
	env := newEnv(t)

	if w := env.do(t, http.MethodGet, "/admin/users", token(t, "free-user", ""), ""); w.Code != http.StatusForbidden {
		t.Fatalf("non-admin = %d", w.Code)
	}
	w := env.do(t, http.MethodGet, "/admin/users", token(t, "boss", users.RoleAdmin), "")
	if w.Code != http.StatusOK {
		t.Fatalf("admin = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "silver-user") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestWriteRateLimit(t *testing.T) {
	env := newEnv(t, func(d *Deps) {
		d.WriteLimiter = middleware.NewRateLimiter(1, 1)
	})
	tok := token(t, "free-user", "")
	body := `{"name":"Attic","address_line_1":"2 High St"}`

	if w := env.do(t, http.MethodPost, "/venues", tok, body); w.Code != http.StatusCreated {
		t.Fatalf("first = %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/venues", tok, body); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second = %d, want 429", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/venues", tok, ""); w.Code != http.StatusOK {
		t.Fatalf("reads should not be limited: %d", w.Code)
	}
}

func TestCreateEvent_SearchableByTypedText(t *testing.T) {
	env := newEnv(t)
	tok := token(t, "free-user", "")

	body := `{"title":"Rock & Roll <i>Night</i>","description":"Tom's jam","event_date":"2025-07-04"}`
	w := env.do(t, http.MethodPost, "/events", tok, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", w.Code, w.Body.String())
	}
	if got := decodeTitles(t, w); !equal(got, []string{"Rock & Roll Night"}) {
		t.Fatalf("stored titles = %v", got)
	}

	for _, q := range []string{"rock+%26+roll", "tom%27s"} {
		w := env.do(t, http.MethodGet, "/events?tab=upcoming&search="+q, tok, "")
		if got := decodeTitles(t, w); !equal(got, []string{"Rock & Roll Night"}) {
			t.Errorf("search %s = %v", q, got)
		}
	}
}
