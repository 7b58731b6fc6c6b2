package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"itemtrack/internal/models"
	"itemtrack/internal/repository"
	"itemtrack/internal/service"
	"itemtrack/internal/token"
)

// In-memory stores for full-stack handler tests (real services, real codec,
// no database).

type fakeUsers struct{ byEmail map[string]models.User }

func newFakeUsers() *fakeUsers { return &fakeUsers{byEmail: make(map[string]models.User)} }

func (f *fakeUsers) Create(ctx context.Context, u models.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type fakeItems struct{ byID map[string]models.Item }

func newFakeItems() *fakeItems { return &fakeItems{byID: make(map[string]models.Item)} }

func (f *fakeItems) Create(ctx context.Context, it models.Item) error {
	f.byID[it.ID] = it
	return nil
}

func (f *fakeItems) GetByID(ctx context.Context, id string) (*models.Item, error) {
	it, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (f *fakeItems) Update(ctx context.Context, it models.Item) error {
	f.byID[it.ID] = it
	return nil
}

func (f *fakeItems) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeItems) List(ctx context.Context, filter repository.ItemFilter) ([]models.Item, int, error) {
	var out []models.Item
	for _, it := range f.byID {
		if filter.OwnerID != "" && it.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, it)
	}
	return out, len(out), nil
}

// newFullStackRouter wires real services over in-memory stores, sharing the
// signing key with the handler config.
func newFullStackRouter() http.Handler {
	codec := token.NewCodec(testAuthConfig().SigningKey, testAuthConfig().TokenTTL)
	repos := &repository.Repository{Users: newFakeUsers(), Items: newFakeItems()}
	return newTestRouter(service.NewService(repos, codec))
}

func TestFlow_RegisterThenMe(t *testing.T) {
	r := newFullStackRouter()

	w := postJSON(r, "/api/auth/register",
		`{"name":"alice","email":"alice@example.com","password":"pw"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("register status=%d, body=%s", w.Code, w.Body.String())
	}
	cookie := findSessionCookie(t, w)

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w2, req)

	if w2.Code != http.StatusOK {
		t.Fatalf("me status=%d, body=%s", w2.Code, w2.Body.String())
	}
	var out struct {
		User models.Identity `json:"user"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.User.Name != "alice" || out.User.Email != "alice@example.com" || out.User.Role != models.RoleUser {
		t.Fatalf("identity mismatch: %+v", out.User)
	}
	if out.User.ID == "" {
		t.Fatalf("identity missing id: %+v", out.User)
	}
}

func TestFlow_LoginFailuresAreIdentical(t *testing.T) {
	r := newFullStackRouter()

	w := postJSON(r, "/api/auth/register",
		`{"name":"bob","email":"bob@example.com","password":"correct"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("register status=%d, body=%s", w.Code, w.Body.String())
	}

	unknown := postJSON(r, "/api/auth/login", `{"email":"ghost@example.com","password":"whatever"}`)
	wrongPw := postJSON(r, "/api/auth/login", `{"email":"bob@example.com","password":"wrong"}`)

	if unknown.Code != http.StatusBadRequest || wrongPw.Code != http.StatusBadRequest {
		t.Fatalf("statuses: unknown=%d wrongPw=%d, want both 400", unknown.Code, wrongPw.Code)
	}
	if unknown.Body.String() != wrongPw.Body.String() {
		t.Fatalf("bodies differ (enumeration leak): %s vs %s", unknown.Body.String(), wrongPw.Body.String())
	}
}

func TestFlow_ExpiredTokenRejected(t *testing.T) {
	r := newFullStackRouter()

	// Same key, negative lifetime: valid signature, expired timestamp.
	expiredCodec := token.NewCodec(testAuthConfig().SigningKey, -time.Minute)
	tok, err := expiredCodec.Issue(models.User{ID: "u-1", Name: "x", Email: "x@y.z", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(sessionCookie(tok))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401 (body=%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Token invalid") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestFlow_TamperedTokenRejected(t *testing.T) {
	r := newFullStackRouter()

	w := postJSON(r, "/api/auth/register",
		`{"name":"carol","email":"carol@example.com","password":"pw"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("register status=%d", w.Code)
	}
	cookie := findSessionCookie(t, w)

	// Flip a byte in the signature segment.
	parts := strings.Split(cookie.Value, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", cookie.Value)
	}
	sig := []byte(parts[2])
	if sig[len(sig)-1] == 'A' {
		sig[len(sig)-1] = 'B'
	} else {
		sig[len(sig)-1] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(sessionCookie(tampered))
	r.ServeHTTP(w2, req)

	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401 (body=%s)", w2.Code, w2.Body.String())
	}
}

func TestFlow_OwnershipAcrossUsers(t *testing.T) {
	r := newFullStackRouter()

	register := func(name, role string) *http.Cookie {
		t.Helper()
		body := `{"name":"` + name + `","email":"` + name + `@example.com","password":"pw","role":"` + role + `"}`
		w := postJSON(r, "/api/auth/register", body)
		if w.Code != http.StatusOK {
			t.Fatalf("register %s: status=%d body=%s", name, w.Code, w.Body.String())
		}
		return findSessionCookie(t, w)
	}

	adminCookie := register("admin", "admin")
	bCookie := register("userb", "")

	// B creates an item.
	wCreate := postJSON(r, "/api/items", `{"title":"x"}`, bCookie)
	if wCreate.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", wCreate.Code, wCreate.Body.String())
	}
	var created struct {
		Item models.Item `json:"item"`
	}
	if err := json.Unmarshal(wCreate.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	get := func(cookie *http.Cookie) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/items/"+created.Item.ID, nil)
		req.AddCookie(cookie)
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := get(bCookie); code != http.StatusOK {
		t.Fatalf("owner get: got %d, want 200", code)
	}
	if code := get(adminCookie); code != http.StatusOK {
		t.Fatalf("admin get: got %d, want 200", code)
	}

	cCookie := register("userc", "")
	if code := get(cCookie); code != http.StatusForbidden {
		t.Fatalf("foreign get: got %d, want 403", code)
	}
}
