package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"itemtrack/internal/repository"
	"itemtrack/internal/service"
	"itemtrack/internal/token"

	"github.com/gorilla/websocket"
)

func TestItemFeed_RequiresSession(t *testing.T) {
	codec := token.NewCodec(testAuthConfig().SigningKey, testAuthConfig().TokenTTL)
	repos := &repository.Repository{Users: newFakeUsers(), Items: newFakeItems()}
	router := newTestRouter(service.NewService(repos, codec))

	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/items/feed"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail without a session cookie")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
}

func TestItemFeed_DeliversOwnItemEvents(t *testing.T) {
	codec := token.NewCodec(testAuthConfig().SigningKey, testAuthConfig().TokenTTL)
	repos := &repository.Repository{Users: newFakeUsers(), Items: newFakeItems()}
	router := newTestRouter(service.NewService(repos, codec))

	srv := httptest.NewServer(router)
	defer srv.Close()

	// Register over plain HTTP to obtain a session cookie.
	w := postJSON(router, "/api/auth/register",
		`{"name":"ws-user","email":"ws@example.com","password":"pw"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
	}
	cookie := findSessionCookie(t, w)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/items/feed"
	hdr := http.Header{}
	hdr.Add("Cookie", cookie.Name+"="+cookie.Value)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, hdr)
	if err != nil {
		t.Fatalf("dial: %v (resp=%+v)", err, resp)
	}
	defer func() { _ = conn.Close() }()

	// Give the feed handler a moment to register its subscription.
	time.Sleep(200 * time.Millisecond)

	wCreate := postJSON(router, "/api/items", `{"title":"live"}`, cookie)
	if wCreate.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", wCreate.Code, wCreate.Body.String())
	}

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var ev service.ItemEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("reading feed event: %v", err)
	}
	if ev.Type != service.EventItemCreated || ev.Item.Title != "live" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}
