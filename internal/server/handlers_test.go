package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"triviabuzz/internal/wshub"
)

// newTestServer wires the routes with no database behind them; only request
// validation paths that fail before touching storage are exercised here.
// Full round trips are covered by the db package tests (TEST_DATABASE_URL).
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := &Server{Hub: wshub.NewHub(nil)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/themes", srv.handleListThemes)
	mux.HandleFunc("POST /api/themes", srv.handleCreateTheme)
	mux.HandleFunc("GET /api/themes/{id}", srv.handleGetTheme)
	mux.HandleFunc("GET /api/questions", srv.handleListQuestions)
	mux.HandleFunc("POST /api/questions", srv.handleCreateQuestion)
	mux.HandleFunc("GET /api/questions/{id}", srv.handleGetQuestion)
	mux.HandleFunc("GET /api/rooms", srv.handleGetRoom)
	mux.HandleFunc("POST /api/rooms", srv.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/{code}/scores", srv.handleRoomScores)
	mux.HandleFunc("GET /api/rooms/{code}/buzzes", srv.handleRoomBuzzes)
	mux.HandleFunc("POST /api/users", srv.handleCreateUser)
	mux.HandleFunc("GET /ws", srv.handleWS)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func checkStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	defer resp.Body.Close()
	if resp.StatusCode != want {
		t.Errorf("status = %d, want %d", resp.StatusCode, want)
	}
}

func TestGetTheme_InvalidID(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/themes/abc")
	if err != nil {
		t.Fatal(err)
	}
	checkStatus(t, resp, http.StatusBadRequest)
}

func TestCreateTheme_InvalidBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/themes", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	checkStatus(t, resp, http.StatusBadRequest)
}

func TestCreateTheme_MissingName(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/themes", "application/json", strings.NewReader(`{"description":"no name"}`))
	if err != nil {
		t.Fatal(err)
	}
	checkStatus(t, resp, http.StatusBadRequest)
}

func TestThemes_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/themes", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	checkStatus(t, resp, http.StatusMethodNotAllowed)
}

func TestCreateQuestion_MissingText(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/questions", "application/json", strings.NewReader(`{"themeId":1}`))
	if err != nil {
		t.Fatal(err)
	}
	checkStatus(t, resp, http.StatusBadRequest)
}

func TestListQuestions_InvalidThemeID(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/questions?themeId=abc")
	if err != nil {
		t.Fatal(err)
	}
	checkStatus(t, resp, http.StatusBadRequest)
}

func TestGetQuestion_InvalidID(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/questions/abc")
	if err != nil {
		t.Fatal(err)
	}
	checkStatus(t, resp, http.StatusBadRequest)
}

func TestGetRoom_MissingCode(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/rooms")
	if err != nil {
		t.Fatal(err)
	}
	checkStatus(t, resp, http.StatusBadRequest)
}

func TestCreateRoom_MissingName(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/rooms", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	checkStatus(t, resp, http.StatusBadRequest)
}

func TestCreateUser_MissingFields(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/users", "application/json", strings.NewReader(`{"username":"alice"}`))
	if err != nil {
		t.Fatal(err)
	}
	checkStatus(t, resp, http.StatusBadRequest)
}

func TestUsers_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/users")
	if err != nil {
		t.Fatal(err)
	}
	checkStatus(t, resp, http.StatusMethodNotAllowed)
}

func TestRoomBuzzes_MissingQuestionID(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/rooms/ABCDEF/buzzes")
	if err != nil {
		t.Fatal(err)
	}
	checkStatus(t, resp, http.StatusBadRequest)
}

func TestHandleWS_MissingParams(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/ws?roomCode=ABCDEF")
	if err != nil {
		t.Fatal(err)
	}
	checkStatus(t, resp, http.StatusBadRequest)
}
