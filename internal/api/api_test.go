package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielfarrell/gatsby/internal/model"
	"github.com/danielfarrell/gatsby/internal/session"
	"github.com/danielfarrell/gatsby/internal/testutil"
)

// testEnv sets up a session and router. An empty token means auth
// disabled.
func testEnv(t *testing.T, authToken string) (*session.Session, http.Handler) {
	t.Helper()
	s := testutil.TestSession(t)
	router := NewRouter(s, authToken != "", authToken, nil)
	return s, router
}

func getJSON(t *testing.T, router http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return w
}

func seedNode(t *testing.T, s *session.Session, plugin, id, typ string) string {
	t.Helper()
	ev, err := s.Plugin(plugin).CreateNode(&model.Node{
		ID:       id,
		Internal: model.Internal{Type: typ, ContentDigest: "d-" + id},
	})
	if err != nil {
		t.Fatal(err)
	}
	return ev.Payload.(*model.Node).ID
}

func TestListNodes(t *testing.T) {
	s, router := testEnv(t, "")
	seedNode(t, s, "source", "a", "Post")
	seedNode(t, s, "source", "b", "Post")

	var body struct {
		IDs   []string `json:"ids"`
		Total int      `json:"total"`
	}
	w := getJSON(t, router, "/nodes", &body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body.Total != 2 || len(body.IDs) != 2 {
		t.Errorf("body = %+v, want 2 ids", body)
	}
}

func TestListNodes_ByType(t *testing.T) {
	s, router := testEnv(t, "")
	seedNode(t, s, "source", "a", "Post")
	seedNode(t, s, "other", "b", "Author")

	var body struct {
		Nodes []model.Node `json:"nodes"`
		Total int          `json:"total"`
	}
	getJSON(t, router, "/nodes?type=Post", &body)
	if body.Total != 1 {
		t.Fatalf("total = %d, want 1", body.Total)
	}
	if body.Nodes[0].Internal.Type != "Post" {
		t.Errorf("type = %q", body.Nodes[0].Internal.Type)
	}
}

func TestGetNode(t *testing.T) {
	s, router := testEnv(t, "")
	id := seedNode(t, s, "source", "a", "Post")

	var node model.Node
	w := getJSON(t, router, "/nodes/"+id, &node)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if node.ID != id || node.Internal.Owner != "source" {
		t.Errorf("node = %+v", node)
	}

	w = getJSON(t, router, "/nodes/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing node status = %d, want 404", w.Code)
	}
}

func TestNodeDependants(t *testing.T) {
	s, router := testEnv(t, "")
	id := seedNode(t, s, "source", "a", "Post")
	if _, err := s.Plugin("site").CreatePage(&model.Page{Path: "/p", Component: "/c.js"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Plugin("query").CreatePageDependency("/p", id, ""); err != nil {
		t.Fatal(err)
	}

	var body struct {
		NodeID string   `json:"nodeId"`
		Paths  []string `json:"paths"`
	}
	getJSON(t, router, "/nodes/"+id+"/dependants", &body)
	if len(body.Paths) != 1 || body.Paths[0] != "/p" {
		t.Errorf("paths = %v, want [/p]", body.Paths)
	}
}

func TestListTypes(t *testing.T) {
	s, router := testEnv(t, "")
	seedNode(t, s, "source", "a", "Post")

	var body struct {
		Types  []string          `json:"types"`
		Owners map[string]string `json:"owners"`
	}
	getJSON(t, router, "/types", &body)
	if len(body.Types) != 1 || body.Types[0] != "Post" {
		t.Errorf("types = %v", body.Types)
	}
	if body.Owners["Post"] != "source" {
		t.Errorf("owners = %v", body.Owners)
	}
}

func TestListPagesLayoutsRedirects(t *testing.T) {
	s, router := testEnv(t, "")
	api := s.Plugin("site")
	if _, err := api.CreatePage(&model.Page{Path: "/p", Component: "/c.js"}); err != nil {
		t.Fatal(err)
	}
	if _, err := api.CreateLayout(&model.Layout{Component: "/layouts/index.js"}); err != nil {
		t.Fatal(err)
	}
	if _, err := api.CreateRedirect(&model.Redirect{FromPath: "/old", ToPath: "/new"}); err != nil {
		t.Fatal(err)
	}

	var pages struct {
		Total int `json:"total"`
	}
	getJSON(t, router, "/pages", &pages)
	if pages.Total != 1 {
		t.Errorf("pages total = %d", pages.Total)
	}

	var layouts struct {
		Total int `json:"total"`
	}
	getJSON(t, router, "/layouts", &layouts)
	if layouts.Total != 1 {
		t.Errorf("layouts total = %d", layouts.Total)
	}

	var redirects struct {
		Total int `json:"total"`
	}
	getJSON(t, router, "/redirects", &redirects)
	if redirects.Total != 1 {
		t.Errorf("redirects total = %d", redirects.Total)
	}
}

func TestStats(t *testing.T) {
	s, router := testEnv(t, "")
	seedNode(t, s, "source", "a", "Post")

	var body map[string]int
	getJSON(t, router, "/stats", &body)
	if body["nodes"] != 1 {
		t.Errorf("stats = %v", body)
	}
}

func TestAuth_TokenRequired(t *testing.T) {
	_, router := testEnv(t, "secret")

	w := getJSON(t, router, "/stats", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, want 200", w.Code)
	}
}
