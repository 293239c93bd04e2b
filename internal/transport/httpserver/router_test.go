package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fridge-app-go/internal/config"
	fridgedomain "fridge-app-go/internal/domain/fridge"
	"fridge-app-go/internal/kv"
	"fridge-app-go/internal/metrics"
	"fridge-app-go/internal/repository/documents"
	"fridge-app-go/internal/transport/httpserver/handler"
	"fridge-app-go/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

type testServer struct {
	server *httptest.Server
}

func newTestServer(t *testing.T, env string, opts ...fridgedomain.Option) *testServer {
	t.Helper()

	log := logger.NewNop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	repo := documents.New(kv.NewMemoryStore(), documents.WithErrorObserver(m.ObserveStoreError))
	base := []fridgedomain.Option{fridgedomain.WithMetrics(m), fridgedomain.WithLogger(log)}
	svc := fridgedomain.NewService(repo, append(base, opts...)...)

	cfg := config.Config{Env: env, CORSOrigins: []string{"http://localhost:5173"}}
	router := NewRouter(cfg, handler.New(svc, log), m, reg, log)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testServer{server: server}
}

func (s *testServer) do(t *testing.T, method, path string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	switch p := payload.(type) {
	case nil:
	case string:
		body = strings.NewReader(p)
	default:
		raw, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.server.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.server.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func (s *testServer) expect(t *testing.T, method, path string, payload interface{}, status int, dst interface{}) {
	t.Helper()
	resp, raw := s.do(t, method, path, payload)
	if resp.StatusCode != status {
		t.Fatalf("%s %s: expected status %d, got %d: %s", method, path, status, resp.StatusCode, raw)
	}
	if dst != nil {
		if err := json.Unmarshal(raw, dst); err != nil {
			t.Fatalf("%s %s: decode: %v (%s)", method, path, err, raw)
		}
	}
}

func (s *testServer) expectError(t *testing.T, method, path string, payload interface{}, status int, code string) {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	s.expect(t, method, path, payload, status, &body)
	if body.Error.Code != code {
		t.Fatalf("%s %s: expected error code %q, got %q", method, path, code, body.Error.Code)
	}
}

type fridgeBody struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	OwnerID     int    `json:"owner_id"`
	InviteCode  string `json:"invite_code"`
	MemberCount int    `json:"member_count"`
	Role        string `json:"role"`
}

func TestMembershipFlow(t *testing.T) {
	s := newTestServer(t, "development")

	s.expect(t, http.MethodPut, "/api/me", map[string]interface{}{"id": 1, "name": "Owner"}, http.StatusOK, nil)

	var created fridgeBody
	s.expect(t, http.MethodPost, "/api/fridges", map[string]interface{}{"name": "Kitchen"}, http.StatusCreated, &created)
	if created.OwnerID != 1 || created.MemberCount != 1 || len(created.InviteCode) != 6 {
		t.Fatalf("unexpected created fridge: %+v", created)
	}

	s.expectError(t, http.MethodPost, "/api/fridges/join", map[string]string{"code": created.InviteCode}, http.StatusConflict, "already_member")

	s.expect(t, http.MethodPut, "/api/me", map[string]interface{}{"id": 2, "name": "Guest"}, http.StatusOK, nil)

	var joined fridgeBody
	s.expect(t, http.MethodPost, "/api/fridges/join", map[string]string{"code": strings.ToLower(created.InviteCode)}, http.StatusOK, &joined)
	if joined.ID != created.ID || joined.MemberCount != 2 {
		t.Fatalf("unexpected joined fridge: %+v", joined)
	}

	var members []struct {
		User struct {
			ID int `json:"id"`
		} `json:"user"`
		Role string `json:"role"`
	}
	s.expect(t, http.MethodGet, fmt.Sprintf("/api/fridges/%d/members", created.ID), nil, http.StatusOK, &members)
	if len(members) != 2 || members[0].User.ID != 1 || members[0].Role != fridgedomain.RoleOwner {
		t.Fatalf("expected owner first in members, got %+v", members)
	}

	var mine []fridgeBody
	s.expect(t, http.MethodGet, "/api/users/2/fridges", nil, http.StatusOK, &mine)
	if len(mine) != 1 || mine[0].Role != fridgedomain.RoleMember {
		t.Fatalf("expected one member fridge, got %+v", mine)
	}

	leavePath := fmt.Sprintf("/api/fridges/%d/leave", created.ID)
	s.expect(t, http.MethodPost, leavePath, nil, http.StatusNoContent, nil)
	s.expectError(t, http.MethodPost, leavePath, nil, http.StatusNotFound, "not_a_member")

	var after fridgeBody
	s.expect(t, http.MethodGet, fmt.Sprintf("/api/fridges/%d", created.ID), nil, http.StatusOK, &after)
	if after.MemberCount != 1 {
		t.Fatalf("expected member count 1 after leave, got %d", after.MemberCount)
	}

	s.expect(t, http.MethodPut, "/api/me", map[string]interface{}{"id": 1, "name": "Owner"}, http.StatusOK, nil)
	s.expectError(t, http.MethodPost, leavePath, nil, http.StatusConflict, "owner_cannot_leave")

	var byCode fridgeBody
	s.expect(t, http.MethodGet, "/api/fridges/by-code/"+created.InviteCode, nil, http.StatusOK, &byCode)
	if byCode.ID != created.ID {
		t.Fatalf("expected fridge %d by code, got %d", created.ID, byCode.ID)
	}
}

func TestErrorResponses(t *testing.T) {
	s := newTestServer(t, "production")

	s.expectError(t, http.MethodGet, "/api/fridges/by-code/ZZZZZZ", nil, http.StatusNotFound, "invalid_invite_code")
	s.expectError(t, http.MethodGet, "/api/fridges/999", nil, http.StatusNotFound, "fridge_not_found")
	s.expectError(t, http.MethodGet, "/api/fridges/999/members", nil, http.StatusNotFound, "fridge_not_found")
	s.expectError(t, http.MethodGet, "/api/fridges/abc", nil, http.StatusBadRequest, "invalid_request")
	s.expectError(t, http.MethodPost, "/api/fridges", "{not json", http.StatusBadRequest, "invalid_json")
	s.expectError(t, http.MethodPost, "/api/fridges", map[string]string{"name": "  "}, http.StatusBadRequest, "invalid_request")
	s.expectError(t, http.MethodPost, "/api/fridges/join", map[string]string{"code": "NOPE00"}, http.StatusNotFound, "invalid_invite_code")
	s.expectError(t, http.MethodPut, "/api/me", map[string]interface{}{"id": 0, "name": "x"}, http.StatusBadRequest, "invalid_request")

	resp, _ := s.do(t, http.MethodPost, "/api/admin/reset", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected reset route hidden outside development, got %d", resp.StatusCode)
	}
}

func TestNoCurrentUser(t *testing.T) {
	s := newTestServer(t, "development", fridgedomain.WithIdentity(fridgedomain.IdentityConfig{AutoProvision: false}))

	s.expectError(t, http.MethodGet, "/api/me", nil, http.StatusUnauthorized, "no_current_user")
	s.expectError(t, http.MethodPost, "/api/fridges", map[string]string{"name": "Kitchen"}, http.StatusUnauthorized, "no_current_user")
}

func TestAutoProvisionedCurrentUser(t *testing.T) {
	s := newTestServer(t, "development")

	var me struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	s.expect(t, http.MethodGet, "/api/me", nil, http.StatusOK, &me)
	if me.ID != 1 || me.Name != "Me" {
		t.Fatalf("expected provisioned user 1 Me, got %+v", me)
	}
}

func TestResetAndMetrics(t *testing.T) {
	s := newTestServer(t, "development")

	s.expect(t, http.MethodPut, "/api/me", map[string]interface{}{"id": 1, "name": "Owner"}, http.StatusOK, nil)
	var created fridgeBody
	s.expect(t, http.MethodPost, "/api/fridges", map[string]string{"name": "Kitchen"}, http.StatusCreated, &created)

	s.expect(t, http.MethodPost, "/api/admin/reset", nil, http.StatusNoContent, nil)
	s.expectError(t, http.MethodGet, fmt.Sprintf("/api/fridges/%d", created.ID), nil, http.StatusNotFound, "fridge_not_found")

	resp, raw := s.do(t, http.MethodGet, "/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(raw), `fridge_membership_operations_total{operation="create",result="success"} 1`) {
		t.Fatalf("expected create counter in metrics output:\n%s", raw)
	}
	if !strings.Contains(string(raw), "http_requests_total") {
		t.Fatalf("expected http request counter in metrics output")
	}
}
