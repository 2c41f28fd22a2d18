package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/JohnSOGO/ChatMan/internal/domain"
	"github.com/JohnSOGO/ChatMan/internal/repo"
	"github.com/JohnSOGO/ChatMan/internal/services"
)

func newService(t *testing.T) *services.MessageService {
	t.Helper()
	db, _, err := repo.Open(filepath.Join(t.TempDir(), "chat.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return services.NewMessageService(db)
}

func seed(t *testing.T, svc *services.MessageService, rows ...[2]string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		m, err := svc.Append(context.Background(), r[0], r[1])
		if err != nil {
			t.Fatalf("append %v: %v", r, err)
		}
		ids = append(ids, m.ID)
	}
	return ids
}

func reviewRouter(t *testing.T, svc ReviewService) *gin.Engine {
	t.Helper()
	r, _ := testEngine(t)
	h := New(svc, nil, nil, "/data.json")
	r.GET("/messages/latest", h.LatestPerUser)
	r.GET("/messages/recent", h.MostRecent)
	r.GET("/messages/unreviewed", h.Unreviewed)
	r.POST("/messages/review", h.MarkReviewed)
	r.GET("/users", h.Users)
	r.GET("/users/:user/messages", h.UserMessages)
	return r
}

func do(r http.Handler, method, target, body string, hdr ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeMessages(t *testing.T, w *httptest.ResponseRecorder) []domain.Message {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out []domain.Message
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	return out
}

func TestReview_EmptyStore(t *testing.T) {
	r := reviewRouter(t, newService(t))

	for _, path := range []string{"/messages/latest", "/messages/unreviewed", "/users", "/users/nobody/messages"} {
		w := do(r, http.MethodGet, path, "")
		if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
			t.Fatalf("%s: %d %s", path, w.Code, w.Body.String())
		}
	}

	w := do(r, http.MethodGet, "/messages/recent", "")
	if w.Code != http.StatusNotFound || decodeError(t, w).Code != ErrCodeNotFound {
		t.Fatalf("recent on empty store: %d %s", w.Code, w.Body.String())
	}
}

func TestReview_Flow(t *testing.T) {
	svc := newService(t)
	ids := seed(t, svc,
		[2]string{"alice", "hi"},
		[2]string{"bob", "yo"},
		[2]string{"alice", "again"},
		[2]string{"carol", "late"},
	)
	r := reviewRouter(t, svc)

	latest := decodeMessages(t, do(r, http.MethodGet, "/messages/latest", ""))
	if len(latest) != 3 {
		t.Fatalf("latest per user: %+v", latest)
	}
	for _, m := range latest {
		if m.User == "alice" && m.Text != "again" {
			t.Fatalf("alice latest = %q", m.Text)
		}
	}

	var recent domain.Message
	w := do(r, http.MethodGet, "/messages/recent", "")
	if err := json.Unmarshal(w.Body.Bytes(), &recent); err != nil || recent.ID != ids[3] {
		t.Fatalf("recent: %v %+v", err, recent)
	}

	w = do(r, http.MethodPost, "/messages/review", fmt.Sprintf(`{"ids":[%d,%d,999],"reviewed":true}`, ids[0], ids[1]))
	var rr ReviewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &rr); err != nil || w.Code != http.StatusOK || rr.Matched != 2 {
		t.Fatalf("review: %d %s", w.Code, w.Body.String())
	}

	queue := decodeMessages(t, do(r, http.MethodGet, "/messages/unreviewed", ""))
	if len(queue) != 2 || queue[0].ID != ids[3] || queue[1].ID != ids[2] {
		t.Fatalf("unreviewed queue: %+v", queue)
	}
	if got := decodeMessages(t, do(r, http.MethodGet, "/messages/unreviewed?limit=1", "")); len(got) != 1 {
		t.Fatalf("limit=1 returned %d", len(got))
	}
	if got := decodeMessages(t, do(r, http.MethodGet, "/messages/unreviewed?limit=0", "")); len(got) != 0 {
		t.Fatalf("limit=0 returned %d", len(got))
	}

	newest := decodeMessages(t, do(r, http.MethodGet, "/users/alice/messages", ""))
	if len(newest) != 2 || newest[0].Text != "again" || newest[1].Text != "hi" {
		t.Fatalf("alice default order should be newest first: %+v", newest)
	}
	asc := decodeMessages(t, do(r, http.MethodGet, "/users/alice/messages?order=asc", ""))
	if len(asc) != 2 || asc[0].Text != "hi" || !asc[0].Reviewed {
		t.Fatalf("alice asc: %+v", asc)
	}
	desc := decodeMessages(t, do(r, http.MethodGet, "/users/alice/messages?order=newest&hide_reviewed=1", ""))
	if len(desc) != 1 || desc[0].Text != "again" {
		t.Fatalf("alice desc hidden: %+v", desc)
	}
}

func TestReview_BadInput(t *testing.T) {
	r := reviewRouter(t, newService(t))

	cases := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/messages/unreviewed?limit=abc", ""},
		{http.MethodGet, "/messages/unreviewed?limit=-1", ""},
		{http.MethodGet, "/users/alice/messages?order=sideways", ""},
		{http.MethodGet, "/users/%20/messages", ""},
		{http.MethodPost, "/messages/review", `{"ids":[1]}`},
		{http.MethodPost, "/messages/review", `{"ids":[0],"reviewed":true}`},
		{http.MethodPost, "/messages/review", `not json`},
	}
	for _, tc := range cases {
		w := do(r, tc.method, tc.path, tc.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s %s %s: status %d", tc.method, tc.path, tc.body, w.Code)
			continue
		}
		if resp := decodeError(t, w); resp.Code != ErrCodeBadRequest || resp.RequestID != "rid-test" {
			t.Errorf("%s %s: envelope %+v", tc.method, tc.path, resp)
		}
	}
}

func TestReview_EmptyBatchMatchesNothing(t *testing.T) {
	r := reviewRouter(t, newService(t))
	w := do(r, http.MethodPost, "/messages/review", `{"ids":[],"reviewed":false}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"matched":0`) {
		t.Fatalf("empty batch: %d %s", w.Code, w.Body.String())
	}
}

func TestUsers_WeakETag(t *testing.T) {
	svc := newService(t)
	seed(t, svc, [2]string{"zed", "a"}, [2]string{"Bob", "b"}, [2]string{"amy", "c"})
	r := reviewRouter(t, svc)

	w := do(r, http.MethodGet, "/users", "")
	var users []string
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatal(err)
	}
	if strings.Join(users, ",") != "amy,Bob,zed" {
		t.Fatalf("users not collated: %v", users)
	}
	etag := w.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"users:3:`) {
		t.Fatalf("etag = %q", etag)
	}

	w = do(r, http.MethodGet, "/users", "", "If-None-Match", etag)
	if w.Code != http.StatusNotModified || w.Body.Len() != 0 {
		t.Fatalf("conditional get: %d %q", w.Code, w.Body.String())
	}

	for _, inm := range []string{`"other", ` + etag, "*", strings.TrimPrefix(etag, "W/")} {
		if w := do(r, http.MethodGet, "/users", "", "If-None-Match", inm); w.Code != http.StatusNotModified {
			t.Fatalf("If-None-Match %q: %d", inm, w.Code)
		}
	}
	if w := do(r, http.MethodGet, "/users", "", "If-None-Match", `W/"users:0:0", "x"`); w.Code != http.StatusOK {
		t.Fatalf("unmatched list should serve the body: %d", w.Code)
	}

	seed(t, svc, [2]string{"new", "d"})
	w = do(r, http.MethodGet, "/users", "", "If-None-Match", etag)
	if w.Code != http.StatusOK || w.Header().Get("ETag") == etag {
		t.Fatalf("etag should change after append: %d %s", w.Code, w.Header().Get("ETag"))
	}
}

func TestEtagMatch(t *testing.T) {
	const etag = `W/"users:3:7"`
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{etag, true},
		{`"users:3:7"`, true},
		{"*", true},
		{` "a" , W/"users:3:7"`, true},
		{`W/"users:3:8", "users:4:7"`, false},
		{",,", false},
	}
	for _, tt := range tests {
		if got := etagMatch(tt.header, etag); got != tt.want {
			t.Errorf("etagMatch(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

// downService fails every call like a store that went away.
type downService struct{}

var errDown = fmt.Errorf("%w: database is locked", repo.ErrStoreUnavailable)

func (downService) MarkReviewed(context.Context, []int64, bool) (int64, error) { return 0, errDown }
func (downService) MostRecent(context.Context) (*domain.Message, error) { return nil, errDown }
func (downService) LatestPerUser(context.Context) ([]domain.Message, error) { return nil, errDown }
func (downService) Unreviewed(context.Context, int) ([]domain.Message, error) { return nil, errDown }
func (downService) ResolveLimit(limit int, _ bool) int { return limit }
func (downService) UserMessages(context.Context, string, bool, bool) ([]domain.Message, error) {
	return nil, errDown
}
func (downService) Users(context.Context) ([]string, error) { return nil, errDown }
func (downService) Stats(context.Context) (int64, int64, error) { return 0, 0, errDown }

func TestReview_StoreUnavailable(t *testing.T) {
	r := reviewRouter(t, downService{})

	reqs := [][3]string{
		{http.MethodGet, "/messages/latest", ""},
		{http.MethodGet, "/messages/recent", ""},
		{http.MethodGet, "/messages/unreviewed?limit=5", ""},
		{http.MethodGet, "/users", ""},
		{http.MethodGet, "/users/alice/messages", ""},
		{http.MethodPost, "/messages/review", `{"ids":[1],"reviewed":true}`},
	}
	for _, q := range reqs {
		w := do(r, q[0], q[1], q[2])
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s: status %d", q[0], q[1], w.Code)
			continue
		}
		if code := decodeError(t, w).Code; code != ErrCodeStoreUnavailable {
			t.Errorf("%s %s: code %q", q[0], q[1], code)
		}
		if w.Header().Get("ETag") != "" {
			t.Errorf("%s %s: unexpected ETag", q[0], q[1])
		}
	}
}
