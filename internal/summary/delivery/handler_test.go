package delivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/seeya29/SmartBrief/internal/summary/domain"
	"github.com/seeya29/SmartBrief/internal/summary/usecase"

	"github.com/gin-gonic/gin"
)

type memoryRepo struct {
	records map[string]*domain.SummaryRecord
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: make(map[string]*domain.SummaryRecord)}
}

func (m *memoryRepo) Upsert(record *domain.SummaryRecord) error {
	copied := *record
	m.records[record.SummaryID] = &copied
	return nil
}

func (m *memoryRepo) GetByID(summaryID string) (*domain.SummaryRecord, error) {
	rec, ok := m.records[summaryID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (m *memoryRepo) ListRecent(userID, platform string, limit int) ([]*domain.SummaryRecord, error) {
	var out []*domain.SummaryRecord
	for _, rec := range m.records {
		if rec.UserID == userID && rec.Platform == platform {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestRouter(repo *memoryRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	uc := usecase.NewSummaryUsecase(repo, nil)
	handler := NewSummaryHandler(uc, nil)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/summarize", handler.Summarize)
	api.POST("/message_cleaner", handler.CleanMessage)
	api.GET("/context", handler.GetContext)
	api.GET("/summaries/:id", handler.GetSummary)
	api.POST("/summarize/batch", handler.QueueBatch)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const summarizeBody = `{
	"user_id": "u123",
	"platform": "whatsapp",
	"message_id": "m456",
	"message_text": "Can we schedule a meeting tomorrow at 5pm with Priya?",
	"timestamp": "2025-11-20T14:00:00Z"
}`

func TestSummarizeEndpoint(t *testing.T) {
	r := newTestRouter(newMemoryRepo())

	w := doJSON(t, r, http.MethodPost, "/api/summarize", summarizeBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		SummaryID string `json:"summary_id"`
		UserID    string `json:"user_id"`
		Summary   string `json:"summary"`
		Type      string `json:"type"`
		Intent    string `json:"intent"`
		Urgency   string `json:"urgency"`
		Entities  struct {
			Person   []string `json:"person"`
			Datetime *string  `json:"datetime"`
		} `json:"entities"`
		ContextFlags  []string `json:"context_flags"`
		DeviceContext string   `json:"device_context"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}

	if resp.SummaryID == "" || resp.UserID != "u123" {
		t.Errorf("unexpected identity fields: %+v", resp)
	}
	if resp.Type != "meeting" || resp.Intent != "schedule_meeting" {
		t.Errorf("type/intent = %s/%s", resp.Type, resp.Intent)
	}
	if len(resp.Entities.Person) != 1 || resp.Entities.Person[0] != "Priya" {
		t.Errorf("entities.person = %v", resp.Entities.Person)
	}
	if resp.Entities.Datetime == nil || *resp.Entities.Datetime != "2025-11-21T17:00:00Z" {
		t.Errorf("entities.datetime = %v", resp.Entities.Datetime)
	}
	if resp.DeviceContext != "unknown" {
		t.Errorf("device_context = %s", resp.DeviceContext)
	}

	// Same payload again must return the same id, not mint a new one.
	w2 := doJSON(t, r, http.MethodPost, "/api/summarize", summarizeBody)
	if w2.Code != http.StatusOK {
		t.Fatalf("second call status = %d", w2.Code)
	}
	var resp2 struct {
		SummaryID string `json:"summary_id"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &resp2); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp2.SummaryID != resp.SummaryID {
		t.Errorf("summary id changed across identical requests: %s vs %s", resp.SummaryID, resp2.SummaryID)
	}
}

func TestSummarizeBadTimestamp(t *testing.T) {
	r := newTestRouter(newMemoryRepo())
	body := strings.Replace(summarizeBody, "2025-11-20T14:00:00Z", "yesterday-ish", 1)

	w := doJSON(t, r, http.MethodPost, "/api/summarize", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSummarizeMissingField(t *testing.T) {
	r := newTestRouter(newMemoryRepo())
	w := doJSON(t, r, http.MethodPost, "/api/summarize", `{"user_id": "u123"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCleanMessageEndpoint(t *testing.T) {
	r := newTestRouter(newMemoryRepo())
	w := doJSON(t, r, http.MethodPost, "/api/message_cleaner",
		`{"platform": "whatsapp", "message_text": "Helloooo!!!   world"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		CleanedText string `json:"cleaned_text"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.CleanedText != "Helloo! world" {
		t.Errorf("cleaned_text = %q", resp.CleanedText)
	}
}

func TestGetContextOrderingAndLimit(t *testing.T) {
	repo := newMemoryRepo()
	base := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"t1", "t2", "t3"} {
		repo.records[id] = &domain.SummaryRecord{
			SummaryID:    id,
			UserID:       "u123",
			Platform:     "whatsapp",
			Entities:     []byte(`{"person":[],"datetime":null}`),
			ContextFlags: []byte(`[]`),
			GeneratedAt:  base.Add(time.Duration(i) * time.Hour),
		}
	}
	r := newTestRouter(repo)

	w := doJSON(t, r, http.MethodGet, "/api/context?user_id=u123&platform=whatsapp&limit=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp []struct {
		SummaryID string `json:"summary_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp) != 2 || resp[0].SummaryID != "t3" || resp[1].SummaryID != "t2" {
		t.Errorf("context window = %+v, want [t3, t2]", resp)
	}
}

func TestGetContextUnknownUser(t *testing.T) {
	r := newTestRouter(newMemoryRepo())
	w := doJSON(t, r, http.MethodGet, "/api/context?user_id=ghost&platform=email", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestGetContextMissingParams(t *testing.T) {
	r := newTestRouter(newMemoryRepo())
	w := doJSON(t, r, http.MethodGet, "/api/context?user_id=u123", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetSummaryNotFound(t *testing.T) {
	r := newTestRouter(newMemoryRepo())
	w := doJSON(t, r, http.MethodGet, "/api/summaries/does-not-exist", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	var resp struct {
		Error     string `json:"error"`
		SummaryID string `json:"summary_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Error != "not_found" || resp.SummaryID != "does-not-exist" {
		t.Errorf("body = %+v", resp)
	}
}

func TestQueueBatchDisabled(t *testing.T) {
	r := newTestRouter(newMemoryRepo())
	w := doJSON(t, r, http.MethodPost, "/api/summarize/batch", `{"messages": []}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestQueueBatchCounts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newMemoryRepo()
	uc := usecase.NewSummaryUsecase(repo, nil)
	worker := usecase.NewBatchWorkerService(uc, 1)
	handler := NewSummaryHandler(uc, worker)

	r := gin.New()
	r.POST("/api/summarize/batch", handler.QueueBatch)

	body := `{"messages": [` + summarizeBody + `]}`
	w := doJSON(t, r, http.MethodPost, "/api/summarize/batch", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Queued   int `json:"queued"`
		Rejected int `json:"rejected"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Queued != 1 || resp.Rejected != 0 {
		t.Errorf("queued/rejected = %d/%d, want 1/0", resp.Queued, resp.Rejected)
	}
}
