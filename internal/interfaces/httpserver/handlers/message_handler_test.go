package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"coparent-api/internal/domain/message"
	"coparent-api/internal/domain/user"
	"coparent-api/internal/infrastructure/telemetry"
	"coparent-api/internal/interfaces/httpserver/handlers"
	"coparent-api/internal/interfaces/httpserver/middlewares"
	"coparent-api/internal/interfaces/httpserver/routes"
	"coparent-api/internal/utils/platformerrors"
)

type testServer struct {
	router      *gin.Engine
	messages    *MockMessageService
	analyses    *MockAnalysisService
	users       *MockUserService
	credentials *MockCredentialService
	uploads     *MockUploadService
}

const testUploadLimit = handlers.UploadLimit(1 << 10)

func testUser() *user.User {
	return &user.User{
		ID:              7,
		PublicID:        "user-7",
		AuthProvider:    "oidc",
		AIProvider:      "openai",
		AnalysisEnabled: true,
	}
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)

	s := &testServer{
		messages: &MockMessageService{},
		analyses: &MockAnalysisService{},
		users: &MockUserService{
			ResolveOrCreateFunc: func(ctx context.Context, identity user.Identity) (*user.User, error) {
				return testUser(), nil
			},
		},
		credentials: &MockCredentialService{},
		uploads:     &MockUploadService{},
	}

	provider := handlers.NewProvider(s.messages, s.analyses, s.users, s.credentials, s.uploads, testUploadLimit,
		telemetry.NewSanitizer(telemetry.PIILevelHashed, "test"), zerolog.Nop())

	r := gin.New()
	r.Use(middlewares.RequestID())
	routes.NewProvider(provider).Register(r, middlewares.AuthMiddleware(stubValidator{}, s.users, zerolog.Nop()))
	s.router = r
	return s
}

func (s *testServer) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer valid-token")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(method, path, body string) *httptest.ResponseRecorder {
	return s.do(method, path, bytes.NewBufferString(body), "application/json")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v (%s)", err, w.Body.String())
	}
	return response
}

func sampleMessage() *message.Message {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	platform := "WhatsApp"
	return &message.Message{
		ID:          1,
		PublicID:    "msg-1",
		Content:     "Pickup moved to 5pm",
		MessageType: message.TypeText,
		SenderID:    7,
		Sender:      &message.Participant{ID: "user-7"},
		Platform:    &platform,
		Timestamp:   ts,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

func notFound(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "message not found", nil, "message-find-001")
}

func TestMessageHandler_RequiresAuthentication(t *testing.T) {
	s := newTestServer()

	req, _ := http.NewRequest("GET", "/messages", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without token, got %d", w.Code)
	}

	req, _ = http.NewRequest("GET", "/messages", nil)
	req.Header.Set("Authorization", "Bearer forged")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for invalid token, got %d", w.Code)
	}
	if decode(t, w)["code"] != "auth-invalid-001" {
		t.Errorf("Expected auth-invalid-001 code, got %s", w.Body.String())
	}
}

func TestMessageHandler_Create(t *testing.T) {
	s := newTestServer()
	var gotOwner uint
	var gotParams message.CreateParams
	s.messages.CreateFunc = func(ctx context.Context, ownerID uint, params message.CreateParams) (*message.Message, error) {
		gotOwner = ownerID
		gotParams = params
		return sampleMessage(), nil
	}

	w := s.doJSON("POST", "/messages", `{"content":"Pickup moved to 5pm","platform":"WhatsApp","timestamp":"2024-03-01T12:00:00Z"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if gotOwner != 7 {
		t.Errorf("Expected owner 7, got %d", gotOwner)
	}
	if gotParams.Platform == nil || *gotParams.Platform != "WhatsApp" {
		t.Errorf("Expected platform to be passed through, got %v", gotParams.Platform)
	}
	if gotParams.Timestamp == nil || !gotParams.Timestamp.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected timestamp to be parsed, got %v", gotParams.Timestamp)
	}

	msg, ok := decode(t, w)["message"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected message envelope, got %s", w.Body.String())
	}
	if msg["id"] != "msg-1" || msg["senderId"] != "user-7" || msg["messageType"] != "TEXT" {
		t.Errorf("Unexpected message body: %v", msg)
	}
	if msg["analysis"] != nil {
		t.Errorf("Expected null analysis, got %v", msg["analysis"])
	}
}

func TestMessageHandler_CreateRejectsInvalidBodies(t *testing.T) {
	s := newTestServer()
	called := false
	s.messages.CreateFunc = func(ctx context.Context, ownerID uint, params message.CreateParams) (*message.Message, error) {
		called = true
		return sampleMessage(), nil
	}

	cases := map[string]string{
		"malformed":          `{"content":`,
		"missing content":    `{"platform":"SMS"}`,
		"confidence too big": `{"content":"x","ocrConfidence":101}`,
	}
	for name, body := range cases {
		w := s.doJSON("POST", "/messages", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", name, w.Code)
		}
	}
	if called {
		t.Errorf("Expected service not to be called for invalid bodies")
	}

	w := s.doJSON("POST", "/messages", `{"platform":"SMS"}`)
	if got := decode(t, w)["message"]; got != "content is required" {
		t.Errorf("Expected field message, got %v", got)
	}
}

func TestMessageHandler_CreateDomainValidation(t *testing.T) {
	s := newTestServer()
	s.messages.CreateFunc = func(ctx context.Context, ownerID uint, params message.CreateParams) (*message.Message, error) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"receiverId does not reference an existing user", nil, "message-create-003")
	}

	w := s.doJSON("POST", "/messages", `{"content":"hi","receiverId":"nobody"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
	response := decode(t, w)
	if response["code"] != "message-create-003" {
		t.Errorf("Expected domain error code, got %v", response["code"])
	}
	if response["message"] != "receiverId does not reference an existing user" {
		t.Errorf("Expected domain message, got %v", response["message"])
	}
	if response["request_id"] == "" || response["request_id"] == nil {
		t.Errorf("Expected request id on error body")
	}
}

func TestMessageHandler_ListParsesFilters(t *testing.T) {
	s := newTestServer()
	var got *message.ListFilter
	s.messages.ListFunc = func(ctx context.Context, requesterID uint, filter *message.ListFilter) (*message.Page, error) {
		got = filter
		return &message.Page{Items: []*message.Message{sampleMessage()}, Total: 11, Page: 2, PageSize: 5, HasMore: true}, nil
	}

	w := s.do("GET", "/messages?page=2&limit=5&platform=WhatsApp&messageType=text&hasAnalysis=false&dateFrom=2024-03-01&dateTo=2024-03-31", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if got.Page != 2 || got.PageSize != 5 {
		t.Errorf("Expected page 2 size 5, got %d/%d", got.Page, got.PageSize)
	}
	if got.Platform == nil || *got.Platform != "WhatsApp" {
		t.Errorf("Expected platform filter")
	}
	if got.MessageType == nil || *got.MessageType != message.TypeText {
		t.Errorf("Expected TEXT type filter")
	}
	if got.HasAnalysis == nil || *got.HasAnalysis {
		t.Errorf("Expected hasAnalysis=false filter")
	}
	if got.DateFrom == nil || !got.DateFrom.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected dateFrom %v", got.DateFrom)
	}
	if got.DateTo == nil || got.DateTo.Before(time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("Expected dateTo to cover the whole day, got %v", got.DateTo)
	}

	response := decode(t, w)
	if response["total"] != float64(11) || response["hasMore"] != true || response["limit"] != float64(5) {
		t.Errorf("Unexpected page body: %v", response)
	}
	if items, _ := response["messages"].([]interface{}); len(items) != 1 {
		t.Errorf("Expected 1 message, got %v", response["messages"])
	}
}

func TestMessageHandler_ListDefaultsAndRejectsBadQueries(t *testing.T) {
	s := newTestServer()
	var got *message.ListFilter
	s.messages.ListFunc = func(ctx context.Context, requesterID uint, filter *message.ListFilter) (*message.Page, error) {
		got = filter
		return &message.Page{Items: []*message.Message{}, Page: filter.Page, PageSize: filter.PageSize}, nil
	}

	w := s.do("GET", "/v1/messages", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 under /v1, got %d", w.Code)
	}
	if got.Page != 1 || got.PageSize != message.DefaultListPageSize || got.Platform != nil || got.HasAnalysis != nil {
		t.Errorf("Unexpected default filter: %+v", got)
	}
	if items, ok := decode(t, w)["messages"].([]interface{}); !ok || len(items) != 0 {
		t.Errorf("Expected empty messages array")
	}

	for _, query := range []string{"page=0", "page=abc", "limit=0", "limit=101", "messageType=VIDEO", "hasAnalysis=maybe", "dateFrom=yesterday", "dateFrom=2024-03-05&dateTo=2024-03-01"} {
		w := s.do("GET", "/messages?"+query, nil, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", query, w.Code)
		}
	}
}

func TestMessageHandler_Search(t *testing.T) {
	s := newTestServer()
	var gotQuery string
	var gotPage, gotSize int
	s.messages.SearchFunc = func(ctx context.Context, requesterID uint, query string, page, pageSize int) (*message.Page, error) {
		gotQuery, gotPage, gotSize = query, page, pageSize
		return &message.Page{Items: []*message.Message{sampleMessage()}, Total: 1, Page: page, PageSize: pageSize}, nil
	}

	w := s.do("GET", "/messages/search?q=pickup", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if gotQuery != "pickup" || gotPage != 1 || gotSize != message.DefaultSearchPageSize {
		t.Errorf("Unexpected search args %q %d %d", gotQuery, gotPage, gotSize)
	}

	w = s.do("GET", "/messages/search", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing query, got %d", w.Code)
	}
	if decode(t, w)["message"] != "Search query is required" {
		t.Errorf("Unexpected error body %s", w.Body.String())
	}
}

func TestMessageHandler_SearchBlankQueryReturnsEmptyPage(t *testing.T) {
	s := newTestServer()
	var gotQuery *string
	s.messages.SearchFunc = func(ctx context.Context, requesterID uint, query string, page, pageSize int) (*message.Page, error) {
		gotQuery = &query
		return &message.Page{Page: page, PageSize: pageSize}, nil
	}

	for _, path := range []string{"/messages/search?q=%20%20%20", "/messages/search?q="} {
		gotQuery = nil
		w := s.do("GET", path, nil, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d: %s", path, w.Code, w.Body.String())
		}
		if gotQuery == nil || *gotQuery != "" {
			t.Errorf("%s: expected the trimmed empty query to reach the service", path)
		}
		response := decode(t, w)
		if response["total"] != float64(0) {
			t.Errorf("%s: expected total 0, got %v", path, response["total"])
		}
		if items, ok := response["messages"].([]interface{}); !ok || len(items) != 0 {
			t.Errorf("%s: expected empty messages array, got %v", path, response["messages"])
		}
	}
}

func TestMessageHandler_Stats(t *testing.T) {
	s := newTestServer()
	s.messages.GetStatsFunc = func(ctx context.Context, requesterID uint) (*message.Stats, error) {
		return &message.Stats{
			TotalMessages:     3,
			AnalyzedMessages:  1,
			PlatformBreakdown: []message.PlatformStat{{Platform: "Unknown", Count: 2}, {Platform: "SMS", Count: 1}},
			RecentActivity:    []message.DayCount{{Date: "2024-03-01", Count: 3}},
		}, nil
	}

	w := s.do("GET", "/messages/stats", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	response := decode(t, w)
	if response["totalMessages"] != float64(3) || response["analyzedMessages"] != float64(1) {
		t.Errorf("Unexpected totals %v", response)
	}
	breakdown := response["platformBreakdown"].([]interface{})
	if first := breakdown[0].(map[string]interface{}); first["platform"] != "Unknown" {
		t.Errorf("Expected Unknown bucket first, got %v", first)
	}
}

func TestMessageHandler_UpdateDistinguishesAbsentFromNull(t *testing.T) {
	s := newTestServer()
	var got message.UpdateParams
	var gotID string
	s.messages.UpdateFunc = func(ctx context.Context, id string, requesterID uint, params message.UpdateParams) (*message.Message, error) {
		gotID = id
		got = params
		return sampleMessage(), nil
	}

	w := s.doJSON("PUT", "/messages/msg-1", `{"platform":null,"ocrText":"","content":"updated"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotID != "msg-1" {
		t.Errorf("Expected id msg-1, got %s", gotID)
	}
	if !got.Platform.Set || !got.Platform.Null {
		t.Errorf("Expected platform to be an explicit null")
	}
	if v, ok := got.OCRText.Get(); !ok || v != "" {
		t.Errorf("Expected ocrText to be an explicit empty string")
	}
	if v, ok := got.Content.Get(); !ok || v != "updated" {
		t.Errorf("Expected content update")
	}
	if got.MessageType.Set || got.ScreenshotURL.Set || got.OCRConfidence.Set {
		t.Errorf("Expected absent fields to stay unset: %+v", got)
	}
}

func TestMessageHandler_UpdateEmptyContentRejectsWholeBody(t *testing.T) {
	s := newTestServer()
	var got message.UpdateParams
	s.messages.UpdateFunc = func(ctx context.Context, id string, requesterID uint, params message.UpdateParams) (*message.Message, error) {
		got = params
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "content cannot be empty", nil, "message-update-001")
	}

	w := s.doJSON("PUT", "/messages/msg-1", `{"content":"","platform":"sms"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if v, ok := got.Content.Get(); !ok || v != "" {
		t.Errorf("Expected content to reach the service as an explicit empty string")
	}
	if v, ok := got.Platform.Get(); !ok || v != "sms" {
		t.Errorf("Expected platform sms alongside the rejected content")
	}
	if decode(t, w)["message"] != "content cannot be empty" {
		t.Errorf("Unexpected error body %s", w.Body.String())
	}
}

func TestMessageHandler_NotFoundCollapsesPermission(t *testing.T) {
	s := newTestServer()
	s.messages.SoftDeleteFunc = func(ctx context.Context, id string, requesterID uint) error {
		return notFound(ctx)
	}
	s.messages.GetByIDFunc = func(ctx context.Context, id string, requesterID uint) (*message.Message, error) {
		return nil, notFound(ctx)
	}

	if w := s.do("DELETE", "/messages/someone-elses", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on delete, got %d", w.Code)
	}
	if w := s.do("GET", "/messages/missing", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on get, got %d", w.Code)
	}
}

func TestMessageHandler_DeleteAndAnalyses(t *testing.T) {
	s := newTestServer()
	s.messages.SoftDeleteFunc = func(ctx context.Context, id string, requesterID uint) error {
		return nil
	}
	s.analyses.ListForMessageFunc = func(ctx context.Context, messageID string, requesterID uint) ([]*message.Analysis, error) {
		return []*message.Analysis{{PublicID: "an-2", Provider: "openai"}, {PublicID: "an-1", Provider: "groq"}}, nil
	}

	w := s.do("DELETE", "/messages/msg-1", nil, "")
	if w.Code != http.StatusOK || decode(t, w)["success"] != true {
		t.Errorf("Expected success body, got %d %s", w.Code, w.Body.String())
	}

	w = s.do("GET", "/messages/msg-1/analyses", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	runs := decode(t, w)["analyses"].([]interface{})
	if len(runs) != 2 || runs[0].(map[string]interface{})["id"] != "an-2" {
		t.Errorf("Expected newest run first, got %v", runs)
	}
	if runs[0].(map[string]interface{})["messageId"] != "msg-1" {
		t.Errorf("Expected message id on runs")
	}
}

func TestMessageHandler_UpstreamErrorsAreGeneric(t *testing.T) {
	s := newTestServer()
	s.messages.ListFunc = func(ctx context.Context, requesterID uint, filter *message.ListFilter) (*message.Page, error) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"connection refused to 10.0.0.5", nil, "message-list-001")
	}

	w := s.do("GET", "/messages", nil, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
	if msg := decode(t, w)["message"]; msg != "failed to list messages" {
		t.Errorf("Expected generic message, got %v", msg)
	}
}
