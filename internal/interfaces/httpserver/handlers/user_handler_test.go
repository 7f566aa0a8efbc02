package handlers_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"coparent-api/internal/domain/credential"
	"coparent-api/internal/domain/message"
	"coparent-api/internal/domain/upload"
	"coparent-api/internal/domain/user"
	"coparent-api/internal/utils/platformerrors"
)

func TestAnalysisHandler_Analyze(t *testing.T) {
	s := newTestServer()
	var gotMessage string
	var gotProvider *string
	toxicity := 0.2
	s.analyses.AnalyzeFunc = func(ctx context.Context, messageID string, requesterID uint, provider *string) (*message.Analysis, error) {
		gotMessage, gotProvider = messageID, provider
		return &message.Analysis{
			PublicID:      "an-1",
			Provider:      "anthropic",
			Model:         "claude-3-5-haiku-latest",
			ToxicityScore: &toxicity,
			CreatedAt:     time.Now(),
		}, nil
	}

	w := s.doJSON("POST", "/ai/analyze", `{"messageId":" msg-1 ","provider":"anthropic"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if gotMessage != "msg-1" || gotProvider == nil || *gotProvider != "anthropic" {
		t.Errorf("Unexpected analyze args %q %v", gotMessage, gotProvider)
	}
	response := decode(t, w)
	if response["messageId"] != "msg-1" || response["toxicityScore"] != 0.2 {
		t.Errorf("Unexpected analysis body %v", response)
	}
	if tips, ok := response["improvementTips"].([]interface{}); !ok || len(tips) != 0 {
		t.Errorf("Expected empty improvementTips array, got %v", response["improvementTips"])
	}
}

func TestAnalysisHandler_ErrorMapping(t *testing.T) {
	s := newTestServer()

	if w := s.doJSON("POST", "/ai/analyze", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without messageId, got %d", w.Code)
	}

	cases := []struct {
		errType platformerrors.ErrorType
		status  int
	}{
		{platformerrors.ErrorTypeConfiguration, http.StatusBadRequest},
		{platformerrors.ErrorTypeNotFound, http.StatusNotFound},
		{platformerrors.ErrorTypeExternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		errType := tc.errType
		s.analyses.AnalyzeFunc = func(ctx context.Context, messageID string, requesterID uint, provider *string) (*message.Analysis, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, errType, "provider said no", nil, "analysis-test")
		}
		w := s.doJSON("POST", "/ai/analyze", `{"messageId":"msg-1"}`)
		if w.Code != tc.status {
			t.Errorf("%s: expected status %d, got %d", errType, tc.status, w.Code)
		}
	}
}

func TestUserHandler_MeAndSettings(t *testing.T) {
	s := newTestServer()
	var gotUpdate user.SettingsUpdate
	s.users.UpdateSettingsFunc = func(ctx context.Context, userID uint, update user.SettingsUpdate) (*user.User, error) {
		gotUpdate = update
		u := testUser()
		u.AIProvider = credential.ProviderGroq
		return u, nil
	}

	w := s.do("GET", "/auth/me", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	me := decode(t, w)["user"].(map[string]interface{})
	if me["id"] != "user-7" || me["aiProvider"] != "openai" || me["analysisEnabled"] != true {
		t.Errorf("Unexpected user body %v", me)
	}

	w = s.doJSON("PUT", "/users/settings", `{"aiProvider":"groq"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if v, ok := gotUpdate.AIProvider.Get(); !ok || v != "groq" {
		t.Errorf("Expected aiProvider update")
	}
	if gotUpdate.AnalysisEnabled.Set {
		t.Errorf("Expected analysisEnabled to stay absent")
	}
	if updated := decode(t, w)["user"].(map[string]interface{}); updated["aiProvider"] != "groq" {
		t.Errorf("Expected updated provider, got %v", updated)
	}
}

func TestUserHandler_ResolveConflictIs409(t *testing.T) {
	s := newTestServer()
	s.users.ResolveOrCreateFunc = func(ctx context.Context, identity user.Identity) (*user.User, error) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
			"email already belongs to another account", nil, "user-upsert-002")
	}

	if w := s.do("GET", "/auth/me", nil, ""); w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
}

func TestUserHandler_LookupAndDelete(t *testing.T) {
	s := newTestServer()
	email := "alex@example.com"
	s.users.GetByEmailFunc = func(ctx context.Context, e string) (*user.Profile, error) {
		if e != email {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "user not found", nil, "user-find-001")
		}
		return &user.Profile{ID: "user-9", Email: &email}, nil
	}
	deleted := uint(0)
	s.users.DeleteAccountFunc = func(ctx context.Context, userID uint) error {
		deleted = userID
		return nil
	}

	w := s.do("GET", "/users/lookup?email=alex@example.com", nil, "")
	if w.Code != http.StatusOK || decode(t, w)["id"] != "user-9" {
		t.Errorf("Expected profile, got %d %s", w.Code, w.Body.String())
	}
	if w := s.do("GET", "/users/lookup?email=nobody@example.com", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	if w := s.do("DELETE", "/users/me", nil, ""); w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if deleted != 7 {
		t.Errorf("Expected account 7 deleted, got %d", deleted)
	}
}

func TestCredentialHandler(t *testing.T) {
	s := newTestServer()
	var gotProvider credential.Provider
	var gotKey string
	s.credentials.PutFunc = func(ctx context.Context, userID uint, provider credential.Provider, apiKey string) (*credential.Credential, error) {
		gotProvider, gotKey = provider, apiKey
		return &credential.Credential{Provider: provider, Last4: "9xyz"}, nil
	}
	s.credentials.ListFunc = func(ctx context.Context, userID uint) ([]*credential.Credential, error) {
		return []*credential.Credential{{Provider: credential.ProviderOpenAI, Last4: "abcd"}}, nil
	}

	w := s.doJSON("PUT", "/users/credentials/OpenAI", `{"apiKey":"sk-test-9xyz"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotProvider != credential.ProviderOpenAI || gotKey != "sk-test-9xyz" {
		t.Errorf("Unexpected put args %s %s", gotProvider, gotKey)
	}
	if body := w.Body.String(); bytes.Contains([]byte(body), []byte("sk-test")) {
		t.Errorf("Response leaked the key: %s", body)
	}
	if decode(t, w)["maskedKey"] != "••••9xyz" {
		t.Errorf("Expected masked key, got %s", w.Body.String())
	}

	if w := s.doJSON("PUT", "/users/credentials/mistral", `{"apiKey":"k"}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unsupported provider, got %d", w.Code)
	}
	if w := s.doJSON("PUT", "/users/credentials/openai", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without apiKey, got %d", w.Code)
	}

	w = s.do("GET", "/users/credentials", nil, "")
	response := decode(t, w)
	if creds := response["credentials"].([]interface{}); len(creds) != 1 {
		t.Errorf("Expected 1 credential, got %v", creds)
	}
	if providers := response["supportedProviders"].([]interface{}); len(providers) != 4 {
		t.Errorf("Expected 4 supported providers, got %v", providers)
	}

	if w := s.do("DELETE", "/users/credentials/gemini", nil, ""); w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
}

func TestUploadHandler(t *testing.T) {
	s := newTestServer()
	var gotName string
	var gotBody []byte
	confidence := 91.5
	s.uploads.UploadFunc = func(ctx context.Context, userID uint, filename string, body io.Reader) (*upload.Result, error) {
		gotName = filename
		gotBody, _ = io.ReadAll(body)
		return &upload.Result{
			FileURL:       "/uploads/1700000000000-shot.png",
			ExtractedText: "see you at 5",
			OCRConfidence: &confidence,
			MimeType:      "image/png",
			Size:          int64(len(gotBody)),
		}, nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "shot.png")
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	_ = mw.Close()

	w := s.do("POST", "/upload", &buf, mw.FormDataContentType())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotName != "shot.png" || len(gotBody) == 0 {
		t.Errorf("Unexpected upload args %q %d bytes", gotName, len(gotBody))
	}
	response := decode(t, w)
	if response["fileUrl"] != "/uploads/1700000000000-shot.png" || response["extractedText"] != "see you at 5" {
		t.Errorf("Unexpected upload body %v", response)
	}

	var empty bytes.Buffer
	emptyWriter := multipart.NewWriter(&empty)
	_ = emptyWriter.WriteField("note", "no file here")
	_ = emptyWriter.Close()
	if w := s.do("POST", "/upload", &empty, emptyWriter.FormDataContentType()); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without file, got %d", w.Code)
	}
}

func TestUploadHandler_RejectsOversizedBody(t *testing.T) {
	s := newTestServer()
	called := false
	s.uploads.UploadFunc = func(ctx context.Context, userID uint, filename string, body io.Reader) (*upload.Result, error) {
		called = true
		return &upload.Result{}, nil
	}

	oversized := func() (*bytes.Buffer, string) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, _ := mw.CreateFormFile("file", "huge.png")
		_, _ = part.Write(bytes.Repeat([]byte("a"), 2<<20))
		_ = mw.Close()
		return &buf, mw.FormDataContentType()
	}

	body, contentType := oversized()
	w := s.do("POST", "/upload", body, contentType)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for declared oversized body, got %d", w.Code)
	}
	if decode(t, w)["message"] != "file exceeds the 1024 byte limit" {
		t.Errorf("Unexpected error body %s", w.Body.String())
	}

	// Without a Content-Length the body is only cut off while it is read.
	body, contentType = oversized()
	w = s.do("POST", "/upload", io.MultiReader(body), contentType)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for streamed oversized body, got %d", w.Code)
	}

	if called {
		t.Errorf("Expected oversized uploads to never reach the service")
	}
}
