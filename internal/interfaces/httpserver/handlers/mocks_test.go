package handlers_test

import (
	"context"
	"errors"
	"io"

	"coparent-api/internal/domain/credential"
	"coparent-api/internal/domain/message"
	"coparent-api/internal/domain/upload"
	"coparent-api/internal/domain/user"
	"coparent-api/internal/infrastructure/auth"
)

// MockMessageService is a mock implementation of message.Service for testing.
type MockMessageService struct {
	CreateFunc     func(ctx context.Context, ownerID uint, params message.CreateParams) (*message.Message, error)
	GetByIDFunc    func(ctx context.Context, id string, requesterID uint) (*message.Message, error)
	UpdateFunc     func(ctx context.Context, id string, requesterID uint, params message.UpdateParams) (*message.Message, error)
	SoftDeleteFunc func(ctx context.Context, id string, requesterID uint) error
	ListFunc       func(ctx context.Context, requesterID uint, filter *message.ListFilter) (*message.Page, error)
	SearchFunc     func(ctx context.Context, requesterID uint, query string, page, pageSize int) (*message.Page, error)
	GetStatsFunc   func(ctx context.Context, requesterID uint) (*message.Stats, error)
}

func (m *MockMessageService) Create(ctx context.Context, ownerID uint, params message.CreateParams) (*message.Message, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, params)
	}
	return nil, nil
}

func (m *MockMessageService) GetByID(ctx context.Context, id string, requesterID uint) (*message.Message, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, requesterID)
	}
	return nil, nil
}

func (m *MockMessageService) Update(ctx context.Context, id string, requesterID uint, params message.UpdateParams) (*message.Message, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, requesterID, params)
	}
	return nil, nil
}

func (m *MockMessageService) SoftDelete(ctx context.Context, id string, requesterID uint) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id, requesterID)
	}
	return nil
}

func (m *MockMessageService) List(ctx context.Context, requesterID uint, filter *message.ListFilter) (*message.Page, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, requesterID, filter)
	}
	return &message.Page{Items: []*message.Message{}, Page: 1, PageSize: message.DefaultListPageSize}, nil
}

func (m *MockMessageService) Search(ctx context.Context, requesterID uint, query string, page, pageSize int) (*message.Page, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, requesterID, query, page, pageSize)
	}
	return &message.Page{Items: []*message.Message{}, Page: page, PageSize: pageSize}, nil
}

func (m *MockMessageService) GetStats(ctx context.Context, requesterID uint) (*message.Stats, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx, requesterID)
	}
	return &message.Stats{}, nil
}

// MockAnalysisService is a mock implementation of analysis.Service for testing.
type MockAnalysisService struct {
	AnalyzeFunc        func(ctx context.Context, messageID string, requesterID uint, provider *string) (*message.Analysis, error)
	ListForMessageFunc func(ctx context.Context, messageID string, requesterID uint) ([]*message.Analysis, error)
}

func (m *MockAnalysisService) Analyze(ctx context.Context, messageID string, requesterID uint, provider *string) (*message.Analysis, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, messageID, requesterID, provider)
	}
	return nil, nil
}

func (m *MockAnalysisService) ListForMessage(ctx context.Context, messageID string, requesterID uint) ([]*message.Analysis, error) {
	if m.ListForMessageFunc != nil {
		return m.ListForMessageFunc(ctx, messageID, requesterID)
	}
	return []*message.Analysis{}, nil
}

// MockUserService is a mock implementation of user.Service for testing.
type MockUserService struct {
	ResolveOrCreateFunc func(ctx context.Context, identity user.Identity) (*user.User, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*user.Profile, error)
	UpdateSettingsFunc  func(ctx context.Context, userID uint, update user.SettingsUpdate) (*user.User, error)
	DeleteAccountFunc   func(ctx context.Context, userID uint) error
}

func (m *MockUserService) ResolveOrCreate(ctx context.Context, identity user.Identity) (*user.User, error) {
	if m.ResolveOrCreateFunc != nil {
		return m.ResolveOrCreateFunc(ctx, identity)
	}
	return nil, errors.New("not configured")
}

func (m *MockUserService) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return nil, errors.New("not configured")
}

func (m *MockUserService) FindByPublicID(ctx context.Context, publicID string) (*user.User, error) {
	return nil, errors.New("not configured")
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*user.Profile, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserService) UpdateSettings(ctx context.Context, userID uint, update user.SettingsUpdate) (*user.User, error) {
	if m.UpdateSettingsFunc != nil {
		return m.UpdateSettingsFunc(ctx, userID, update)
	}
	return nil, nil
}

func (m *MockUserService) DeleteAccount(ctx context.Context, userID uint) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, userID)
	}
	return nil
}

// MockCredentialService is a mock implementation of credential.Service for testing.
type MockCredentialService struct {
	PutFunc    func(ctx context.Context, userID uint, provider credential.Provider, apiKey string) (*credential.Credential, error)
	ListFunc   func(ctx context.Context, userID uint) ([]*credential.Credential, error)
	DeleteFunc func(ctx context.Context, userID uint, provider credential.Provider) error
}

func (m *MockCredentialService) Put(ctx context.Context, userID uint, provider credential.Provider, apiKey string) (*credential.Credential, error) {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, userID, provider, apiKey)
	}
	return nil, nil
}

func (m *MockCredentialService) List(ctx context.Context, userID uint) ([]*credential.Credential, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return []*credential.Credential{}, nil
}

func (m *MockCredentialService) Delete(ctx context.Context, userID uint, provider credential.Provider) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, provider)
	}
	return nil
}

func (m *MockCredentialService) Resolve(ctx context.Context, userID uint, provider credential.Provider) (string, error) {
	return "", errors.New("not configured")
}

// MockUploadService is a mock implementation of upload.Service for testing.
type MockUploadService struct {
	UploadFunc func(ctx context.Context, userID uint, filename string, body io.Reader) (*upload.Result, error)
}

func (m *MockUploadService) Upload(ctx context.Context, userID uint, filename string, body io.Reader) (*upload.Result, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, userID, filename, body)
	}
	return nil, nil
}

// stubValidator accepts the single token "valid-token".
type stubValidator struct{}

func (stubValidator) Validate(ctx context.Context, rawToken string) (*auth.Claims, error) {
	if rawToken != "valid-token" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{Subject: "user-1", Issuer: "https://idp.example.com", Email: "sam@example.com"}, nil
}

func (stubValidator) Provider() string {
	return auth.ProviderOIDC
}
