package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	affiliationsvc "github.com/assetnest/assetnest-backend/internal/affiliation"
	identitysvc "github.com/assetnest/assetnest-backend/internal/identity"
	inventorysvc "github.com/assetnest/assetnest-backend/internal/inventory"
	noticesvc "github.com/assetnest/assetnest-backend/internal/notices"
	requestsvc "github.com/assetnest/assetnest-backend/internal/requests"
	statssvc "github.com/assetnest/assetnest-backend/internal/stats"
	pkgauth "github.com/assetnest/assetnest-backend/pkg/auth"
	"github.com/assetnest/assetnest-backend/pkg/config"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	"github.com/assetnest/assetnest-backend/pkg/logger"
	"github.com/assetnest/assetnest-backend/pkg/pagination"
	"github.com/assetnest/assetnest-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubIdentityService struct{}

func (stubIdentityService) Register(ctx context.Context, input identitysvc.RegisterInput) (*identitysvc.AccountDTO, error) {
	return &identitysvc.AccountDTO{
		ID:    uuid.New(),
		Email: input.Email,
		Name:  input.Name,
		Role:  input.Role,
	}, nil
}

func (stubIdentityService) FindByEmail(ctx context.Context, email string) (*identitysvc.AccountDTO, error) {
	return &identitysvc.AccountDTO{Email: email, Role: enums.AccountRoleEmployee}, nil
}

func (stubIdentityService) Role(ctx context.Context, email string) (enums.AccountRole, error) {
	return enums.AccountRoleEmployee, nil
}

func (stubIdentityService) UpdateProfile(ctx context.Context, email string, input identitysvc.UpdateProfileInput) (*identitysvc.AccountDTO, error) {
	return &identitysvc.AccountDTO{Email: email}, nil
}

type stubInventoryService struct{}

func (stubInventoryService) CreateAsset(ctx context.Context, orgID uuid.UUID, input inventorysvc.CreateAssetInput) (*inventorysvc.AssetDTO, error) {
	return &inventorysvc.AssetDTO{}, nil
}

func (stubInventoryService) UpdateAsset(ctx context.Context, orgID, assetID uuid.UUID, input inventorysvc.UpdateAssetInput) (*inventorysvc.AssetDTO, error) {
	return &inventorysvc.AssetDTO{}, nil
}

func (stubInventoryService) DeleteAsset(ctx context.Context, orgID, assetID uuid.UUID) error {
	return nil
}

func (stubInventoryService) GetAsset(ctx context.Context, assetID uuid.UUID) (*inventorysvc.AssetDTO, error) {
	return &inventorysvc.AssetDTO{}, nil
}

func (stubInventoryService) ListAssets(ctx context.Context, orgID uuid.UUID, filters inventorysvc.ListFilters, page pagination.Params) (*inventorysvc.AssetListResult, error) {
	return &inventorysvc.AssetListResult{}, nil
}

func (stubInventoryService) AvailableAssets(ctx context.Context, orgID uuid.UUID, filters inventorysvc.ListFilters) ([]inventorysvc.AssetDTO, error) {
	return nil, nil
}

func (stubInventoryService) LowStock(ctx context.Context, orgID uuid.UUID) ([]inventorysvc.AssetDTO, error) {
	return nil, nil
}

type stubRequestService struct{}

func (stubRequestService) Create(ctx context.Context, assetID uuid.UUID, requesterEmail string, note *string) (*requestsvc.RequestDTO, error) {
	return &requestsvc.RequestDTO{}, nil
}

func (stubRequestService) Approve(ctx context.Context, requestID uuid.UUID, approverEmail string) (*requestsvc.RequestDTO, error) {
	return &requestsvc.RequestDTO{}, nil
}

func (stubRequestService) Reject(ctx context.Context, requestID uuid.UUID, approverEmail string) (*requestsvc.RequestDTO, error) {
	return &requestsvc.RequestDTO{}, nil
}

func (stubRequestService) Cancel(ctx context.Context, requestID uuid.UUID, requesterEmail string) error {
	return nil
}

func (stubRequestService) Return(ctx context.Context, requestID uuid.UUID, requesterEmail string) (*requestsvc.RequestDTO, error) {
	return &requestsvc.RequestDTO{}, nil
}

func (stubRequestService) ListForOrg(ctx context.Context, orgID uuid.UUID, filters requestsvc.OrgListFilters, page pagination.Params) (*requestsvc.RequestListResult, error) {
	return &requestsvc.RequestListResult{}, nil
}

func (stubRequestService) ListForRequester(ctx context.Context, email string, filters requestsvc.RequesterListFilters) ([]requestsvc.RequestDTO, error) {
	return nil, nil
}

type stubAffiliationService struct{}

func (stubAffiliationService) ListUnaffiliated(ctx context.Context, search string) ([]affiliationsvc.MemberDTO, error) {
	return nil, nil
}

func (stubAffiliationService) MemberCount(ctx context.Context, orgID uuid.UUID) (*affiliationsvc.TeamCountDTO, error) {
	return &affiliationsvc.TeamCountDTO{OrganizationID: orgID}, nil
}

func (stubAffiliationService) TeamMembers(ctx context.Context, orgID uuid.UUID) ([]affiliationsvc.MemberDTO, error) {
	return nil, nil
}

func (stubAffiliationService) AddMembers(ctx context.Context, orgID uuid.UUID, accountIDs []uuid.UUID) error {
	return nil
}

func (stubAffiliationService) RemoveMember(ctx context.Context, orgID, accountID uuid.UUID) error {
	return nil
}

func (stubAffiliationService) UpgradePackage(ctx context.Context, hrEmail string, newLimit int) (*affiliationsvc.TeamCountDTO, error) {
	return &affiliationsvc.TeamCountDTO{}, nil
}

func (stubAffiliationService) EnsureJoined(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, email string) error {
	return nil
}

func (stubAffiliationService) PackageTiers() []affiliationsvc.PackageTier {
	return affiliationsvc.Tiers()
}

type stubNoticeService struct{}

func (stubNoticeService) Post(ctx context.Context, orgID uuid.UUID, postedBy, title, body string) (*noticesvc.NoticeDTO, error) {
	return &noticesvc.NoticeDTO{}, nil
}

func (stubNoticeService) ListForOrg(ctx context.Context, orgID uuid.UUID) ([]noticesvc.NoticeDTO, error) {
	return nil, nil
}

type stubStatsService struct{}

func (stubStatsService) HRStats(ctx context.Context, orgID uuid.UUID) (*statssvc.HRStatsDTO, error) {
	return &statssvc.HRStatsDTO{}, nil
}

func (stubStatsService) EmployeeStats(ctx context.Context, email string) (*statssvc.EmployeeStatsDTO, error) {
	return &statssvc.EmployeeStatsDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		nil,
		stubIdentityService{},
		stubInventoryService{},
		stubRequestService{},
		stubAffiliationService{},
		stubNoticeService{},
		stubStatsService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.AccountRole, orgID *uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		Email:          "worker@example.com",
		Role:           role,
		OrganizationID: orgID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AccountRoleEmployee, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestHRGroupRequiresHRRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	orgID := uuid.New()

	employee := httptest.NewRequest(http.MethodGet, "/api/v1/unaffiliated-employees", nil)
	employee.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AccountRoleEmployee, &orgID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, employee)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employee on hr route got %d", resp.Code)
	}

	hr := httptest.NewRequest(http.MethodGet, "/api/v1/unaffiliated-employees", nil)
	hr.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AccountRoleHR, &orgID))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, hr)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for hr got %d", resp.Code)
	}
}

func TestOrgScopedRouteRejectsForeignOrg(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	callerOrg := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assets/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AccountRoleHR, &callerOrg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign org got %d", resp.Code)
	}

	own := httptest.NewRequest(http.MethodGet, "/api/v1/assets/"+callerOrg.String(), nil)
	own.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AccountRoleHR, &callerOrg))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, own)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for own org got %d", resp.Code)
	}
}

func TestRegisterIsReachableWithoutToken(t *testing.T) {
	cfg := testConfig()
	cfg.FeatureFlags.Idempotency = false
	router := newTestRouter(cfg)

	body := `{"email":"worker@example.com","name":"Worker","role":"employee"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for register got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}
