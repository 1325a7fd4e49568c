package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales_crm_backend/internal/auth/password"
	"sales_crm_backend/internal/auth/repository"
	"sales_crm_backend/internal/auth/transport"
	authvalidator "sales_crm_backend/internal/auth/validator"
	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/logger"
	"sales_crm_backend/platform/validator"
)

const testSecret = "test-secret"

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return testSecret }
func (testConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

type memoryAgents struct {
	byEmail   map[string]repository.Agent
	createErr error
}

func newMemoryAgents() *memoryAgents {
	return &memoryAgents{byEmail: make(map[string]repository.Agent)}
}

func (m *memoryAgents) GetByEmail(_ context.Context, email string) (repository.Agent, error) {
	a, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return repository.Agent{}, apperr.NotFound("Agent not found")
	}
	return a, nil
}

func (m *memoryAgents) GetByID(_ context.Context, id uuid.UUID) (repository.Agent, error) {
	for _, a := range m.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return repository.Agent{}, apperr.NotFound("Agent not found")
}

func (m *memoryAgents) Create(_ context.Context, p repository.CreateParams) (repository.Agent, error) {
	if m.createErr != nil {
		return repository.Agent{}, m.createErr
	}
	if _, exists := m.byEmail[p.Email]; exists {
		return repository.Agent{}, apperr.Conflict("an agent with this email already exists")
	}
	a := repository.Agent{
		ID:           uuid.New(),
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Department:   p.Department,
		Role:         p.Role,
		IsActive:     true,
	}
	m.byEmail[a.Email] = a
	return a, nil
}

func newTestService(t *testing.T) (*Service, *memoryAgents) {
	t.Helper()
	val := validator.New()
	require.NoError(t, authvalidator.Register(val))
	repo := newMemoryAgents()
	return New(repo, testConfig{}, val, logger.Discard()), repo
}

func agentRequest(email string) transport.CreateAgentRequest {
	return transport.CreateAgentRequest{Name: "Ada Lovelace", Email: email, Password: "S3cure!pass"}
}

func TestCreateAgentDefaults(t *testing.T) {
	svc, repo := newTestService(t)

	got, err := svc.CreateAgent(context.Background(), agentRequest(" Ada@Example.com "))
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, repository.RoleAgent, got.Role)
	assert.Equal(t, "Sales", got.Department)
	assert.NoError(t, password.Compare(repo.byEmail["ada@example.com"].PasswordHash, "S3cure!pass"))
}

func TestCreateAgentRejectsWeakPassword(t *testing.T) {
	svc, _ := newTestService(t)
	req := agentRequest("ada@example.com")
	req.Password = "password"

	_, err := svc.CreateAgent(context.Background(), req)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestLoginIssuesAccessToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	created, err := svc.CreateAgent(ctx, agentRequest("ada@example.com"))
	require.NoError(t, err)

	got, err := svc.Login(ctx, transport.LoginRequest{Email: "ADA@example.com", Password: "S3cure!pass"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.Agent.ID)

	parsed, err := jwt.Parse(got.Token, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, created.ID.String(), claims["sub"])
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, []interface{}{"agent"}, claims["roles"])
	assert.WithinDuration(t, time.Now().Add(time.Hour), got.ExpiresAt, time.Minute)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateAgent(ctx, agentRequest("ada@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, transport.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = svc.Login(ctx, transport.LoginRequest{Email: "nobody@example.com", Password: "S3cure!pass"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestLoginRejectsInactiveAgent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateAgent(ctx, agentRequest("ada@example.com"))
	require.NoError(t, err)

	a := repo.byEmail["ada@example.com"]
	a.IsActive = false
	repo.byEmail["ada@example.com"] = a

	_, err = svc.Login(ctx, transport.LoginRequest{Email: "ada@example.com", Password: "S3cure!pass"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestImportAgentsSkipsExisting(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateAgent(ctx, agentRequest("ada@example.com"))
	require.NoError(t, err)

	result, err := svc.ImportAgents(ctx, []transport.CreateAgentRequest{
		agentRequest("ada@example.com"),
		agentRequest("grace@example.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"grace@example.com"}, result.Created)
	assert.Equal(t, []string{"ada@example.com"}, result.Skipped)
}

func TestImportAgentsStopsOnStoreFailure(t *testing.T) {
	svc, repo := newTestService(t)
	repo.createErr = errors.New("connection refused")

	result, err := svc.ImportAgents(context.Background(), []transport.CreateAgentRequest{agentRequest("ada@example.com")})

	assert.True(t, apperr.Is(err, apperr.KindDependency))
	assert.Empty(t, result.Created)
}

func TestMeUnknownAgent(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Me(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestImportAgentsNormalizesPaddedEmails(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateAgent(ctx, agentRequest("ada@example.com"))
	require.NoError(t, err)

	result, err := svc.ImportAgents(ctx, []transport.CreateAgentRequest{
		agentRequest("  ADA@example.com "),
		agentRequest(" Grace@Example.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"grace@example.com"}, result.Created)
	assert.Equal(t, []string{"ada@example.com"}, result.Skipped)
}
