package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"sales_crm_backend/internal/clients/repository"
	"sales_crm_backend/internal/clients/transport"
	"sales_crm_backend/internal/pipeline"
	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/logger"
	"sales_crm_backend/platform/phone"
	"sales_crm_backend/platform/sanitize"
)

// RecentCallLogLimit is how many calls the client detail view embeds.
const RecentCallLogLimit = 10

const (
	defaultIndustry       = "Other"
	defaultCompanySize    = "1-10"
	defaultCountry        = "USA"
	defaultLeadSource     = "Other"
	defaultContactMethod  = "Email"
	msgEmptySearch        = "search query is required"
	msgCascadeFailed      = "client deleted but removing its call logs failed"
	msgClientStoreFailure = "client store unavailable"
)

// CallLogStore is the call log view this service needs: the embedded recent
// calls and the delete cascade.
type CallLogStore interface {
	RecentForClient(ctx context.Context, clientID, agentID uuid.UUID, limit int) ([]transport.RecentCallLog, error)
	DeleteForClient(ctx context.Context, clientID, agentID uuid.UUID) (int64, error)
}

// Service provides business logic for clients.
type Service struct {
	repo        repository.Repository
	callLogs    CallLogStore
	phoneRegion string
	log         *logger.Logger
}

// New creates a new clients service. phoneRegion is the default region for
// national phone numbers.
func New(repo repository.Repository, callLogs CallLogStore, phoneRegion string, log *logger.Logger) *Service {
	return &Service{repo: repo, callLogs: callLogs, phoneRegion: phoneRegion, log: log}
}

// SetCallLogStore wires the call log view after construction.
func (s *Service) SetCallLogStore(store CallLogStore) {
	s.callLogs = store
}

// List returns the agent's clients, newest first.
func (s *Service) List(ctx context.Context, agentID uuid.UUID) ([]transport.ClientResponse, error) {
	items, err := s.repo.List(ctx, agentID)
	if err != nil {
		return nil, storeError(err)
	}
	return toResponses(items), nil
}

// Get returns a client with its most recent calls.
func (s *Service) Get(ctx context.Context, id, agentID uuid.UUID) (transport.ClientDetailResponse, error) {
	c, err := s.repo.GetByID(ctx, id, agentID)
	if err != nil {
		return transport.ClientDetailResponse{}, storeError(err)
	}

	calls, err := s.callLogs.RecentForClient(ctx, id, agentID, RecentCallLogLimit)
	if err != nil {
		return transport.ClientDetailResponse{}, storeError(err)
	}

	return transport.ClientDetailResponse{ClientResponse: toResponse(c), CallLogs: calls}, nil
}

// Create stores a new client owned by the agent.
func (s *Service) Create(ctx context.Context, agentID uuid.UUID, req transport.CreateClientRequest) (transport.ClientResponse, error) {
	params := repository.CreateParams{
		AgentID:                agentID,
		FirstName:              strings.TrimSpace(req.FirstName),
		LastName:               strings.TrimSpace(req.LastName),
		Email:                  strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:                  strings.TrimSpace(req.Phone),
		PhoneNormalized:        phone.NormalizeE164(req.Phone, s.phoneRegion),
		JobTitle:               req.JobTitle,
		Company:                strings.TrimSpace(req.Company),
		Industry:               orDefault(req.Industry, defaultIndustry),
		CompanySize:            orDefault(req.CompanySize, defaultCompanySize),
		Website:                req.Website,
		Country:                defaultCountry,
		ReferenceNumber:        strings.TrimSpace(req.ReferenceNumber),
		OpportunityStage:       pipeline.Stage(orDefault(req.OpportunityStage, string(pipeline.StageLead))),
		DealValue:              req.DealValue,
		Probability:            req.Probability,
		ExpectedCloseDate:      req.ExpectedCloseDate,
		NextFollowUpDate:       req.NextFollowUpDate,
		LeadSource:             orDefault(req.LeadSource, defaultLeadSource),
		PreferredContactMethod: orDefault(req.PreferredContactMethod, defaultContactMethod),
		Notes:                  sanitize.StripHTML(req.Notes),
	}
	if req.Address != nil {
		params.Street = req.Address.Street
		params.City = req.Address.City
		params.State = req.Address.State
		params.ZipCode = req.Address.ZipCode
		params.Country = orDefault(req.Address.Country, defaultCountry)
	}
	if !params.OpportunityStage.Valid() {
		return transport.ClientResponse{}, apperr.Validation("invalid opportunity stage")
	}

	c, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.ClientResponse{}, storeError(err)
	}

	s.log.WithContext(ctx).Info("client created", "id", c.ID, "stage", c.OpportunityStage)
	return toResponse(c), nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id, agentID uuid.UUID, req transport.UpdateClientRequest) (transport.ClientResponse, error) {
	params := repository.UpdateParams{
		ID:                     id,
		AgentID:                agentID,
		FirstName:              trimPtr(req.FirstName),
		LastName:               trimPtr(req.LastName),
		Email:                  req.Email,
		Phone:                  trimPtr(req.Phone),
		JobTitle:               req.JobTitle,
		Company:                trimPtr(req.Company),
		Industry:               req.Industry,
		CompanySize:            req.CompanySize,
		Website:                req.Website,
		ReferenceNumber:        trimPtr(req.ReferenceNumber),
		DealValue:              req.DealValue,
		Probability:            req.Probability,
		ExpectedCloseDate:      req.ExpectedCloseDate,
		ClosedDate:             req.ClosedDate,
		NextFollowUpDate:       req.NextFollowUpDate,
		LeadSource:             req.LeadSource,
		PreferredContactMethod: req.PreferredContactMethod,
		Notes:                  sanitize.TextPtr(req.Notes),
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		params.Email = &email
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone, s.phoneRegion)
		params.PhoneNormalized = &normalized
	}
	if req.OpportunityStage != nil {
		stage := pipeline.Stage(*req.OpportunityStage)
		if !stage.Valid() {
			return transport.ClientResponse{}, apperr.Validation("invalid opportunity stage")
		}
		params.OpportunityStage = &stage
	}
	if req.Address != nil {
		params.Street = req.Address.Street
		params.City = req.Address.City
		params.State = req.Address.State
		params.ZipCode = req.Address.ZipCode
		params.Country = req.Address.Country
	}

	c, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.ClientResponse{}, storeError(err)
	}

	s.log.WithContext(ctx).Info("client updated", "id", c.ID)
	return toResponse(c), nil
}

// Delete removes the client and then every call logged against it. The two
// deletes are independent; if the second fails the client is already gone
// and the error says so.
func (s *Service) Delete(ctx context.Context, id, agentID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, agentID); err != nil {
		return storeError(err)
	}

	removed, err := s.callLogs.DeleteForClient(ctx, id, agentID)
	if err != nil {
		s.log.WithContext(ctx).Error("call log cascade failed", "clientId", id, "error", err)
		return apperr.Dependency(msgCascadeFailed, err)
	}

	s.log.WithContext(ctx).Info("client deleted", "id", id, "callLogsRemoved", removed)
	return nil
}

// Search finds the agent's clients whose name, phone or reference number
// contains query, ignoring case. A query that is itself a complete phone
// number also finds clients whose stored number is written differently.
func (s *Service) Search(ctx context.Context, agentID uuid.UUID, query string) ([]transport.ClientResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.Validation(msgEmptySearch)
	}

	normalized, _ := phone.ParseE164(query, s.phoneRegion)
	items, err := s.repo.Search(ctx, agentID, query, normalized)
	if err != nil {
		return nil, storeError(err)
	}
	return toResponses(items), nil
}

func storeError(err error) error {
	if apperr.GetKind(err) != apperr.KindUnknown {
		return err
	}
	return apperr.Dependency(msgClientStoreFailure, err)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
