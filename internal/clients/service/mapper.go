package service

import (
	"strings"

	"sales_crm_backend/internal/clients/repository"
	"sales_crm_backend/internal/clients/transport"
)

func toResponse(c repository.Client) transport.ClientResponse {
	return transport.ClientResponse{
		ID:          c.ID,
		AgentID:     c.AgentID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		FullName:    strings.TrimSpace(c.FirstName + " " + c.LastName),
		Email:       c.Email,
		Phone:       c.Phone,
		JobTitle:    c.JobTitle,
		Company:     c.Company,
		Industry:    c.Industry,
		CompanySize: c.CompanySize,
		Website:     c.Website,
		Address: transport.Address{
			Street:  c.Street,
			City:    c.City,
			State:   c.State,
			ZipCode: c.ZipCode,
			Country: c.Country,
		},
		ReferenceNumber:        c.ReferenceNumber,
		OpportunityStage:       string(c.OpportunityStage),
		DealValue:              c.DealValue,
		Probability:            c.Probability,
		ExpectedCloseDate:      c.ExpectedCloseDate,
		ClosedDate:             c.ClosedDate,
		LastContactDate:        c.LastContactDate,
		NextFollowUpDate:       c.NextFollowUpDate,
		LeadSource:             c.LeadSource,
		PreferredContactMethod: c.PreferredContactMethod,
		Notes:                  c.Notes,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
	}
}

func toResponses(items []repository.Client) []transport.ClientResponse {
	out := make([]transport.ClientResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	return out
}
