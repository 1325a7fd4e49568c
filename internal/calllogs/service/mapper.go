package service

import (
	"sales_crm_backend/internal/calllogs/repository"
	"sales_crm_backend/internal/calllogs/transport"
)

func toResponse(d repository.CallLogDetail) transport.CallLogResponse {
	resp := transport.CallLogResponse{
		ID:               d.ID,
		AgentID:          d.AgentID,
		ClientID:         d.ClientID,
		CallType:         d.CallType,
		Subject:          d.Subject,
		Outcome:          d.Outcome,
		Duration:         d.Duration,
		Status:           d.Status,
		Notes:            d.Notes,
		FollowUpRequired: d.FollowUpRequired,
		FollowUpDate:     d.FollowUpDate,
		FollowUpNotes:    d.FollowUpNotes,
		CallDate:         d.CallDate,
		ClosedDate:       d.ClosedDate,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}

	if d.DealValue != nil || d.ContractTerm != nil || d.DealStartDate != nil || d.DealRenewalDate != nil {
		resp.DealInfo = &transport.DealInfo{
			DealValue:    d.DealValue,
			ContractTerm: d.ContractTerm,
			StartDate:    d.DealStartDate,
			RenewalDate:  d.DealRenewalDate,
		}
	}
	if d.Client != nil {
		resp.Client = &transport.ClientSummary{
			ID:              d.Client.ID,
			FirstName:       d.Client.FirstName,
			LastName:        d.Client.LastName,
			Company:         d.Client.Company,
			Phone:           d.Client.Phone,
			ReferenceNumber: d.Client.ReferenceNumber,
		}
	}
	if d.Agent != nil {
		resp.Agent = &transport.AgentSummary{ID: d.Agent.ID, Name: d.Agent.Name}
	}
	return resp
}

func toResponses(items []repository.CallLogDetail) []transport.CallLogResponse {
	out := make([]transport.CallLogResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	return out
}
