package transport

import (
	"time"

	"github.com/google/uuid"
)

// Address is a client's postal address.
type Address struct {
	Street  string `json:"street" validate:"max=200"`
	City    string `json:"city" validate:"max=100"`
	State   string `json:"state" validate:"max=100"`
	ZipCode string `json:"zipCode" validate:"max=20"`
	Country string `json:"country" validate:"max=100"`
}

// AddressPatch carries optional address fields for updates.
type AddressPatch struct {
	Street  *string `json:"street,omitempty" validate:"omitempty,max=200"`
	City    *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State   *string `json:"state,omitempty" validate:"omitempty,max=100"`
	ZipCode *string `json:"zipCode,omitempty" validate:"omitempty,max=20"`
	Country *string `json:"country,omitempty" validate:"omitempty,max=100"`
}

// CreateClientRequest contains data for creating a client.
type CreateClientRequest struct {
	FirstName              string     `json:"firstName" validate:"required,max=100"`
	LastName               string     `json:"lastName" validate:"required,max=100"`
	Email                  string     `json:"email" validate:"required,email"`
	Phone                  string     `json:"phone" validate:"required,max=40"`
	JobTitle               string     `json:"jobTitle" validate:"max=100"`
	Company                string     `json:"company" validate:"required,max=200"`
	Industry               string     `json:"industry" validate:"omitempty,oneof=Technology Healthcare Finance Retail Manufacturing Education 'Real Estate' Other"`
	CompanySize            string     `json:"companySize" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 501-1000 1000+"`
	Website                string     `json:"website" validate:"omitempty,max=300"`
	Address                *Address   `json:"address,omitempty"`
	ReferenceNumber        string     `json:"referenceNumber" validate:"max=50"`
	OpportunityStage       string     `json:"opportunityStage" validate:"omitempty,oneof=lead qualified proposal negotiation closed-won closed-lost"`
	DealValue              float64    `json:"dealValue" validate:"gte=0"`
	Probability            int        `json:"probability" validate:"gte=0,lte=100"`
	ExpectedCloseDate      *time.Time `json:"expectedCloseDate,omitempty"`
	NextFollowUpDate       *time.Time `json:"nextFollowUpDate,omitempty"`
	LeadSource             string     `json:"leadSource" validate:"omitempty,oneof=Website Referral 'Cold Call' 'Email Campaign' 'Social Media' 'Trade Show' Partner Other"`
	PreferredContactMethod string     `json:"preferredContactMethod" validate:"omitempty,oneof=Email Phone In-Person 'Video Call'"`
	Notes                  string     `json:"notes" validate:"max=5000"`
}

// UpdateClientRequest contains data for a partial client update.
type UpdateClientRequest struct {
	FirstName              *string       `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName               *string       `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Email                  *string       `json:"email,omitempty" validate:"omitempty,email"`
	Phone                  *string       `json:"phone,omitempty" validate:"omitempty,min=1,max=40"`
	JobTitle               *string       `json:"jobTitle,omitempty" validate:"omitempty,max=100"`
	Company                *string       `json:"company,omitempty" validate:"omitempty,min=1,max=200"`
	Industry               *string       `json:"industry,omitempty" validate:"omitempty,oneof=Technology Healthcare Finance Retail Manufacturing Education 'Real Estate' Other"`
	CompanySize            *string       `json:"companySize,omitempty" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 501-1000 1000+"`
	Website                *string       `json:"website,omitempty" validate:"omitempty,max=300"`
	Address                *AddressPatch `json:"address,omitempty"`
	ReferenceNumber        *string       `json:"referenceNumber,omitempty" validate:"omitempty,max=50"`
	OpportunityStage       *string       `json:"opportunityStage,omitempty" validate:"omitempty,oneof=lead qualified proposal negotiation closed-won closed-lost"`
	DealValue              *float64      `json:"dealValue,omitempty" validate:"omitempty,gte=0"`
	Probability            *int          `json:"probability,omitempty" validate:"omitempty,gte=0,lte=100"`
	ExpectedCloseDate      *time.Time    `json:"expectedCloseDate,omitempty"`
	ClosedDate             *time.Time    `json:"closedDate,omitempty"`
	NextFollowUpDate       *time.Time    `json:"nextFollowUpDate,omitempty"`
	LeadSource             *string       `json:"leadSource,omitempty" validate:"omitempty,oneof=Website Referral 'Cold Call' 'Email Campaign' 'Social Media' 'Trade Show' Partner Other"`
	PreferredContactMethod *string       `json:"preferredContactMethod,omitempty" validate:"omitempty,oneof=Email Phone In-Person 'Video Call'"`
	Notes                  *string       `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID                     uuid.UUID  `json:"id"`
	AgentID                uuid.UUID  `json:"agentId"`
	FirstName              string     `json:"firstName"`
	LastName               string     `json:"lastName"`
	FullName               string     `json:"fullName"`
	Email                  string     `json:"email"`
	Phone                  string     `json:"phone"`
	JobTitle               string     `json:"jobTitle"`
	Company                string     `json:"company"`
	Industry               string     `json:"industry"`
	CompanySize            string     `json:"companySize"`
	Website                string     `json:"website"`
	Address                Address    `json:"address"`
	ReferenceNumber        string     `json:"referenceNumber"`
	OpportunityStage       string     `json:"opportunityStage"`
	DealValue              float64    `json:"dealValue"`
	Probability            int        `json:"probability"`
	ExpectedCloseDate      *time.Time `json:"expectedCloseDate,omitempty"`
	ClosedDate             *time.Time `json:"closedDate,omitempty"`
	LastContactDate        *time.Time `json:"lastContactDate,omitempty"`
	NextFollowUpDate       *time.Time `json:"nextFollowUpDate,omitempty"`
	LeadSource             string     `json:"leadSource"`
	PreferredContactMethod string     `json:"preferredContactMethod"`
	Notes                  string     `json:"notes"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// RecentCallLog is a call shown on the client detail view.
type RecentCallLog struct {
	ID       uuid.UUID `json:"id"`
	CallType string    `json:"callType"`
	Subject  string    `json:"subject"`
	Outcome  string    `json:"outcome"`
	Status   string    `json:"status"`
	Duration int       `json:"duration"`
	CallDate time.Time `json:"callDate"`
	Agent    string    `json:"agent,omitempty"`
}

// ClientDetailResponse is a client together with its latest calls. The
// client fields are flattened next to callLogs.
type ClientDetailResponse struct {
	ClientResponse
	CallLogs []RecentCallLog `json:"callLogs"`
}
