package models

import "time"

// PermitStatus is the lifecycle status reported by the upstream permit source.
type PermitStatus string

const (
	PermitIssued      PermitStatus = "issued"
	PermitPending     PermitStatus = "pending"
	PermitExpired     PermitStatus = "expired"
	PermitRejected    PermitStatus = "rejected"
	PermitUnderReview PermitStatus = "under_review"
)

type Address struct {
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Zip       string   `json:"zip"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// ContractorRef is the contractor-of-record on a permit, when the source has one.
type ContractorRef struct {
	Name    string `json:"name"`
	License string `json:"license,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type OwnerRef struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Permit is a municipal building permit record as returned by the external
// permit source. Read-only from this system's perspective.
type Permit struct {
	ID           string         `json:"id"`
	PermitNumber string         `json:"permit_number"`
	Type         string         `json:"type"`
	Status       PermitStatus   `json:"status"`
	IssuedAt     time.Time      `json:"issued_at"`
	ExpiresAt    *time.Time     `json:"expires_at,omitempty"`
	Valuation    *float64       `json:"valuation,omitempty"`
	Description  string         `json:"description"`
	Address      Address        `json:"address"`
	Contractor   *ContractorRef `json:"contractor,omitempty"`
	Owner        *OwnerRef      `json:"owner,omitempty"`
}

// ContractorProfile describes the contractor an analysis is performed for.
// Supplied by the caller per invocation; never persisted by this pipeline.
type ContractorProfile struct {
	Specialties    []string `json:"specialties"`
	ServiceAreas   []string `json:"service_areas"`
	TeamSize       int      `json:"team_size,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	PastProjects   []string `json:"past_projects,omitempty"`
}
