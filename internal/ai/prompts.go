package ai

import (
	"fmt"
	"strings"

	"github.com/namc/permit-scout/internal/models"
)

func formatPermit(p models.Permit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Permit Number: %s\n", p.PermitNumber)
	fmt.Fprintf(&b, "Type: %s\n", p.Type)
	fmt.Fprintf(&b, "Status: %s\n", p.Status)
	fmt.Fprintf(&b, "Issued: %s\n", p.IssuedAt.Format("2006-01-02"))
	if p.ExpiresAt != nil {
		fmt.Fprintf(&b, "Expires: %s\n", p.ExpiresAt.Format("2006-01-02"))
	}
	if p.Valuation != nil {
		fmt.Fprintf(&b, "Valuation: $%.2f\n", *p.Valuation)
	} else {
		b.WriteString("Valuation: not reported\n")
	}
	fmt.Fprintf(&b, "Location: %s, %s, %s %s\n", p.Address.Street, p.Address.City, p.Address.State, p.Address.Zip)
	if p.Contractor != nil {
		fmt.Fprintf(&b, "Contractor of record: %s (license %s)\n", p.Contractor.Name, p.Contractor.License)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
	}
	return b.String()
}

func formatProfile(profile *models.ContractorProfile) string {
	if profile == nil {
		return "No contractor profile provided.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Specialties: %s\n", strings.Join(profile.Specialties, ", "))
	fmt.Fprintf(&b, "Service areas: %s\n", strings.Join(profile.ServiceAreas, ", "))
	if profile.TeamSize > 0 {
		fmt.Fprintf(&b, "Team size: %d\n", profile.TeamSize)
	}
	if len(profile.Certifications) > 0 {
		fmt.Fprintf(&b, "Certifications: %s\n", strings.Join(profile.Certifications, ", "))
	}
	if len(profile.PastProjects) > 0 {
		fmt.Fprintf(&b, "Past projects: %s\n", strings.Join(profile.PastProjects, "; "))
	}
	return b.String()
}

func buildAnalysisPrompt(p models.Permit, profile *models.ContractorProfile) string {
	return fmt.Sprintf(`You are an expert construction business analyst. Assess the following building permit as a sales opportunity for the contractor described below.

PERMIT:
%s
CONTRACTOR:
%s
Instructions:
1. opportunity_score: 0.0-1.0, how attractive this permit is as a lead for this contractor.
2. complexity_score: 0.0-1.0, technical and regulatory complexity of the work.
3. risk_factors: concrete risks (scheduling, site, regulatory, financial).
4. project_complexity and competition_level: one of "low", "medium", "high".
5. timeline_estimate_days: whole number of days from start to completion.
6. key_requirements: licenses, bonding, trades, or equipment the work demands.
7. recommendations: specific next steps for pursuing this opportunity.
8. cost_range: include only if the permit gives enough signal; low <= high, confidence 0.0-1.0.

Return a JSON object with this format:
{
  "opportunity_score": 0.0,
  "complexity_score": 0.0,
  "risk_factors": ["string"],
  "project_complexity": "low" | "medium" | "high",
  "competition_level": "low" | "medium" | "high",
  "timeline_estimate_days": 0,
  "key_requirements": ["string"],
  "recommendations": ["string"],
  "cost_range": {"low": 0, "high": 0, "confidence": 0.0}
}

Respond ONLY with the JSON object.`, formatPermit(p), formatProfile(profile))
}

func buildCostPrompt(p models.Permit, profile *models.ContractorProfile) string {
	return fmt.Sprintf(`You are an expert construction cost estimator. Estimate the likely cost range for the work described by this building permit.

PERMIT:
%s
CONTRACTOR:
%s
Instructions:
1. low and high: total project cost bounds in USD, low <= high.
2. confidence: 0.0-1.0 based on how specific the permit description is.
3. cost_drivers: the major line items pushing the estimate.
4. notes: one or two sentences of caveats.

Return a JSON object with this format:
{
  "low": 0,
  "high": 0,
  "confidence": 0.0,
  "cost_drivers": ["string"],
  "notes": "string"
}

Respond ONLY with the JSON object.`, formatPermit(p), formatProfile(profile))
}

func buildMatchPrompt(p models.Permit, profile *models.ContractorProfile) string {
	return fmt.Sprintf(`You are an expert construction business advisor. Judge how well the contractor below matches the work described by this building permit.

PERMIT:
%s
CONTRACTOR:
%s
Instructions:
1. match_score: 0.0-1.0, fit between the contractor's capabilities and the work.
2. strengths: where the contractor's profile lines up with the permit.
3. gaps: missing specialties, certifications, or capacity.
4. recommendation: one sentence, pursue / partner / pass and why.

Return a JSON object with this format:
{
  "match_score": 0.0,
  "strengths": ["string"],
  "gaps": ["string"],
  "recommendation": "string"
}

Respond ONLY with the JSON object.`, formatPermit(p), formatProfile(profile))
}
