package ai

import (
	"context"
	"fmt"

	"github.com/namc/permit-scout/internal/models"
)

// AnalyzePermit runs the permit-analysis prompt and parses the structured
// assessment out of the reply. Single best-effort call; no retries.
func (c *Client) AnalyzePermit(ctx context.Context, p models.Permit, profile *models.ContractorProfile) (*models.OpportunityAnalysis, error) {
	resp, err := c.complete(ctx, buildAnalysisPrompt(p, profile), analysisMaxTokens)
	if err != nil {
		return nil, err
	}

	var analysis models.OpportunityAnalysis
	if err := decodeReply(resp, &analysis); err != nil {
		return nil, fmt.Errorf("permit %s: %w", p.PermitNumber, err)
	}
	if analysis.CostRange != nil && analysis.CostRange.Low > analysis.CostRange.High {
		analysis.CostRange.Low, analysis.CostRange.High = analysis.CostRange.High, analysis.CostRange.Low
	}
	return &analysis, nil
}

// EstimateCost runs the cost-estimation prompt. Errors propagate; there is no
// fallback at this granularity.
func (c *Client) EstimateCost(ctx context.Context, p models.Permit, profile *models.ContractorProfile) (*models.CostEstimate, error) {
	resp, err := c.complete(ctx, buildCostPrompt(p, profile), costMaxTokens)
	if err != nil {
		return nil, err
	}

	var estimate models.CostEstimate
	if err := decodeReply(resp, &estimate); err != nil {
		return nil, fmt.Errorf("permit %s: %w", p.PermitNumber, err)
	}
	if estimate.Low > estimate.High {
		estimate.Low, estimate.High = estimate.High, estimate.Low
	}
	return &estimate, nil
}

// MatchProfile runs the profile-match prompt.
func (c *Client) MatchProfile(ctx context.Context, p models.Permit, profile *models.ContractorProfile) (*models.ProfileMatch, error) {
	resp, err := c.complete(ctx, buildMatchPrompt(p, profile), matchMaxTokens)
	if err != nil {
		return nil, err
	}

	var match models.ProfileMatch
	if err := decodeReply(resp, &match); err != nil {
		return nil, fmt.Errorf("permit %s: %w", p.PermitNumber, err)
	}
	return &match, nil
}
