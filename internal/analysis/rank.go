package analysis

import (
	"context"
	"log"
	"sort"

	"github.com/namc/permit-scout/internal/models"
)

// RankedOpportunity is one row of a ranked result.
type RankedOpportunity struct {
	PermitNumber string                     `json:"permit_number"`
	Score        float64                    `json:"score"`
	Analysis     models.OpportunityAnalysis `json:"analysis"`
}

// RankOpportunities enriches each permit sequentially with the same pacing
// discipline as the batch search, then stable-sorts by score descending.
//
// Unlike SearchPermitsWithAnalysis, a permit whose analysis fails is logged
// and omitted rather than given a fallback. The two entry points have
// intentionally different failure policies; see DESIGN.md before changing
// either.
func (s *Service) RankOpportunities(ctx context.Context, list []models.Permit, profile *models.ContractorProfile) ([]RankedOpportunity, error) {
	ranked := make([]RankedOpportunity, 0, len(list))
	for i, permit := range list {
		if i > 0 {
			if err := s.analysisPacer.wait(ctx); err != nil {
				return nil, err
			}
		}

		analysis, err := s.analyzer.AnalyzePermit(ctx, permit, profile)
		if err != nil {
			log.Printf("skipping permit %s in ranking, analysis failed: %v", permit.PermitNumber, err)
			continue
		}

		ranked = append(ranked, RankedOpportunity{
			PermitNumber: permit.PermitNumber,
			Score:        analysis.OpportunityScore,
			Analysis:     *analysis,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}
