package analysis

import (
	"context"
	"sort"

	"github.com/namc/permit-scout/internal/models"
	"github.com/namc/permit-scout/internal/permits"
)

const (
	marketWindowDays  = 90
	marketWindowLabel = "last_90_days"
	topContractorsN   = 10
)

// GetMarketIntelligence reduces the trailing permit window for a city to
// aggregate statistics. No AI enrichment and no further external calls beyond
// the single fetch.
func (s *Service) GetMarketIntelligence(ctx context.Context, city, state string) (models.MarketIntelligence, error) {
	if state == "" {
		state = s.region
	}
	since := s.now().AddDate(0, 0, -marketWindowDays)

	found, err := s.source.Search(ctx, permits.SearchFilters{
		City:        city,
		State:       state,
		IssuedAfter: since,
	})
	if err != nil {
		return models.MarketIntelligence{}, err
	}

	return buildMarketIntelligence(city, state, found), nil
}

func buildMarketIntelligence(city, state string, list []models.Permit) models.MarketIntelligence {
	intel := models.MarketIntelligence{
		City:          city,
		State:         state,
		Window:        marketWindowLabel,
		TypeHistogram: map[string]int{},
	}

	if len(list) == 0 {
		intel.Message = "no permit activity recorded in this window"
		return intel
	}
	intel.DataAvailable = true
	intel.PermitCount = len(list)

	// Encounter order drives all tie-breaking below.
	var typeOrder []string
	var contractorOrder []string
	contractorCounts := map[string]int{}

	for _, p := range list {
		if p.Valuation != nil {
			intel.TotalValuation += *p.Valuation
		}
		if _, seen := intel.TypeHistogram[p.Type]; !seen {
			typeOrder = append(typeOrder, p.Type)
		}
		intel.TypeHistogram[p.Type]++

		if p.Contractor != nil && p.Contractor.Name != "" {
			if _, seen := contractorCounts[p.Contractor.Name]; !seen {
				contractorOrder = append(contractorOrder, p.Contractor.Name)
			}
			contractorCounts[p.Contractor.Name]++
		}
	}

	intel.AverageValuation = intel.TotalValuation / float64(len(list))

	best := 0
	for _, t := range typeOrder {
		if intel.TypeHistogram[t] > best {
			best = intel.TypeHistogram[t]
			intel.MostCommonType = t
		}
	}

	leaderboard := make([]models.ContractorActivity, 0, len(contractorOrder))
	for _, name := range contractorOrder {
		leaderboard = append(leaderboard, models.ContractorActivity{
			Name:        name,
			PermitCount: contractorCounts[name],
		})
	}
	sort.SliceStable(leaderboard, func(i, j int) bool {
		return leaderboard[i].PermitCount > leaderboard[j].PermitCount
	})
	if len(leaderboard) > topContractorsN {
		leaderboard = leaderboard[:topContractorsN]
	}
	intel.TopContractors = leaderboard

	return intel
}
