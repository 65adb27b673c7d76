package analysis

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/namc/permit-scout/internal/models"
	"github.com/namc/permit-scout/internal/permits"
)

const (
	defaultRegion = "CA"
	defaultLimit  = 50

	// Hard cap on per-search LLM enrichment, to bound spend.
	maxAIAnalyses = 10

	// Candidate cities considered per opportunity scan.
	maxCities = 3

	analysisInterval = 1 * time.Second
	cityInterval     = 2 * time.Second
)

// PermitSource is the adapter contract for the external permit API.
type PermitSource interface {
	Search(ctx context.Context, f permits.SearchFilters) ([]models.Permit, error)
	GetByID(ctx context.Context, id string) (models.Permit, error)
}

// Analyzer is the reasoning-client contract for the three prompt templates.
type Analyzer interface {
	AnalyzePermit(ctx context.Context, p models.Permit, profile *models.ContractorProfile) (*models.OpportunityAnalysis, error)
	EstimateCost(ctx context.Context, p models.Permit, profile *models.ContractorProfile) (*models.CostEstimate, error)
	MatchProfile(ctx context.Context, p models.Permit, profile *models.ContractorProfile) (*models.ProfileMatch, error)
}

// Service orchestrates the opportunity analysis pipeline. Stateless across
// invocations; every call re-derives its results.
type Service struct {
	source   PermitSource
	analyzer Analyzer
	region   string

	analysisPacer *pacer
	cityPacer     *pacer
	now           func() time.Time
}

func NewService(source PermitSource, analyzer Analyzer, region string) *Service {
	if region == "" {
		region = defaultRegion
	}
	return &Service{
		source:        source,
		analyzer:      analyzer,
		region:        region,
		analysisPacer: newPacer(analysisInterval),
		cityPacer:     newPacer(cityInterval),
		now:           time.Now,
	}
}

// SearchParams are the caller-facing search criteria. Valuation bounds are
// applied locally after the upstream fetch; the permit source does not
// support them.
type SearchParams struct {
	City         string
	State        string
	PermitType   string
	Status       models.PermitStatus
	IssuedAfter  time.Time
	IssuedBefore time.Time
	MinValuation *float64
	MaxValuation *float64
	Limit        int
}

// SearchPermits fetches raw candidates and applies local valuation filtering.
// Input order is preserved.
func (s *Service) SearchPermits(ctx context.Context, params SearchParams) ([]models.Permit, error) {
	state := params.State
	if state == "" {
		state = s.region
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	found, err := s.source.Search(ctx, permits.SearchFilters{
		City:         params.City,
		State:        state,
		PermitType:   params.PermitType,
		Status:       params.Status,
		IssuedAfter:  params.IssuedAfter,
		IssuedBefore: params.IssuedBefore,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}

	return filterByValuation(found, params.MinValuation, params.MaxValuation), nil
}

// SearchPermitsWithAnalysis is the batch enrichment path: at most the first
// maxAIAnalyses filtered permits are analyzed, sequentially, with a fixed
// delay between reasoning calls. A permit whose analysis fails is NOT
// dropped; it carries a labeled fallback analysis instead, so partial LLM
// failures never lose data for the caller.
func (s *Service) SearchPermitsWithAnalysis(ctx context.Context, params SearchParams, profile *models.ContractorProfile) ([]models.EnrichedPermit, error) {
	found, err := s.SearchPermits(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(found) > maxAIAnalyses {
		found = found[:maxAIAnalyses]
	}

	enriched := make([]models.EnrichedPermit, 0, len(found))
	for i, permit := range found {
		if i > 0 {
			if err := s.analysisPacer.wait(ctx); err != nil {
				return nil, err
			}
		}

		analysis, err := s.analyzer.AnalyzePermit(ctx, permit, profile)
		if err != nil {
			log.Printf("analysis failed for permit %s, substituting fallback: %v", permit.PermitNumber, err)
			fallback := fallbackAnalysis()
			analysis = &fallback
		}
		enriched = append(enriched, models.EnrichedPermit{
			Permit:       permit,
			Analysis:     *analysis,
			AnalysisDate: s.now(),
		})
	}
	return enriched, nil
}

// AnalyzePermit is the single-item path: fetch by id, then one enrichment.
// permits.ErrNotFound passes through, and a reasoning failure propagates
// uncaught. Only the batch path degrades.
func (s *Service) AnalyzePermit(ctx context.Context, permitID string, profile *models.ContractorProfile) (models.EnrichedPermit, error) {
	permit, err := s.source.GetByID(ctx, permitID)
	if err != nil {
		return models.EnrichedPermit{}, err
	}

	analysis, err := s.analyzer.AnalyzePermit(ctx, permit, profile)
	if err != nil {
		return models.EnrichedPermit{}, err
	}

	return models.EnrichedPermit{
		Permit:       permit,
		Analysis:     *analysis,
		AnalysisDate: s.now(),
	}, nil
}

// EstimatePermitCost runs the cost-estimation prompt for one permit. No
// fallback; errors propagate.
func (s *Service) EstimatePermitCost(ctx context.Context, permit models.Permit, profile *models.ContractorProfile) (*models.CostEstimate, error) {
	return s.analyzer.EstimateCost(ctx, permit, profile)
}

// MatchProfile runs the profile-match prompt for one permit.
func (s *Service) MatchProfile(ctx context.Context, permit models.Permit, profile *models.ContractorProfile) (*models.ProfileMatch, error) {
	return s.analyzer.MatchProfile(ctx, permit, profile)
}

// Preferences guide an opportunity scan for a member.
type Preferences struct {
	Cities         []string
	ExcludedCities []string
	PreferredTypes []string
	ExcludedTypes  []string
	MinMatchScore  float64
}

// FindOpportunities scans a bounded set of candidate cities with AI analysis
// enabled and filters the enriched results by the member's preferences. The
// final result is the concatenation across cities, stable-sorted by
// opportunity score descending.
func (s *Service) FindOpportunities(ctx context.Context, memberID string, profile *models.ContractorProfile, prefs Preferences) ([]models.EnrichedPermit, error) {
	cities := prefs.Cities
	if len(cities) == 0 {
		cities = defaultCities(s.region)
	}
	if len(cities) > maxCities {
		cities = cities[:maxCities]
	}

	var results []models.EnrichedPermit
	searched := 0
	for _, city := range cities {
		if containsFold(prefs.ExcludedCities, city) {
			continue
		}
		if searched > 0 {
			if err := s.cityPacer.wait(ctx); err != nil {
				return nil, err
			}
		}
		searched++

		enriched, err := s.SearchPermitsWithAnalysis(ctx, SearchParams{City: city}, profile)
		if err != nil {
			return nil, err
		}

		for _, ep := range enriched {
			if !matchesPreferences(ep, prefs) {
				continue
			}
			results = append(results, ep)
		}
	}

	log.Printf("opportunity scan for member %s: %d cities searched, %d matches", memberID, searched, len(results))

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Analysis.OpportunityScore > results[j].Analysis.OpportunityScore
	})
	return results, nil
}

func matchesPreferences(ep models.EnrichedPermit, prefs Preferences) bool {
	if ep.Analysis.OpportunityScore < prefs.MinMatchScore {
		return false
	}

	permitType := strings.ToLower(ep.Type)
	for _, excluded := range prefs.ExcludedTypes {
		if excluded != "" && strings.Contains(permitType, strings.ToLower(excluded)) {
			return false
		}
	}

	if len(prefs.PreferredTypes) > 0 {
		description := strings.ToLower(ep.Description)
		matched := false
		for _, preferred := range prefs.PreferredTypes {
			p := strings.ToLower(preferred)
			if p == "" {
				continue
			}
			if strings.Contains(permitType, p) || strings.Contains(description, p) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// filterByValuation keeps permits whose valuation lies within the inclusive
// [min, max] bounds. A permit with no valuation is excluded whenever at
// least one bound is supplied.
func filterByValuation(list []models.Permit, min, max *float64) []models.Permit {
	if min == nil && max == nil {
		return list
	}

	filtered := make([]models.Permit, 0, len(list))
	for _, p := range list {
		if p.Valuation == nil {
			continue
		}
		if min != nil && *p.Valuation < *min {
			continue
		}
		if max != nil && *p.Valuation > *max {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// fallbackAnalysis is the labeled placeholder substituted when per-item
// enrichment fails in the batch path.
func fallbackAnalysis() models.OpportunityAnalysis {
	return models.OpportunityAnalysis{
		OpportunityScore:     0.5,
		ComplexityScore:      0.5,
		RiskFactors:          []string{"Analysis unavailable"},
		ProjectComplexity:    models.LevelMedium,
		CompetitionLevel:     models.LevelMedium,
		TimelineEstimateDays: 90,
		Recommendations:      []string{"Manual review recommended"},
	}
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
