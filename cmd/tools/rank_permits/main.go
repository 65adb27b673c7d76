package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/namc/permit-scout/internal/ai"
	"github.com/namc/permit-scout/internal/analysis"
	"github.com/namc/permit-scout/internal/config"
	"github.com/namc/permit-scout/internal/models"
	"github.com/namc/permit-scout/internal/permits"
)

func main() {
	city := flag.String("city", "Oakland", "City to search")
	state := flag.String("state", "", "State (defaults to configured region)")
	permitType := flag.String("type", "", "Permit type filter")
	specialties := flag.String("specialties", "", "Comma-separated contractor specialties")
	serviceAreas := flag.String("service-areas", "", "Comma-separated service areas")
	limit := flag.Int("limit", 10, "Max permits to fetch and rank")
	timeoutMin := flag.Int("timeout-min", 10, "Overall timeout in minutes")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	permitClient, err := permits.NewClient(cfg.PermitsAPIKey, cfg.PermitsURL)
	if err != nil {
		log.Fatalf("Failed to initialize permit source: %v", err)
	}
	aiClient, err := ai.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicURL, cfg.Model)
	if err != nil {
		log.Fatalf("Failed to initialize reasoning client: %v", err)
	}

	svc := analysis.NewService(permitClient, aiClient, cfg.Region)

	var profile *models.ContractorProfile
	if *specialties != "" || *serviceAreas != "" {
		profile = &models.ContractorProfile{
			Specialties:  splitCSV(*specialties),
			ServiceAreas: splitCSV(*serviceAreas),
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeoutMin)*time.Minute)
	defer cancel()

	found, err := svc.SearchPermits(ctx, analysis.SearchParams{
		City:       *city,
		State:      *state,
		PermitType: *permitType,
		Limit:      *limit,
	})
	if err != nil {
		log.Fatalf("Permit search failed: %v", err)
	}
	if len(found) == 0 {
		fmt.Printf("No permits found for %s\n", *city)
		return
	}

	log.Printf("Ranking %d permits (one analysis per second)...", len(found))
	ranked, err := svc.RankOpportunities(ctx, found, profile)
	if err != nil {
		log.Fatalf("Ranking failed: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Permit", "Score", "Complexity", "Competition", "Timeline (days)", "Top Recommendation"})
	for i, r := range ranked {
		recommendation := ""
		if len(r.Analysis.Recommendations) > 0 {
			recommendation = r.Analysis.Recommendations[0]
		}
		t.AppendRow(table.Row{
			i + 1,
			r.PermitNumber,
			fmt.Sprintf("%.2f", r.Score),
			r.Analysis.ProjectComplexity,
			r.Analysis.CompetitionLevel,
			r.Analysis.TimelineEstimateDays,
			recommendation,
		})
	}
	t.Render()
}

func splitCSV(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
