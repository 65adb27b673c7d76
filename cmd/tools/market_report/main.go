package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/namc/permit-scout/internal/ai"
	"github.com/namc/permit-scout/internal/analysis"
	"github.com/namc/permit-scout/internal/config"
	"github.com/namc/permit-scout/internal/permits"
)

func main() {
	city := flag.String("city", "", "City to report on (required)")
	state := flag.String("state", "", "State (defaults to configured region)")
	flag.Parse()

	if *city == "" {
		fmt.Fprintln(os.Stderr, "usage: market_report -city <city> [-state <state>]")
		os.Exit(2)
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	intel, err := svc.GetMarketIntelligence(ctx, *city, *state)
	if err != nil {
		log.Fatalf("Market intelligence failed: %v", err)
	}

	fmt.Printf("Market report: %s, %s (%s)\n", intel.City, intel.State, intel.Window)
	if !intel.DataAvailable {
		fmt.Println(intel.Message)
		return
	}

	fmt.Printf("Permits: %d  Total valuation: $%.0f  Average: $%.0f  Most common type: %s\n\n",
		intel.PermitCount, intel.TotalValuation, intel.AverageValuation, intel.MostCommonType)

	types := make([]string, 0, len(intel.TypeHistogram))
	for t := range intel.TypeHistogram {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if intel.TypeHistogram[types[i]] != intel.TypeHistogram[types[j]] {
			return intel.TypeHistogram[types[i]] > intel.TypeHistogram[types[j]]
		}
		return types[i] < types[j]
	})

	histogram := table.NewWriter()
	histogram.SetOutputMirror(os.Stdout)
	histogram.AppendHeader(table.Row{"Permit Type", "Count"})
	for _, t := range types {
		histogram.AppendRow(table.Row{t, intel.TypeHistogram[t]})
	}
	histogram.Render()

	if len(intel.TopContractors) > 0 {
		fmt.Println()
		leaderboard := table.NewWriter()
		leaderboard.SetOutputMirror(os.Stdout)
		leaderboard.AppendHeader(table.Row{"Contractor", "Permits"})
		for _, contractor := range intel.TopContractors {
			leaderboard.AppendRow(table.Row{contractor.Name, contractor.PermitCount})
		}
		leaderboard.Render()
	}
}
