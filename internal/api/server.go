package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/namc/permit-scout/internal/ai"
	"github.com/namc/permit-scout/internal/analysis"
	"github.com/namc/permit-scout/internal/models"
	"github.com/namc/permit-scout/internal/permits"
)

// Pipeline is the slice of the analysis service the HTTP layer depends on.
// Handlers are tested against a fake implementation.
type Pipeline interface {
	SearchPermits(ctx context.Context, params analysis.SearchParams) ([]models.Permit, error)
	SearchPermitsWithAnalysis(ctx context.Context, params analysis.SearchParams, profile *models.ContractorProfile) ([]models.EnrichedPermit, error)
	AnalyzePermit(ctx context.Context, permitID string, profile *models.ContractorProfile) (models.EnrichedPermit, error)
	EstimatePermitCost(ctx context.Context, permit models.Permit, profile *models.ContractorProfile) (*models.CostEstimate, error)
	MatchProfile(ctx context.Context, permit models.Permit, profile *models.ContractorProfile) (*models.ProfileMatch, error)
	FindOpportunities(ctx context.Context, memberID string, profile *models.ContractorProfile, prefs analysis.Preferences) ([]models.EnrichedPermit, error)
	GetMarketIntelligence(ctx context.Context, city, state string) (models.MarketIntelligence, error)
	RankOpportunities(ctx context.Context, list []models.Permit, profile *models.ContractorProfile) ([]analysis.RankedOpportunity, error)
}

// Chatter is the free-form assistant contract.
type Chatter interface {
	Chat(ctx context.Context, message string, history []ai.Message) (string, error)
}

type Server struct {
	Echo     *echo.Echo
	pipeline Pipeline
	chatter  Chatter
}

func NewServer(pipeline Pipeline, chatter Chatter, corsOrigins []string) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := []string{"http://localhost:3000"}
	allowedOrigins = append(allowedOrigins, corsOrigins...)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s := &Server{
		Echo:     e,
		pipeline: pipeline,
		chatter:  chatter,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")
	api.GET("/permits", s.handleSearchPermits)
	api.POST("/permits/:id/analysis", s.handleAnalyzePermit)
	api.POST("/permits/cost-estimate", s.handleCostEstimate)
	api.POST("/permits/match", s.handleMatchProfile)
	api.POST("/permits/rank", s.handleRankPermits)
	api.POST("/opportunities", s.handleFindOpportunities)
	api.GET("/market-intelligence", s.handleMarketIntelligence)
	api.POST("/chat", s.handleChat)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleSearchPermits(c echo.Context) error {
	params := analysis.SearchParams{
		City:       c.QueryParam("city"),
		State:      c.QueryParam("state"),
		PermitType: c.QueryParam("permit_type"),
		Status:     models.PermitStatus(c.QueryParam("status")),
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 100 {
		params.Limit = v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("min_valuation"), 64); err == nil {
		params.MinValuation = &v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("max_valuation"), 64); err == nil {
		params.MaxValuation = &v
	}
	if v, err := time.Parse("2006-01-02", c.QueryParam("issued_after")); err == nil {
		params.IssuedAfter = v
	}
	if v, err := time.Parse("2006-01-02", c.QueryParam("issued_before")); err == nil {
		params.IssuedBefore = v
	}

	includeAnalysis := strings.EqualFold(c.QueryParam("include_analysis"), "true")
	ctx := c.Request().Context()

	if includeAnalysis {
		enriched, err := s.pipeline.SearchPermitsWithAnalysis(ctx, params, nil)
		if err != nil {
			c.Logger().Errorf("Permit search with analysis failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "permit search failed"})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"permits": enriched, "count": len(enriched)})
	}

	found, err := s.pipeline.SearchPermits(ctx, params)
	if err != nil {
		c.Logger().Errorf("Permit search failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "permit search failed"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"permits": found, "count": len(found)})
}

type profileRequest struct {
	Profile *models.ContractorProfile `json:"profile"`
}

func (s *Server) handleAnalyzePermit(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	enriched, err := s.pipeline.AnalyzePermit(c.Request().Context(), c.Param("id"), req.Profile)
	if err != nil {
		if errors.Is(err, permits.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "permit not found"})
		}
		c.Logger().Errorf("Permit analysis failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "analysis assistant unavailable"})
	}
	return c.JSON(http.StatusOK, enriched)
}

type permitRequest struct {
	Permit  models.Permit             `json:"permit"`
	Profile *models.ContractorProfile `json:"profile"`
}

func (s *Server) handleCostEstimate(c echo.Context) error {
	var req permitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	estimate, err := s.pipeline.EstimatePermitCost(c.Request().Context(), req.Permit, req.Profile)
	if err != nil {
		c.Logger().Errorf("Cost estimate failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "analysis assistant unavailable"})
	}
	return c.JSON(http.StatusOK, estimate)
}

func (s *Server) handleMatchProfile(c echo.Context) error {
	var req permitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Profile == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "profile is required"})
	}

	match, err := s.pipeline.MatchProfile(c.Request().Context(), req.Permit, req.Profile)
	if err != nil {
		c.Logger().Errorf("Profile match failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "analysis assistant unavailable"})
	}
	return c.JSON(http.StatusOK, match)
}

type rankRequest struct {
	Permits []models.Permit           `json:"permits"`
	Profile *models.ContractorProfile `json:"profile"`
}

func (s *Server) handleRankPermits(c echo.Context) error {
	var req rankRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	ranked, err := s.pipeline.RankOpportunities(c.Request().Context(), req.Permits, req.Profile)
	if err != nil {
		c.Logger().Errorf("Ranking failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "ranking failed"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"report_id": uuid.New().String(),
		"ranked":    ranked,
	})
}

type opportunitiesRequest struct {
	MemberID    string                    `json:"member_id"`
	Profile     *models.ContractorProfile `json:"profile"`
	Preferences analysis.Preferences      `json:"preferences"`
}

func (s *Server) handleFindOpportunities(c echo.Context) error {
	var req opportunitiesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Profile == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "profile is required"})
	}

	found, err := s.pipeline.FindOpportunities(c.Request().Context(), req.MemberID, req.Profile, req.Preferences)
	if err != nil {
		c.Logger().Errorf("Opportunity scan failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "opportunity scan failed"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"report_id":     uuid.New().String(),
		"opportunities": found,
		"count":         len(found),
	})
}

func (s *Server) handleMarketIntelligence(c echo.Context) error {
	city := c.QueryParam("city")
	if city == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "city param required"})
	}

	intel, err := s.pipeline.GetMarketIntelligence(c.Request().Context(), city, c.QueryParam("state"))
	if err != nil {
		c.Logger().Errorf("Market intelligence failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "market intelligence failed"})
	}
	return c.JSON(http.StatusOK, intel)
}

type chatRequest struct {
	Message string       `json:"message"`
	History []ai.Message `json:"history"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	reply, err := s.chatter.Chat(c.Request().Context(), req.Message, req.History)
	if err != nil {
		c.Logger().Errorf("Chat failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "analysis assistant unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}
