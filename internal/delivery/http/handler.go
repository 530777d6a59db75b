package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tripweaver/backend/internal/domain"
)

// Recommender aggregates venue recommendations for one query.
type Recommender interface {
	Aggregate(ctx context.Context, query domain.Query) []domain.Recommendation
}

// TripPlanner builds complete trip plans.
type TripPlanner interface {
	Plan(ctx context.Context, req domain.TripRequest) (*domain.TripPlanResult, error)
}

// ReportWriter renders a plan result to a file and returns its path.
type ReportWriter interface {
	Write(result *domain.TripPlanResult) (string, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	dining      Recommender
	attractions Recommender
	planner     TripPlanner
	reports     ReportWriter
}

// NewHandler creates a new HTTP handler
func NewHandler(dining, attractions Recommender, planner TripPlanner, reports ReportWriter) *Handler {
	return &Handler{
		dining:      dining,
		attractions: attractions,
		planner:     planner,
		reports:     reports,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "tripweaver-backend",
		"version": "1.0.0",
	})
}

type recommendationRequest struct {
	Destination string  `json:"destination" binding:"required"`
	DailyBudget float64 `json:"dailyBudget"`
	Coordinates string  `json:"coordinates"`
	MaxResults  int     `json:"maxResults"`
}

// RecommendDining handles dining recommendation requests
func (h *Handler) RecommendDining(c *gin.Context) {
	h.recommend(c, h.dining)
}

// RecommendAttractions handles attraction recommendation requests
func (h *Handler) RecommendAttractions(c *gin.Context) {
	h.recommend(c, h.attractions)
}

func (h *Handler) recommend(c *gin.Context, rec Recommender) {
	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := domain.Query{
		Destination: req.Destination,
		DailyBudget: req.DailyBudget,
		Coordinates: req.Coordinates,
		MaxResults:  req.MaxResults,
	}

	results := rec.Aggregate(c.Request.Context(), query)
	c.JSON(http.StatusOK, gin.H{
		"destination":     req.Destination,
		"count":           len(results),
		"recommendations": results,
	})
}

type planRequest struct {
	Destination string  `json:"destination" binding:"required"`
	Departure   string  `json:"departure"`
	StartDate   string  `json:"startDate"`
	Days        int     `json:"days" binding:"required"`
	Budget      float64 `json:"budget" binding:"required"`
	WriteReport bool    `json:"writeReport"`
}

// CreatePlan handles trip planning requests
func (h *Handler) CreatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.planner.Plan(c.Request.Context(), domain.TripRequest{
		Destination: req.Destination,
		Departure:   req.Departure,
		StartDate:   req.StartDate,
		Days:        req.Days,
		Budget:      req.Budget,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build trip plan"})
		return
	}

	if req.WriteReport && h.reports != nil {
		path, err := h.reports.Write(result)
		if err != nil {
			// The plan itself succeeded; report failure is not fatal.
			log.Printf("[HTTP] report generation failed: %v", err)
		} else {
			result.ReportPath = path
		}
	}

	c.JSON(http.StatusOK, result)
}
