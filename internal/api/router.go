// Package api exposes the front desk over a JSON HTTP API.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"hotel-checkin/internal/checkin"
	"hotel-checkin/internal/handler"
	"hotel-checkin/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type listResponse struct {
	CheckIns []models.CheckIn `json:"checkIns"`

	// Incomplete is set when some or all records could not be read
	Incomplete bool `json:"incomplete,omitempty"`
}

type server struct {
	desk    *handler.CheckInHandler
	service *checkin.Service
}

// NewRouter builds the gin engine
func NewRouter(desk *handler.CheckInHandler, service *checkin.Service, log zerolog.Logger) *gin.Engine {
	s := &server{desk: desk, service: service}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/checkins", s.createCheckIn)
	api.GET("/checkins", s.listCheckIns)

	return r
}

func (s *server) createCheckIn(c *gin.Context) {
	var fields models.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	checkIn, err := s.desk.Submit(c.Request.Context(), fields)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, checkIn)
	case errors.Is(err, handler.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "check-in could not be saved"})
	}
}

func (s *server) listCheckIns(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		checkIns []models.CheckIn
		err      error
	)
	if date := c.Query("date"); date != "" {
		checkIns, err = s.service.GetCheckInsByDate(ctx, date)
		if errors.Is(err, checkin.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		checkin.SortRecent(checkIns)
	} else {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, perr := strconv.Atoi(raw)
			if perr != nil || n < 0 {
				c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
				return
			}
			limit = n
		}
		checkIns, err = s.service.RecentCheckIns(ctx, limit)
	}

	c.JSON(http.StatusOK, listResponse{CheckIns: checkIns, Incomplete: err != nil})
}
