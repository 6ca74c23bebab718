// Package httpapi exposes the assignment engine over HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// Engine is the part of the assignment engine served over HTTP.
type Engine interface {
	AssignRoom(ctx context.Context, req *types.RoomAssignmentRequest) (*types.RoomAssignmentResult, error)
	ManualAssignment(ctx context.Context, req *types.RoomAssignmentRequest, roomNumber, assignedBy, notes string) (*types.RoomAssignmentResult, error)
	ReassignRoom(ctx context.Context, bookingID, newRoomNumber, reason, assignedBy string) (*types.RoomAssignmentResult, error)
	BulkAssignment(ctx context.Context, reqs []*types.RoomAssignmentRequest) *types.BulkResult
	GetAssignment(ctx context.Context, bookingID string) (*types.RoomAssignmentResult, error)
	GetAssignmentHistory(ctx context.Context, bookingID string) ([]*types.RoomAssignmentResult, error)
	GetConfiguration(ctx context.Context, propertyID string) (*types.AssignmentConfig, error)
	UpdateConfiguration(ctx context.Context, cfg *types.AssignmentConfig) error
	GetAnalytics(ctx context.Context, propertyID string, start, end time.Time) (*types.Analytics, error)
	ExportAnalytics(ctx context.Context, propertyID string, start, end time.Time) ([]byte, error)
	PendingManual(propertyID string) []*types.RoomAssignmentRequest
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Server holds the HTTP handlers.
type Server struct {
	engine Engine
	logger types.Logger
}

// New creates a Server.
func New(engine Engine, logger types.Logger) *Server {
	return &Server{engine: engine, logger: logger}
}

// Router builds the gin engine with every route registered.
//
// Routes:
//
//	POST /v1/assignments                          assign automatically
//	POST /v1/assignments/manual                   assign a staff-chosen room
//	POST /v1/assignments/bulk                     assign a batch
//	GET  /v1/assignments/:bookingID               current result
//	GET  /v1/assignments/:bookingID/history       every result version
//	POST /v1/assignments/:bookingID/reassign      move to another room
//	GET  /v1/properties/:propertyID/config        property config
//	PUT  /v1/properties/:propertyID/config        replace property config
//	GET  /v1/properties/:propertyID/analytics     summary, ?start=&end= (RFC 3339 or date)
//	GET  /v1/properties/:propertyID/analytics.xlsx spreadsheet export
//	GET  /v1/properties/:propertyID/pending       requests waiting for staff
func (s *Server) Router(middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware...)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		assignments := v1.Group("/assignments")
		assignments.POST("", s.assign)
		assignments.POST("/manual", s.manual)
		assignments.POST("/bulk", s.bulk)
		assignments.GET("/:bookingID", s.getAssignment)
		assignments.GET("/:bookingID/history", s.history)
		assignments.POST("/:bookingID/reassign", s.reassign)

		properties := v1.Group("/properties/:propertyID")
		properties.GET("/config", s.getConfig)
		properties.PUT("/config", s.putConfig)
		properties.GET("/analytics", s.analytics)
		properties.GET("/analytics.xlsx", s.exportAnalytics)
		properties.GET("/pending", s.pending)
	}

	return r
}

type manualRequest struct {
	Request    types.RoomAssignmentRequest `json:"request"`
	RoomNumber string                      `json:"roomNumber" binding:"required"`
	AssignedBy string                      `json:"assignedBy" binding:"required"`
	Notes      string                      `json:"notes"`
}

type reassignRequest struct {
	RoomNumber string `json:"roomNumber" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
	AssignedBy string `json:"assignedBy"`
}

type bulkResponse struct {
	Assigned []*types.RoomAssignmentResult `json:"assigned"`
	Failed   map[string]string             `json:"failed"`
}

func (s *Server) assign(c *gin.Context) {
	var req types.RoomAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	res, err := s.engine.AssignRoom(c.Request.Context(), &req)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) manual(c *gin.Context) {
	var body manualRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, err)
		return
	}

	res, err := s.engine.ManualAssignment(c.Request.Context(), &body.Request, body.RoomNumber, body.AssignedBy, body.Notes)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) bulk(c *gin.Context) {
	var reqs []*types.RoomAssignmentRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		s.badRequest(c, err)
		return
	}

	out := s.engine.BulkAssignment(c.Request.Context(), reqs)
	resp := bulkResponse{Assigned: out.Assigned, Failed: make(map[string]string, len(out.Failed))}
	for id, err := range out.Failed {
		resp.Failed[id] = err.Error()
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) getAssignment(c *gin.Context) {
	res, err := s.engine.GetAssignment(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) history(c *gin.Context) {
	history, err := s.engine.GetAssignmentHistory(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(history) == 0 {
		s.fail(c, types.ErrAssignmentNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (s *Server) reassign(c *gin.Context) {
	var body reassignRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, err)
		return
	}

	res, err := s.engine.ReassignRoom(c.Request.Context(), c.Param("bookingID"), body.RoomNumber, body.Reason, body.AssignedBy)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) getConfig(c *gin.Context) {
	cfg, err := s.engine.GetConfiguration(c.Request.Context(), c.Param("propertyID"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

func (s *Server) putConfig(c *gin.Context) {
	var cfg types.AssignmentConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		s.badRequest(c, err)
		return
	}
	if cfg.PropertyID == "" {
		cfg.PropertyID = c.Param("propertyID")
	}
	if cfg.PropertyID != c.Param("propertyID") {
		s.badRequest(c, fmt.Errorf("property ID %q does not match path", cfg.PropertyID))
		return
	}

	if err := s.engine.UpdateConfiguration(c.Request.Context(), &cfg); err != nil {
		s.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) analytics(c *gin.Context) {
	start, end, err := period(c)
	if err != nil {
		s.badRequest(c, err)
		return
	}

	a, err := s.engine.GetAnalytics(c.Request.Context(), c.Param("propertyID"), start, end)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

func (s *Server) exportAnalytics(c *gin.Context) {
	start, end, err := period(c)
	if err != nil {
		s.badRequest(c, err)
		return
	}

	propertyID := c.Param("propertyID")
	data, err := s.engine.ExportAnalytics(c.Request.Context(), propertyID, start, end)
	if err != nil {
		s.fail(c, err)
		return
	}

	filename := fmt.Sprintf("assignments-%s-%s.xlsx", propertyID, start.Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (s *Server) pending(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pending": s.engine.PendingManual(c.Param("propertyID"))})
}

// period reads start and end from the query. End defaults to now and start to 30 days
// before end.
func period(c *gin.Context) (time.Time, time.Time, error) {
	end := time.Now().UTC()
	if v := c.Query("end"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
		}
		end = t
	}

	start := end.AddDate(0, 0, -30)
	if v := c.Query("start"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
		}
		start = t
	}

	return start, end, nil
}

func parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}

	return time.Parse(time.DateOnly, v)
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_request"})
}

// fail writes the status and code for an engine error.
func (s *Server) fail(c *gin.Context, err error) {
	status, code := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}

	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

// StatusFor maps an engine error to an HTTP status and a stable error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrInvalidRequest), errors.Is(err, types.ErrInvalidConfig):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, types.ErrOverrideNotPermitted):
		return http.StatusForbidden, "override_not_permitted"
	case errors.Is(err, types.ErrAssignmentNotFound):
		return http.StatusNotFound, "assignment_not_found"
	case errors.Is(err, types.ErrRoomNotAvailable):
		return http.StatusConflict, "room_not_available"
	case errors.Is(err, types.ErrInvalidReassignment):
		return http.StatusConflict, "invalid_reassignment"
	case errors.Is(err, types.ErrManualAssignmentRequired):
		return http.StatusAccepted, "manual_assignment_required"
	case errors.Is(err, types.ErrAssignmentQueued):
		return http.StatusAccepted, "assignment_queued"
	case errors.Is(err, types.ErrNoRoomsAvailable):
		return http.StatusUnprocessableEntity, "no_rooms_available"
	case errors.Is(err, types.ErrConfigurationUnavailable):
		return http.StatusUnprocessableEntity, "configuration_unavailable"
	case errors.Is(err, types.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, "provider_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
