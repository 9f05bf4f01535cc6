package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/engramhq/engram/internal/engine"
)

// healthHandler reports liveness only — no store access, so it answers
// even if the database file is locked by a long consolidation cycle.
func (s *Server) healthHandler(c *gin.Context) {
	SuccessResponse(c, "ok", gin.H{"status": "healthy"})
}

// statsHandler returns store and provider aggregates (spec §4.8 stats).
func (s *Server) statsHandler(c *gin.Context) {
	stats, err := s.engine.Stats(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "stats retrieved", stats)
}

// getMemory returns a single memory by id, recording an access (the same
// side effect any other read of a memory has).
func (s *Server) getMemory(c *gin.Context) {
	id := c.Param("id")
	m, err := s.engine.Store().Get(id)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	if m == nil {
		NotFoundErrorWithID(c, id)
		return
	}
	SuccessResponse(c, "memory retrieved", m)
}

// recallRequest is the JSON body for POST /recall.
type recallRequest struct {
	Query         string   `json:"query" binding:"required"`
	K             int      `json:"k"`
	Context       []string `json:"context"`
	Kinds         []string `json:"kinds"`
	MinConfidence float64  `json:"min_confidence"`
	GraphExpand   bool     `json:"graph_expand"`
}

// recallHandler runs the recall pipeline (spec §4.5, §4.8).
func (s *Server) recallHandler(c *gin.Context) {
	var req recallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequestError(c, err.Error())
		return
	}

	query := validateQuery(req.Query)
	limit := clampLimit(req.K)

	results, err := s.engine.Recall(c.Request.Context(), engine.RecallInput{
		Query:         query,
		K:             limit,
		Context:       req.Context,
		Kinds:         validateTags(req.Kinds),
		MinConfidence: req.MinConfidence,
		GraphExpand:   req.GraphExpand,
	})
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "recall complete", results)
}

// exportRequest is the JSON body for POST /export.
type exportRequest struct {
	Path string `json:"path" binding:"required"`
}

// exportHandler writes a self-contained store snapshot to disk.
func (s *Server) exportHandler(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequestError(c, err.Error())
		return
	}
	if err := s.engine.Export(req.Path); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	SuccessResponse(c, "export complete", gin.H{"path": req.Path})
}
