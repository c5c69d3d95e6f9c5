// Package http provides HTTP handlers for project operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/httputil"
	"github.com/cosecrets/cosecrets/internal/project/http/dto"
	"github.com/cosecrets/cosecrets/internal/project/usecase"
)

// ProjectHandler handles project HTTP requests.
type ProjectHandler struct {
	projectUseCase usecase.ProjectUseCase
	logger         *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectUseCase usecase.ProjectUseCase, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectUseCase: projectUseCase,
		logger:         logger,
	}
}

// CreateHandler creates a project with its default environments.
// POST /api/v1/projects
func (h *ProjectHandler) CreateHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	project, err := h.projectUseCase.Create(c.Request.Context(), usecase.CreateProjectInput{
		TeamID:      req.TeamID,
		Name:        req.Name,
		Description: req.Description,
		Actor:       actor,
		Origin:      httputil.RequestOrigin(c),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// ListHandler lists projects across the caller's teams.
// GET /api/v1/projects?teamId=<uuid>
func (h *ProjectHandler) ListHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	var teamID *uuid.UUID
	if raw := c.Query("teamId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleBadRequestGin(c, fmt.Errorf("invalid teamId parameter: %w", err), h.logger)
			return
		}
		teamID = &parsed
	}

	projects, err := h.projectUseCase.List(c.Request.Context(), actor, teamID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectListResponse(projects)})
}

// DeleteHandler removes a project. Owner only.
// DELETE /api/v1/projects/:id
func (h *ProjectHandler) DeleteHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid project id: %w", err), h.logger)
		return
	}

	err = h.projectUseCase.Delete(c.Request.Context(), usecase.DeleteProjectInput{
		ProjectID: projectID,
		Actor:     actor,
		Origin:    httputil.RequestOrigin(c),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}
