// Package http provides HTTP handlers for team and membership operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/httputil"
	teamDomain "github.com/cosecrets/cosecrets/internal/team/domain"
	"github.com/cosecrets/cosecrets/internal/team/http/dto"
	"github.com/cosecrets/cosecrets/internal/team/usecase"
)

// TeamHandler handles team HTTP requests.
type TeamHandler struct {
	teamUseCase usecase.TeamUseCase
	logger      *slog.Logger
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamUseCase usecase.TeamUseCase, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{
		teamUseCase: teamUseCase,
		logger:      logger,
	}
}

// CreateHandler creates a team owned by the caller.
// POST /api/v1/teams
func (h *TeamHandler) CreateHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	team, err := h.teamUseCase.Create(c.Request.Context(), usecase.CreateTeamInput{
		Name:        req.Name,
		Description: req.Description,
		Actor:       actor,
		Origin:      httputil.RequestOrigin(c),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamResponse(team))
}

// ListHandler lists the caller's teams.
// GET /api/v1/teams
func (h *TeamHandler) ListHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	teams, err := h.teamUseCase.List(c.Request.Context(), actor)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": dto.ToTeamListResponse(teams)})
}

// ListMembersHandler lists a team's members.
// GET /api/v1/teams/:id/members
func (h *TeamHandler) ListMembersHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid team id: %w", err), h.logger)
		return
	}

	members, err := h.teamUseCase.ListMembers(c.Request.Context(), teamID, actor)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToMemberListResponse(members)})
}

// AddMemberHandler adds a user to a team. Owner only.
// POST /api/v1/teams/:id/members
func (h *TeamHandler) AddMemberHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid team id: %w", err), h.logger)
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	member, err := h.teamUseCase.AddMember(c.Request.Context(), usecase.MemberInput{
		TeamID: teamID,
		UserID: req.UserID,
		Role:   teamDomain.Role(req.Role),
		Actor:  actor,
		Origin: httputil.RequestOrigin(c),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

// UpdateMemberHandler changes a member's role. Owner only.
// PUT /api/v1/teams/:id/members/:userId
func (h *TeamHandler) UpdateMemberHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	teamID, userID, ok := h.memberParams(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	err := h.teamUseCase.UpdateMemberRole(c.Request.Context(), usecase.MemberInput{
		TeamID: teamID,
		UserID: userID,
		Role:   teamDomain.Role(req.Role),
		Actor:  actor,
		Origin: httputil.RequestOrigin(c),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "member updated"})
}

// RemoveMemberHandler removes a user from a team. Owner only.
// DELETE /api/v1/teams/:id/members/:userId
func (h *TeamHandler) RemoveMemberHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	teamID, userID, ok := h.memberParams(c)
	if !ok {
		return
	}

	err := h.teamUseCase.RemoveMember(c.Request.Context(), usecase.MemberInput{
		TeamID: teamID,
		UserID: userID,
		Actor:  actor,
		Origin: httputil.RequestOrigin(c),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}

// memberParams parses the team and user ids from the URL.
func (h *TeamHandler) memberParams(c *gin.Context) (teamID, userID uuid.UUID, ok bool) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid team id: %w", err), h.logger)
		return uuid.Nil, uuid.Nil, false
	}
	userID, err = uuid.Parse(c.Param("userId"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid user id: %w", err), h.logger)
		return uuid.Nil, uuid.Nil, false
	}
	return teamID, userID, true
}
