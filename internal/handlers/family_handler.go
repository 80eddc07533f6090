package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/services"
)

// FamilyHandler handles family group requests.
type FamilyHandler struct {
	familyService services.FamilyServicer
}

// NewFamilyHandler creates a new FamilyHandler.
func NewFamilyHandler(familyService services.FamilyServicer) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

// CreateFamilyRequest represents the payload for creating a family.
type CreateFamilyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// JoinFamilyRequest carries the invite code being redeemed.
type JoinFamilyRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// CreateFamily creates a family with the caller as its first member.
// @Summary     Create a family
// @Description Create a family group; the caller becomes its first member
// @Tags        families
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateFamilyRequest true "Family details"
// @Success     201 {object} models.Family "Family created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /families [post]
func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	family, err := h.familyService.Create(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"family": family})
}

// JoinFamily moves the caller into the family matching the invite code.
// @Summary     Join a family
// @Description Join the family matching the invite code
// @Tags        families
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body JoinFamilyRequest true "Invite code"
// @Success     200 {object} models.Family "Family joined"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No family matches this invite code"
// @Router      /families/join [post]
func (h *FamilyHandler) JoinFamily(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req JoinFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	family, err := h.familyService.Join(userID, req.InviteCode)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"family": family})
}

// LeaveFamily detaches the caller from their family.
// @Summary     Leave the family
// @Description Detach the caller from their family group
// @Tags        families
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Family left"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /families/leave [post]
func (h *FamilyHandler) LeaveFamily(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.familyService.Leave(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "family left"})
}

// GetFamily returns the caller's family, or null without one.
// @Summary     Get my family
// @Description Get the caller's family with its members
// @Tags        families
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Family "Family, or null"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /families/me [get]
func (h *FamilyHandler) GetFamily(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	family := h.familyService.Get(userID)
	if family == nil {
		c.JSON(http.StatusOK, gin.H{"family": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"family": family})
}

// GetFamilyMembers lists the caller's family members.
// @Summary     List family members
// @Description Minimal member projections for the caller's family
// @Tags        families
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]services.OwnerView "Members"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /families/members [get]
func (h *FamilyHandler) GetFamilyMembers(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": h.familyService.Members(userID)})
}
