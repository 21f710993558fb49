package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apierrors "github.com/Sahitha-chunduri/projectflow/internal/errors"
	"github.com/Sahitha-chunduri/projectflow/internal/middleware"
	"github.com/Sahitha-chunduri/projectflow/internal/services"
	"github.com/Sahitha-chunduri/projectflow/internal/utils"
)

// ContactHandler coordinates address-book HTTP handlers.
type ContactHandler struct {
	contactService *services.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// ListContacts returns a page of the caller's active contacts.
func (h *ContactHandler) ListContacts(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "", "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	contacts, total, err := h.contactService.ListContacts(c.Request.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts":   contacts,
		"pagination": utils.NewPaginationResponse(params, total),
	})
}

// CreateContact creates a contact owned by the caller.
func (h *ContactHandler) CreateContact(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "", "Not authenticated")
		return
	}

	type CreateContactRequest struct {
		Name     string   `json:"name" binding:"required"`
		Email    string   `json:"email" binding:"omitempty,email"`
		Phone    string   `json:"phone"`
		Company  string   `json:"company"`
		Position string   `json:"position"`
		Notes    string   `json:"notes"`
		Tags     []string `json:"tags"`
	}

	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), userID, services.ContactInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Company:  req.Company,
		Position: req.Position,
		Notes:    req.Notes,
		Tags:     req.Tags,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// GetContact returns one of the caller's contacts.
func (h *ContactHandler) GetContact(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "", "Not authenticated")
		return
	}

	contactID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid contact ID")
		return
	}

	contact, err := h.contactService.GetContact(c.Request.Context(), userID, contactID)
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// UpdateContact applies a partial update to one of the caller's contacts.
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "", "Not authenticated")
		return
	}

	contactID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid contact ID")
		return
	}

	type UpdateContactRequest struct {
		Name     *string   `json:"name"`
		Email    *string   `json:"email" binding:"omitempty,email"`
		Phone    *string   `json:"phone"`
		Company  *string   `json:"company"`
		Position *string   `json:"position"`
		Notes    *string   `json:"notes"`
		Tags     *[]string `json:"tags"`
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	contact, err := h.contactService.UpdateContact(c.Request.Context(), userID, contactID, services.UpdateContactInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Company:  req.Company,
		Position: req.Position,
		Notes:    req.Notes,
		Tags:     req.Tags,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// DeleteContact soft-deletes one of the caller's contacts.
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "", "Not authenticated")
		return
	}

	contactID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid contact ID")
		return
	}

	if err := h.contactService.DeleteContact(c.Request.Context(), userID, contactID); err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contact deleted successfully",
	})
}

func respondContactError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrContactNameNeeded):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrContactEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrContactNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}
