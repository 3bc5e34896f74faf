package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mtakagi/discussion-board-api/internal/dto"
	apierrors "github.com/mtakagi/discussion-board-api/internal/errors"
	"github.com/mtakagi/discussion-board-api/internal/middleware"
	"github.com/mtakagi/discussion-board-api/internal/models"
	"github.com/mtakagi/discussion-board-api/internal/services"
)

// TopicHandler coordinates topic and membership HTTP handlers.
type TopicHandler struct {
	topicService *services.TopicService
}

// NewTopicHandler creates a new TopicHandler.
func NewTopicHandler(topicService *services.TopicService) *TopicHandler {
	return &TopicHandler{
		topicService: topicService,
	}
}

// CreateTopic creates a topic; the creator becomes its owner.
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTopicRequest struct {
		Name        string `json:"name" binding:"required,min=1,max=200"`
		Description string `json:"description"`
	}

	var req CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	summary, err := h.topicService.CreateTopic(actor, services.CreateTopicInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondTopicError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTopicDTO(*summary))
}

// ListTopics returns topics, searchable and optionally restricted to the
// actor's memberships.
func (h *TopicHandler) ListTopics(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	mineOnly := c.Query("my_topics") == "true"

	summaries, err := h.topicService.ListTopics(actor, c.Query("search"), mineOnly)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch topics")
		return
	}

	c.JSON(http.StatusOK, dto.ToTopicDTOs(summaries))
}

// GetTopic returns topic details with members.
func (h *TopicHandler) GetTopic(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	topic, summary, err := h.topicService.GetTopic(actor, topicID)
	if err != nil {
		respondTopicError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTopicDetailDTO(*topic, *summary))
}

// UpdateTopic updates topic name/description.
func (h *TopicHandler) UpdateTopic(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTopicRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	var req UpdateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	summary, err := h.topicService.UpdateTopic(actor, topicID, services.UpdateTopicInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondTopicError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTopicDTO(*summary))
}

// DeleteTopic removes a topic with its memberships and tasks.
func (h *TopicHandler) DeleteTopic(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.topicService.DeleteTopic(actor, topicID); err != nil {
		respondTopicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Topic deleted successfully",
	})
}

// Subscribe enrolls the actor as a member of the topic.
func (h *TopicHandler) Subscribe(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := h.topicService.Subscribe(actor, topicID)
	if err != nil {
		respondTopicError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTopicMemberDTO(*member))
}

// Unsubscribe removes the actor's own membership.
func (h *TopicHandler) Unsubscribe(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.topicService.Unsubscribe(actor, topicID); err != nil {
		respondTopicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Unsubscribed successfully",
	})
}

// AddMember adds a user to the topic or updates their role in place.
func (h *TopicHandler) AddMember(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AddMemberRequest struct {
		UserID uint64           `json:"user_id" binding:"required"`
		Role   models.TopicRole `json:"role" binding:"omitempty,oneof=admin member"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.Role == models.RoleNone {
		req.Role = models.RoleMember
	}

	member, err := h.topicService.AddMember(actor, topicID, req.UserID, req.Role)
	if err != nil {
		respondTopicError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTopicMemberDTO(*member))
}

// RemoveMember removes a member from the topic.
func (h *TopicHandler) RemoveMember(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.topicService.RemoveMember(actor, topicID, userID); err != nil {
		respondTopicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

func respondTopicError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTopicNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTopicForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotMember),
		errors.Is(err, services.ErrInvalidTopicName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrOwnerCannotLeave),
		errors.Is(err, services.ErrCannotRemoveOwner),
		errors.Is(err, services.ErrCannotChangeOwnerRole):
		apierrors.InvalidState(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
