package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/aquavi/delivery-api/internal/entity"
	"github.com/aquavi/delivery-api/internal/usecase"
)

// ContentHandler covers testimonials and contact messages, the two
// admin-curated content types.
type ContentHandler struct {
	testimonials usecase.TestimonialRepo
	messages     usecase.MessageRepo
}

func NewContentHandler(testimonials usecase.TestimonialRepo, messages usecase.MessageRepo) *ContentHandler {
	return &ContentHandler{testimonials: testimonials, messages: messages}
}

// --- testimonials ---

func (h *ContentHandler) ListActiveTestimonials(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	list, err := h.testimonials.ListActive(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": list})
}

func (h *ContentHandler) ListAllTestimonials(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	list, err := h.testimonials.ListAll(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": list})
}

type testimonialReq struct {
	Name      string `json:"name" binding:"required"`
	Location  string `json:"location"`
	Review    string `json:"review" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	AvatarURL string `json:"avatarUrl"`
	Verified  bool   `json:"verified"`
	Active    *bool  `json:"active"`
}

func (h *ContentHandler) CreateTestimonial(c *gin.Context) {
	var req testimonialReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	t := &domain.Testimonial{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Location:  req.Location,
		Review:    req.Review,
		Rating:    req.Rating,
		AvatarURL: req.AvatarURL,
		Verified:  req.Verified,
		Active:    active,
	}
	if err := t.CheckRating(); err != nil {
		writeError(c, &usecase.ValidationError{Field: "rating", Msg: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.testimonials.Create(ctx, t); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *ContentHandler) UpdateTestimonial(c *gin.Context) {
	var req testimonialReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	t := &domain.Testimonial{
		ID:        c.Param("id"),
		Name:      req.Name,
		Location:  req.Location,
		Review:    req.Review,
		Rating:    req.Rating,
		AvatarURL: req.AvatarURL,
		Verified:  req.Verified,
		Active:    active,
	}
	if err := t.CheckRating(); err != nil {
		writeError(c, &usecase.ValidationError{Field: "rating", Msg: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.testimonials.Update(ctx, t); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *ContentHandler) SetTestimonialActive(c *gin.Context) {
	var req setActiveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.testimonials.SetActive(ctx, c.Param("id"), *req.Active); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContentHandler) DeleteTestimonial(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.testimonials.Delete(ctx, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- contact messages ---

type contactMessageReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// CreateMessage is the public contact form.
func (h *ContentHandler) CreateMessage(c *gin.Context) {
	var req contactMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(c, &usecase.ValidationError{Field: "name", Msg: "name is required"})
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(c, &usecase.ValidationError{Field: "email", Msg: "email is required"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(c, &usecase.ValidationError{Field: "message", Msg: "message is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	m := &domain.ContactMessage{
		ID:     uuid.NewString(),
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Body:   req.Message,
		Status: domain.MessageUnread,
	}
	if err := h.messages.Create(ctx, m); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": m.ID})
}

func (h *ContentHandler) ListMessages(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	list, err := h.messages.List(ctx, domain.MessageStatus(c.Query("status")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}

type messageStatusReq struct {
	Status string `json:"status" binding:"required"`
}

func (h *ContentHandler) UpdateMessageStatus(c *gin.Context) {
	var req messageStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	next := domain.MessageStatus(req.Status)
	if !next.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "unknown status"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	m, err := h.messages.GetByID(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !m.Status.CanTransitionTo(next) {
		writeError(c, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, m.Status, next))
		return
	}
	ok, err := h.messages.UpdateStatusIf(ctx, m.ID, m.Status, next)
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		writeError(c, fmt.Errorf("%w: message %s changed concurrently", domain.ErrInvalidTransition, m.ID))
		return
	}
	m.Status = next
	c.JSON(http.StatusOK, m)
}
