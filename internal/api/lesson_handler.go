package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"coachpad/coaching-app/internal/domain"
	"coachpad/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LessonHandler holds the lesson scheduling service dependency.
type LessonHandler struct {
	lessonService service.LessonService
}

// NewLessonHandler creates a new LessonHandler.
func NewLessonHandler(lessonService service.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

// --- Request Structs ---

type CreateLessonRequest struct {
	ClientID     string    `json:"clientId" binding:"required"`
	StartsAt     time.Time `json:"startsAt" binding:"required"`
	EndsAt       time.Time `json:"endsAt" binding:"required"`
	Note         string    `json:"note,omitempty"`
	AssignmentID *string   `json:"assignmentId,omitempty"` // program day to displace
}

type SwapLessonsRequest struct {
	LessonAID string `json:"lessonAId" binding:"required"`
	LessonBID string `json:"lessonBId" binding:"required"`
}

// CreateLesson godoc
// @Summary Schedule a lesson with a client
// @Description Overlapping lessons on the coach's calendar are rejected. When assignmentId is given, the program day on the lesson's date is displaced.
// @Tags Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lesson body CreateLessonRequest true "Lesson slot"
// @Success 201 {object} domain.Lesson
// @Failure 400 {object} gin.H "Invalid slot"
// @Failure 409 {object} gin.H "Slot conflicts with an existing lesson"
// @Router /coach/lessons [post]
func (h *LessonHandler) CreateLesson(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}

	var req CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid clientId format")
		return
	}

	svcReq := service.CreateLessonRequest{
		ClientID: clientID,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Note:     req.Note,
	}
	if req.AssignmentID != nil {
		assignmentID, err := primitive.ObjectIDFromHex(*req.AssignmentID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid assignmentId format")
			return
		}
		svcReq.AssignmentID = &assignmentID
	}

	lesson, err := h.lessonService.CreateLesson(c.Request.Context(), coach.ID, svcReq)
	if err != nil {
		h.respondLessonError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

// GetLessons godoc
// @Summary List lessons in a time window
// @Description Coaches see the lessons they give; clients see the lessons they attend.
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param from query string true "Window start (RFC 3339)"
// @Param to query string true "Window end (RFC 3339)"
// @Success 200 {array} domain.Lesson
// @Failure 400 {object} gin.H "Invalid window"
// @Router /lessons [get]
func (h *LessonHandler) GetLessons(c *gin.Context) {
	user, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "from must be an RFC 3339 timestamp")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "to must be an RFC 3339 timestamp")
		return
	}

	var lessons []domain.Lesson
	if user.Role == domain.RoleCoach {
		rows, err := h.lessonService.GetCoachLessons(c.Request.Context(), user.ID, from, to)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch lessons")
			return
		}
		lessons = rows
	} else {
		rows, err := h.lessonService.GetClientLessons(c.Request.Context(), user.ID, from, to)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch lessons")
			return
		}
		lessons = rows
	}
	c.JSON(http.StatusOK, lessons)
}

// CancelLesson godoc
// @Summary Cancel a scheduled lesson
// @Description Cancelling restores the program day the lesson displaced, if any.
// @Tags Lessons
// @Security BearerAuth
// @Param lessonId path string true "Lesson ID"
// @Success 204 "Cancelled"
// @Failure 404 {object} gin.H "Lesson not found"
// @Failure 409 {object} gin.H "Lesson is not scheduled"
// @Router /coach/lessons/{lessonId} [delete]
func (h *LessonHandler) CancelLesson(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	lessonID, ok := parseIDParam(c, "lessonId")
	if !ok {
		return
	}

	if err := h.lessonService.CancelLesson(c.Request.Context(), coach.ID, lessonID); err != nil {
		h.respondLessonError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SwapLessons godoc
// @Summary Exchange the time slots of two lessons
// @Description Both lessons must belong to the coach and be scheduled. The swap is atomic: either both lessons move or neither does.
// @Tags Lessons
// @Accept json
// @Security BearerAuth
// @Param swap body SwapLessonsRequest true "Lessons to swap"
// @Success 204 "Swapped"
// @Failure 404 {object} gin.H "Lesson not found"
// @Failure 409 {object} gin.H "Lesson is not scheduled"
// @Router /coach/lessons/swap [post]
func (h *LessonHandler) SwapLessons(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}

	var req SwapLessonsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	lessonAID, err := primitive.ObjectIDFromHex(req.LessonAID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid lessonAId format")
		return
	}
	lessonBID, err := primitive.ObjectIDFromHex(req.LessonBID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid lessonBId format")
		return
	}

	if err := h.lessonService.SwapLessons(c.Request.Context(), coach.ID, lessonAID, lessonBID); err != nil {
		h.respondLessonError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LessonHandler) respondLessonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrAssignmentNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrLessonDenied),
		errors.Is(err, service.ErrClientNotManaged),
		errors.Is(err, service.ErrAssignmentDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrLessonConflict),
		errors.Is(err, service.ErrLessonNotScheduled):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidLessonSlot):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process lesson")
	}
}
