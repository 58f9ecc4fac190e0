package api

import (
	"errors"
	"fmt"
	"net/http"

	"coachpad/coaching-app/internal/calendar"
	"coachpad/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientHandler holds the client-facing service dependencies.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- Request Structs ---

// CompletionRequest targets exactly one completion table. Which fields are
// required depends on the kind:
//   - program_drill: drillId + assignmentId
//   - exercise: exerciseId + programDrillId + date
//   - routine_exercise: exerciseId + routineAssignmentId
type CompletionRequest struct {
	Kind                string `json:"kind" binding:"required,oneof=program_drill exercise routine_exercise"`
	DrillID             string `json:"drillId,omitempty"`
	AssignmentID        string `json:"assignmentId,omitempty"`
	ExerciseID          string `json:"exerciseId,omitempty"`
	ProgramDrillID      string `json:"programDrillId,omitempty"`
	Date                string `json:"date,omitempty"` // YYYY-MM-DD
	RoutineAssignmentID string `json:"routineAssignmentId,omitempty"`
}

type RequestUploadRequest struct {
	DrillID     string `json:"drillId" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	DrillID     string `json:"drillId" binding:"required"`
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"required,min=1"`
}

// === Completions ===

// MarkCompletion godoc
// @Summary Mark a calendar item as done
// @Description Upsert semantics: marking an already-done item is a no-op.
// @Tags Client
// @Accept json
// @Security BearerAuth
// @Param completion body CompletionRequest true "Completion target"
// @Success 204 "Marked"
// @Failure 400 {object} gin.H "Invalid target"
// @Failure 403 {object} gin.H "Target belongs to another client"
// @Router /client/completions [post]
func (h *ClientHandler) MarkCompletion(c *gin.Context) {
	h.handleCompletion(c, true)
}

// UnmarkCompletion godoc
// @Summary Unmark a calendar item
// @Description Idempotent: unmarking an item that was never marked succeeds.
// @Tags Client
// @Accept json
// @Security BearerAuth
// @Param completion body CompletionRequest true "Completion target"
// @Success 204 "Unmarked"
// @Failure 400 {object} gin.H "Invalid target"
// @Failure 403 {object} gin.H "Target belongs to another client"
// @Router /client/completions [delete]
func (h *ClientHandler) UnmarkCompletion(c *gin.Context) {
	h.handleCompletion(c, false)
}

func (h *ClientHandler) handleCompletion(c *gin.Context, mark bool) {
	client, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify client from token")
		return
	}

	var req CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	ctx := c.Request.Context()
	switch req.Kind {
	case "program_drill":
		drillID, err := primitive.ObjectIDFromHex(req.DrillID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "program_drill completion requires a valid drillId")
			return
		}
		assignmentID, err := primitive.ObjectIDFromHex(req.AssignmentID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "program_drill completion requires a valid assignmentId")
			return
		}
		if mark {
			err = h.clientService.MarkProgramDrill(ctx, client.ID, drillID, assignmentID)
		} else {
			err = h.clientService.UnmarkProgramDrill(ctx, client.ID, drillID, assignmentID)
		}
		h.respondCompletion(c, err)

	case "exercise":
		exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "exercise completion requires a valid exerciseId")
			return
		}
		if req.ProgramDrillID == "" {
			abortWithError(c, http.StatusBadRequest, "exercise completion requires programDrillId")
			return
		}
		date, err := calendar.ParseDate(req.Date)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "exercise completion requires date as YYYY-MM-DD")
			return
		}
		if mark {
			err = h.clientService.MarkExercise(ctx, client.ID, exerciseID, req.ProgramDrillID, date)
		} else {
			err = h.clientService.UnmarkExercise(ctx, client.ID, exerciseID, req.ProgramDrillID, date)
		}
		h.respondCompletion(c, err)

	case "routine_exercise":
		exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "routine_exercise completion requires a valid exerciseId")
			return
		}
		routineAssignmentID, err := primitive.ObjectIDFromHex(req.RoutineAssignmentID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "routine_exercise completion requires a valid routineAssignmentId")
			return
		}
		if mark {
			err = h.clientService.MarkRoutineExercise(ctx, client.ID, routineAssignmentID, exerciseID)
		} else {
			err = h.clientService.UnmarkRoutineExercise(ctx, client.ID, routineAssignmentID, exerciseID)
		}
		h.respondCompletion(c, err)
	}
}

func (h *ClientHandler) respondCompletion(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, service.ErrAssignmentNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCompletionDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to record completion")
	}
}

// === Video submissions ===

// RequestVideoUpload godoc
// @Summary Request a presigned URL to upload a drill video
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upload body RequestUploadRequest true "Drill and content type"
// @Success 200 {object} service.VideoUploadTicket
// @Failure 400 {object} gin.H "Unsupported content type"
// @Router /client/submissions/upload-url [post]
func (h *ClientHandler) RequestVideoUpload(c *gin.Context) {
	client, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify client from token")
		return
	}

	var req RequestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	drillID, err := primitive.ObjectIDFromHex(req.DrillID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid drillId format")
		return
	}

	ticket, err := h.clientService.RequestVideoUpload(c.Request.Context(), client.ID, drillID, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidContentType), errors.Is(err, service.ErrInvalidUploadTarget):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		}
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// ConfirmVideoUpload godoc
// @Summary Confirm a finished video upload and create the submission
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upload body ConfirmUploadRequest true "Uploaded object details"
// @Success 201 {object} domain.VideoSubmission
// @Failure 400 {object} gin.H "Invalid object key"
// @Failure 409 {object} gin.H "No coach assigned"
// @Router /client/submissions [post]
func (h *ClientHandler) ConfirmVideoUpload(c *gin.Context) {
	client, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify client from token")
		return
	}

	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	drillID, err := primitive.ObjectIDFromHex(req.DrillID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid drillId format")
		return
	}

	submission, err := h.clientService.ConfirmVideoUpload(c.Request.Context(), client.ID, service.ConfirmUploadRequest{
		DrillID:     drillID,
		ObjectKey:   req.ObjectKey,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        req.Size,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUploadTarget):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNoCoachAssigned):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to record submission")
		}
		return
	}
	c.JSON(http.StatusCreated, submission)
}

// GetMySubmissions godoc
// @Summary List the client's own video submissions
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.VideoSubmission
// @Router /client/submissions [get]
func (h *ClientHandler) GetMySubmissions(c *gin.Context) {
	client, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify client from token")
		return
	}

	submissions, err := h.clientService.GetMySubmissions(c.Request.Context(), client.ID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}
	c.JSON(http.StatusOK, submissions)
}

// GetSubmissionDownloadURL godoc
// @Summary Get a presigned download URL for a submission video
// @Description Available to the submitting client and the reviewing coach.
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Param submissionId path string true "Submission ID"
// @Success 200 {object} gin.H "downloadUrl"
// @Failure 404 {object} gin.H "Submission not found"
// @Router /submissions/{submissionId}/download-url [get]
func (h *ClientHandler) GetSubmissionDownloadURL(c *gin.Context) {
	requester, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}
	submissionID, ok := parseIDParam(c, "submissionId")
	if !ok {
		return
	}

	url, err := h.clientService.GetSubmissionDownloadURL(c.Request.Context(), requester, submissionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubmissionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSubmissionDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}
