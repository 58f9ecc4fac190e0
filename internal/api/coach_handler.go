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

// CoachHandler holds the coach-facing service dependencies.
type CoachHandler struct {
	coachService service.CoachService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// --- Request Structs ---

type AddClientRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type AssignProgramRequest struct {
	ProgramID string     `json:"programId" binding:"required"`
	StartDate *time.Time `json:"startDate,omitempty"`
}

type AssignRoutineRequest struct {
	RoutineID string    `json:"routineId" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

type ReorderExercisesRequest struct {
	ExerciseIDs []string `json:"exerciseIds" binding:"required,min=1"`
}

type ReplaceDayRequest struct {
	AssignmentID        string     `json:"assignmentId" binding:"required"`
	Date                time.Time  `json:"date" binding:"required"`
	SubstituteProgramID *string    `json:"substituteProgramId,omitempty"`
	SubstituteStart     *time.Time `json:"substituteStart,omitempty"`
	SubstituteEnd       *time.Time `json:"substituteEnd,omitempty"`
}

type ReviewSubmissionRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// === Roster ===

// AddClient godoc
// @Summary Add a client to the coach's roster by email
// @Description Looks up an existing client account by email and links it to the authenticated coach.
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param client body AddClientRequest true "Client email"
// @Success 200 {object} UserResponse "Client added (or already on roster)"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Client not found"
// @Failure 409 {object} gin.H "Client already coached by someone else"
// @Router /coach/clients [post]
func (h *CoachHandler) AddClient(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}

	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.coachService.AddClientByEmail(c.Request.Context(), coach.ID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotRole):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClientAlreadyCoached):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add client")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetClients godoc
// @Summary List the coach's clients
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Router /coach/clients [get]
func (h *CoachHandler) GetClients(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}

	clients, err := h.coachService.GetClients(c.Request.Context(), coach.ID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch clients")
		return
	}

	resp := make([]UserResponse, len(clients))
	for i := range clients {
		resp[i] = MapUserToResponse(&clients[i])
	}
	c.JSON(http.StatusOK, resp)
}

// === Programs ===

// CreateProgram godoc
// @Summary Create a training program
// @Description Stores a multi-week program. Weeks, days and drills are embedded in the request body.
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program body domain.Program true "Program definition"
// @Success 201 {object} domain.Program
// @Failure 400 {object} gin.H "Invalid program structure"
// @Router /coach/programs [post]
func (h *CoachHandler) CreateProgram(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}

	var program domain.Program
	if err := c.ShouldBindJSON(&program); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	// Ownership always comes from the token, never the payload.
	program.ID = primitive.NilObjectID
	program.CoachID = coach.ID

	created, err := h.coachService.CreateProgram(c.Request.Context(), &program)
	if err != nil {
		h.respondProgramError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetPrograms godoc
// @Summary List the coach's programs
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Program
// @Router /coach/programs [get]
func (h *CoachHandler) GetPrograms(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}

	programs, err := h.coachService.GetPrograms(c.Request.Context(), coach.ID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch programs")
		return
	}
	c.JSON(http.StatusOK, programs)
}

// GetProgram godoc
// @Summary Get one program by ID
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Success 200 {object} domain.Program
// @Failure 404 {object} gin.H "Program not found"
// @Router /coach/programs/{programId} [get]
func (h *CoachHandler) GetProgram(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	programID, ok := parseIDParam(c, "programId")
	if !ok {
		return
	}

	program, err := h.coachService.GetProgram(c.Request.Context(), coach.ID, programID)
	if err != nil {
		h.respondProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// UpdateProgram godoc
// @Summary Update a program
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Param program body domain.Program true "Program definition"
// @Success 200 {object} domain.Program
// @Failure 404 {object} gin.H "Program not found"
// @Router /coach/programs/{programId} [put]
func (h *CoachHandler) UpdateProgram(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	programID, ok := parseIDParam(c, "programId")
	if !ok {
		return
	}

	var program domain.Program
	if err := c.ShouldBindJSON(&program); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	program.ID = programID
	program.CoachID = coach.ID

	updated, err := h.coachService.UpdateProgram(c.Request.Context(), &program)
	if err != nil {
		h.respondProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteProgram godoc
// @Summary Delete a program
// @Tags Coach
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Program not found"
// @Router /coach/programs/{programId} [delete]
func (h *CoachHandler) DeleteProgram(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	programID, ok := parseIDParam(c, "programId")
	if !ok {
		return
	}

	if err := h.coachService.DeleteProgram(c.Request.Context(), coach.ID, programID); err != nil {
		h.respondProgramError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CoachHandler) respondProgramError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound), errors.Is(err, service.ErrRoutineNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramAccessDenied), errors.Is(err, service.ErrRoutineAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidProgram):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process program")
	}
}

// === Routines ===

// CreateRoutine godoc
// @Summary Create a reusable routine
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routine body domain.Routine true "Routine definition"
// @Success 201 {object} domain.Routine
// @Failure 400 {object} gin.H "Invalid routine structure"
// @Router /coach/routines [post]
func (h *CoachHandler) CreateRoutine(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}

	var routine domain.Routine
	if err := c.ShouldBindJSON(&routine); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	routine.ID = primitive.NilObjectID
	routine.CoachID = coach.ID

	created, err := h.coachService.CreateRoutine(c.Request.Context(), &routine)
	if err != nil {
		h.respondRoutineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetRoutines godoc
// @Summary List the coach's routines
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Routine
// @Router /coach/routines [get]
func (h *CoachHandler) GetRoutines(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}

	routines, err := h.coachService.GetRoutines(c.Request.Context(), coach.ID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch routines")
		return
	}
	c.JSON(http.StatusOK, routines)
}

// GetRoutine godoc
// @Summary Get one routine by ID
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Success 200 {object} domain.Routine
// @Failure 404 {object} gin.H "Routine not found"
// @Router /coach/routines/{routineId} [get]
func (h *CoachHandler) GetRoutine(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	routineID, ok := parseIDParam(c, "routineId")
	if !ok {
		return
	}

	routine, err := h.coachService.GetRoutine(c.Request.Context(), coach.ID, routineID)
	if err != nil {
		h.respondRoutineError(c, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

// UpdateRoutine godoc
// @Summary Update a routine
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Param routine body domain.Routine true "Routine definition"
// @Success 200 {object} domain.Routine
// @Failure 404 {object} gin.H "Routine not found"
// @Router /coach/routines/{routineId} [put]
func (h *CoachHandler) UpdateRoutine(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	routineID, ok := parseIDParam(c, "routineId")
	if !ok {
		return
	}

	var routine domain.Routine
	if err := c.ShouldBindJSON(&routine); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	routine.ID = routineID
	routine.CoachID = coach.ID

	updated, err := h.coachService.UpdateRoutine(c.Request.Context(), &routine)
	if err != nil {
		h.respondRoutineError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ReorderRoutineExercises godoc
// @Summary Reorder the exercises of a routine
// @Description The request must list every exercise ID of the routine exactly once, in the desired order.
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Param order body ReorderExercisesRequest true "Ordered exercise IDs"
// @Success 200 {object} domain.Routine
// @Failure 400 {object} gin.H "Order list does not match"
// @Router /coach/routines/{routineId}/reorder [put]
func (h *CoachHandler) ReorderRoutineExercises(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	routineID, ok := parseIDParam(c, "routineId")
	if !ok {
		return
	}

	var req ReorderExercisesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	orderedIDs := make([]primitive.ObjectID, len(req.ExerciseIDs))
	for i, idStr := range req.ExerciseIDs {
		id, err := primitive.ObjectIDFromHex(idStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid exercise ID %q", idStr))
			return
		}
		orderedIDs[i] = id
	}

	routine, err := h.coachService.ReorderRoutineExercises(c.Request.Context(), coach.ID, routineID, orderedIDs)
	if err != nil {
		if errors.Is(err, service.ErrExerciseOrderMismatch) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.respondRoutineError(c, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

// DeleteRoutine godoc
// @Summary Delete a routine
// @Description Program drills that still reference the routine become orphans; the calendar skips and flags them.
// @Tags Coach
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Routine not found"
// @Router /coach/routines/{routineId} [delete]
func (h *CoachHandler) DeleteRoutine(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	routineID, ok := parseIDParam(c, "routineId")
	if !ok {
		return
	}

	if err := h.coachService.DeleteRoutine(c.Request.Context(), coach.ID, routineID); err != nil {
		h.respondRoutineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CoachHandler) respondRoutineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoutineNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRoutineAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidRoutine):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process routine")
	}
}

// === Assignments ===

// AssignProgram godoc
// @Summary Assign a program to a client
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Param assignment body AssignProgramRequest true "Program and optional start date"
// @Success 201 {object} domain.ProgramAssignment
// @Failure 404 {object} gin.H "Program or client not found"
// @Router /coach/clients/{clientId}/assignments [post]
func (h *CoachHandler) AssignProgram(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	var req AssignProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	programID, err := primitive.ObjectIDFromHex(req.ProgramID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid programId format")
		return
	}

	assignment, err := h.coachService.AssignProgram(c.Request.Context(), coach.ID, clientID, programID, req.StartDate)
	if err != nil {
		h.respondAssignmentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// CloseAssignment godoc
// @Summary Close a program assignment
// @Description Soft close: the assignment stops projecting onto the calendar but its history is kept.
// @Tags Coach
// @Security BearerAuth
// @Param assignmentId path string true "Assignment ID"
// @Success 204 "Closed"
// @Failure 404 {object} gin.H "Assignment not found"
// @Router /coach/assignments/{assignmentId}/close [post]
func (h *CoachHandler) CloseAssignment(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	assignmentID, ok := parseIDParam(c, "assignmentId")
	if !ok {
		return
	}

	if err := h.coachService.CloseProgramAssignment(c.Request.Context(), coach.ID, assignmentID); err != nil {
		h.respondAssignmentError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AssignRoutine godoc
// @Summary Assign a standalone routine to a client over a date range
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Param assignment body AssignRoutineRequest true "Routine and date range"
// @Success 201 {object} domain.RoutineAssignment
// @Failure 400 {object} gin.H "Invalid date range"
// @Router /coach/clients/{clientId}/routine-assignments [post]
func (h *CoachHandler) AssignRoutine(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	var req AssignRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	routineID, err := primitive.ObjectIDFromHex(req.RoutineID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routineId format")
		return
	}

	assignment, err := h.coachService.AssignRoutine(c.Request.Context(), coach.ID, clientID, routineID, req.StartDate, req.EndDate)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, service.ErrRoutineNotFound) || errors.Is(err, service.ErrRoutineAccessDenied) {
			h.respondRoutineError(c, err)
			return
		}
		h.respondAssignmentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// GetClientAssignments godoc
// @Summary List every assignment of a managed client
// @Description Returns both program assignments (open and closed) and routine assignments.
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} service.ClientAssignments
// @Failure 403 {object} gin.H "Client is not on this coach's roster"
// @Router /coach/clients/{clientId}/assignments [get]
func (h *CoachHandler) GetClientAssignments(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	assignments, err := h.coachService.GetClientAssignments(c.Request.Context(), coach.ID, clientID)
	if err != nil {
		h.respondAssignmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// UnassignRoutine godoc
// @Summary Remove a routine assignment
// @Tags Coach
// @Security BearerAuth
// @Param routineAssignmentId path string true "Routine assignment ID"
// @Success 204 "Removed"
// @Failure 404 {object} gin.H "Assignment not found"
// @Router /coach/routine-assignments/{routineAssignmentId} [delete]
func (h *CoachHandler) UnassignRoutine(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	routineAssignmentID, ok := parseIDParam(c, "routineAssignmentId")
	if !ok {
		return
	}

	if err := h.coachService.UnassignRoutine(c.Request.Context(), coach.ID, routineAssignmentID); err != nil {
		h.respondAssignmentError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CoachHandler) respondAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrProgramNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAssignmentDenied),
		errors.Is(err, service.ErrClientNotManaged),
		errors.Is(err, service.ErrProgramAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process assignment")
	}
}

// === Replacements ===

// ReplaceProgramDay godoc
// @Summary Override one calendar date of a program assignment
// @Description Without a substitute the day is deleted; with a substitute program and date range the substitute's schedule covers the date.
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param replacement body ReplaceDayRequest true "Replacement details"
// @Success 201 {object} domain.ProgramReplacement
// @Failure 404 {object} gin.H "Assignment not found"
// @Failure 409 {object} gin.H "Date already replaced"
// @Router /coach/replacements [post]
func (h *CoachHandler) ReplaceProgramDay(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}

	var req ReplaceDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	assignmentID, err := primitive.ObjectIDFromHex(req.AssignmentID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid assignmentId format")
		return
	}

	svcReq := service.ReplaceDayRequest{
		AssignmentID:    assignmentID,
		Date:            req.Date,
		SubstituteStart: req.SubstituteStart,
		SubstituteEnd:   req.SubstituteEnd,
	}
	if req.SubstituteProgramID != nil {
		subID, err := primitive.ObjectIDFromHex(*req.SubstituteProgramID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid substituteProgramId format")
			return
		}
		svcReq.SubstituteProgramID = &subID
	}

	replacement, err := h.coachService.ReplaceProgramDay(c.Request.Context(), coach.ID, svcReq)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.respondAssignmentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, replacement)
}

// RemoveReplacement godoc
// @Summary Remove a day replacement, restoring the original program day
// @Tags Coach
// @Security BearerAuth
// @Param replacementId path string true "Replacement ID"
// @Success 204 "Removed"
// @Failure 404 {object} gin.H "Replacement not found"
// @Router /coach/replacements/{replacementId} [delete]
func (h *CoachHandler) RemoveReplacement(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	replacementID, ok := parseIDParam(c, "replacementId")
	if !ok {
		return
	}

	if err := h.coachService.RemoveReplacement(c.Request.Context(), coach.ID, replacementID); err != nil {
		if errors.Is(err, service.ErrReplacementNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to remove replacement")
		return
	}
	c.Status(http.StatusNoContent)
}

// === Video review ===

// GetSubmissions godoc
// @Summary List video submissions awaiting this coach
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (pending, reviewed)"
// @Success 200 {array} domain.VideoSubmission
// @Router /coach/submissions [get]
func (h *CoachHandler) GetSubmissions(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}

	status := domain.SubmissionStatus(c.Query("status"))
	submissions, err := h.coachService.GetSubmissions(c.Request.Context(), coach.ID, status)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}
	c.JSON(http.StatusOK, submissions)
}

// ReviewSubmission godoc
// @Summary Leave feedback on a video submission
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submissionId path string true "Submission ID"
// @Param review body ReviewSubmissionRequest true "Feedback"
// @Success 200 {object} domain.VideoSubmission
// @Failure 404 {object} gin.H "Submission not found"
// @Router /coach/submissions/{submissionId}/review [post]
func (h *CoachHandler) ReviewSubmission(c *gin.Context) {
	coach, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach from token")
		return
	}
	submissionID, ok := parseIDParam(c, "submissionId")
	if !ok {
		return
	}

	var req ReviewSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	submission, err := h.coachService.ReviewSubmission(c.Request.Context(), coach.ID, submissionID, req.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubmissionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSubmissionDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to review submission")
		}
		return
	}
	c.JSON(http.StatusOK, submission)
}
