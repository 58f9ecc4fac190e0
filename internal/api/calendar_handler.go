package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"coachpad/coaching-app/internal/calendar"
	"coachpad/coaching-app/internal/domain"
	"coachpad/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CalendarHandler serves the four calendar query surfaces. The same handlers
// back the client routes (own calendar) and the coach routes (a roster
// client's calendar via the clientId path parameter).
type CalendarHandler struct {
	calendarService service.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// targetClient resolves whose calendar is being read: the clientId path
// parameter when present, otherwise the authenticated user themselves.
func (h *CalendarHandler) targetClient(c *gin.Context, requester domain.AuthenticatedUser) (primitive.ObjectID, bool) {
	if raw := c.Param("clientId"); raw != "" {
		return parseIDParam(c, "clientId")
	}
	return requester.ID, true
}

func parseDateQuery(c *gin.Context, name string) (calendar.Date, bool) {
	date, err := calendar.ParseDate(c.Query(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, name+" must be a YYYY-MM-DD date")
		return calendar.Date{}, false
	}
	return date, true
}

// parseRangeQuery accepts either year+month (whole-month view) or from+to
// (explicit range).
func parseRangeQuery(c *gin.Context) (calendar.Date, calendar.Date, bool) {
	if yearRaw := c.Query("year"); yearRaw != "" {
		year, err := strconv.Atoi(yearRaw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "year must be a number")
			return calendar.Date{}, calendar.Date{}, false
		}
		month, err := strconv.Atoi(c.Query("month"))
		if err != nil || month < 1 || month > 12 {
			abortWithError(c, http.StatusBadRequest, "month must be 1-12")
			return calendar.Date{}, calendar.Date{}, false
		}
		from, to := calendar.MonthRange(year, time.Month(month))
		return from, to, true
	}

	from, ok := parseDateQuery(c, "from")
	if !ok {
		return calendar.Date{}, calendar.Date{}, false
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return calendar.Date{}, calendar.Date{}, false
	}
	return from, to, true
}

// GetCalendar godoc
// @Summary Get the full calendar for a date range
// @Description Returns per-date projections with expanded items. Dates with no scheduled content are omitted.
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param year query int false "Month view: year"
// @Param month query int false "Month view: month (1-12)"
// @Param from query string false "Range start (YYYY-MM-DD), used when year/month absent"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} map[string]calendar.DayProjection
// @Failure 400 {object} gin.H "Invalid range"
// @Failure 403 {object} gin.H "Not this client's coach"
// @Router /client/calendar [get]
func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	requester, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}
	clientID, ok := h.targetClient(c, requester)
	if !ok {
		return
	}
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	cal, err := h.calendarService.GetCalendar(c.Request.Context(), requester, clientID, from, to)
	if err != nil {
		h.respondCalendarError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

// GetLightCalendar godoc
// @Summary Get the summary calendar for a date range
// @Description Returns counts only, with every date in the range present. Dates without content appear as zero-count rest days.
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param year query int false "Month view: year"
// @Param month query int false "Month view: month (1-12)"
// @Param from query string false "Range start (YYYY-MM-DD), used when year/month absent"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} map[string]calendar.DaySummary
// @Failure 400 {object} gin.H "Invalid range"
// @Router /client/calendar/light [get]
func (h *CalendarHandler) GetLightCalendar(c *gin.Context) {
	requester, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}
	clientID, ok := h.targetClient(c, requester)
	if !ok {
		return
	}
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	light, err := h.calendarService.GetLightCalendar(c.Request.Context(), requester, clientID, from, to)
	if err != nil {
		h.respondCalendarError(c, err)
		return
	}
	c.JSON(http.StatusOK, light)
}

// GetDay godoc
// @Summary Get the projection for a single date
// @Description A date with no scheduled content returns an empty rest-day projection, not an error.
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} calendar.DayProjection
// @Failure 400 {object} gin.H "Invalid date"
// @Router /client/calendar/day [get]
func (h *CalendarHandler) GetDay(c *gin.Context) {
	requester, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}
	clientID, ok := h.targetClient(c, requester)
	if !ok {
		return
	}
	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}

	proj, err := h.calendarService.GetDay(c.Request.Context(), requester, clientID, date)
	if err != nil {
		h.respondCalendarError(c, err)
		return
	}
	c.JSON(http.StatusOK, proj)
}

// GetWeek godoc
// @Summary Get the projections for the seven days starting at a date
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param start query string true "Week start (YYYY-MM-DD)"
// @Success 200 {object} map[string]calendar.DayProjection
// @Failure 400 {object} gin.H "Invalid date"
// @Router /client/calendar/week [get]
func (h *CalendarHandler) GetWeek(c *gin.Context) {
	requester, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}
	clientID, ok := h.targetClient(c, requester)
	if !ok {
		return
	}
	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}

	week, err := h.calendarService.GetWeek(c.Request.Context(), requester, clientID, start)
	if err != nil {
		h.respondCalendarError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

func (h *CalendarHandler) respondCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCalendarRange):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCalendarAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrClientNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to build calendar")
	}
}
