package api

import (
	"net/http"

	"coachpad/coaching-app/internal/domain"
	"coachpad/coaching-app/internal/monitoring"
	"coachpad/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler onto the router. Route groups mirror the
// roles: /coach/* requires the coach role, /client/* the client role, and the
// shared groups (lessons, messages, notifications) only authentication.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	coachService service.CoachService,
	clientService service.ClientService,
	calendarService service.CalendarService,
	lessonService service.LessonService,
	messageService service.MessageService,
) {
	authHandler := NewAuthHandler(authService)
	coachHandler := NewCoachHandler(coachService)
	clientHandler := NewClientHandler(clientService)
	calendarHandler := NewCalendarHandler(calendarService)
	lessonHandler := NewLessonHandler(lessonService)
	messageHandler := NewMessageHandler(messageService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.Use(monitoring.MetricsMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", monitoring.PrometheusHandler())

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			user, err := getAuthenticatedUser(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": user.ID.Hex(), "role": user.Role})
		})

		// --- Coach Routes ---
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			// Roster
			coachGroup.POST("/clients", coachHandler.AddClient)
			coachGroup.GET("/clients", coachHandler.GetClients)

			// Program authoring
			coachGroup.POST("/programs", coachHandler.CreateProgram)
			coachGroup.GET("/programs", coachHandler.GetPrograms)
			coachGroup.GET("/programs/:programId", coachHandler.GetProgram)
			coachGroup.PUT("/programs/:programId", coachHandler.UpdateProgram)
			coachGroup.DELETE("/programs/:programId", coachHandler.DeleteProgram)

			// Routine authoring
			coachGroup.POST("/routines", coachHandler.CreateRoutine)
			coachGroup.GET("/routines", coachHandler.GetRoutines)
			coachGroup.GET("/routines/:routineId", coachHandler.GetRoutine)
			coachGroup.PUT("/routines/:routineId", coachHandler.UpdateRoutine)
			coachGroup.PUT("/routines/:routineId/reorder", coachHandler.ReorderRoutineExercises)
			coachGroup.DELETE("/routines/:routineId", coachHandler.DeleteRoutine)

			// Assignments
			coachGroup.POST("/clients/:clientId/assignments", coachHandler.AssignProgram)
			coachGroup.GET("/clients/:clientId/assignments", coachHandler.GetClientAssignments)
			coachGroup.POST("/assignments/:assignmentId/close", coachHandler.CloseAssignment)
			coachGroup.POST("/clients/:clientId/routine-assignments", coachHandler.AssignRoutine)
			coachGroup.DELETE("/routine-assignments/:routineAssignmentId", coachHandler.UnassignRoutine)

			// Day replacements
			coachGroup.POST("/replacements", coachHandler.ReplaceProgramDay)
			coachGroup.DELETE("/replacements/:replacementId", coachHandler.RemoveReplacement)

			// Roster client calendars
			coachGroup.GET("/clients/:clientId/calendar", calendarHandler.GetCalendar)
			coachGroup.GET("/clients/:clientId/calendar/light", calendarHandler.GetLightCalendar)
			coachGroup.GET("/clients/:clientId/calendar/day", calendarHandler.GetDay)
			coachGroup.GET("/clients/:clientId/calendar/week", calendarHandler.GetWeek)

			// Lessons
			coachGroup.POST("/lessons", lessonHandler.CreateLesson)
			coachGroup.DELETE("/lessons/:lessonId", lessonHandler.CancelLesson)
			coachGroup.POST("/lessons/swap", lessonHandler.SwapLessons)

			// Video review
			coachGroup.GET("/submissions", coachHandler.GetSubmissions)
			coachGroup.POST("/submissions/:submissionId/review", coachHandler.ReviewSubmission)
		}

		// --- Client Routes ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			// Own calendar
			clientGroup.GET("/calendar", calendarHandler.GetCalendar)
			clientGroup.GET("/calendar/light", calendarHandler.GetLightCalendar)
			clientGroup.GET("/calendar/day", calendarHandler.GetDay)
			clientGroup.GET("/calendar/week", calendarHandler.GetWeek)

			// Completions
			clientGroup.POST("/completions", clientHandler.MarkCompletion)
			clientGroup.DELETE("/completions", clientHandler.UnmarkCompletion)

			// Video submissions
			clientGroup.POST("/submissions/upload-url", clientHandler.RequestVideoUpload)
			clientGroup.POST("/submissions", clientHandler.ConfirmVideoUpload)
			clientGroup.GET("/submissions", clientHandler.GetMySubmissions)
		}

		// --- Shared Routes (any authenticated role) ---
		protected.GET("/lessons", lessonHandler.GetLessons)
		protected.GET("/submissions/:submissionId/download-url", clientHandler.GetSubmissionDownloadURL)

		messagesGroup := protected.Group("/messages")
		{
			messagesGroup.GET("/unread-count", messageHandler.CountUnread)
			messagesGroup.POST("/:userId", messageHandler.SendMessage)
			messagesGroup.GET("/:userId", messageHandler.GetThread)
			messagesGroup.POST("/:userId/read", messageHandler.MarkThreadRead)
		}

		notificationsGroup := protected.Group("/notifications")
		{
			notificationsGroup.GET("", messageHandler.GetNotifications)
			notificationsGroup.POST("/read-all", messageHandler.MarkAllNotificationsRead)
			notificationsGroup.POST("/:notificationId/read", messageHandler.MarkNotificationRead)
		}
	}
}
