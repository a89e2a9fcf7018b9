package handlers

import (
	"net/http"

	"task-assignment/backend/internal/middleware"
	"task-assignment/backend/internal/validation"

	"github.com/gin-gonic/gin"
)

// ConfigureEngine disables gin's path fixing so "/tasks/" is not silently
// redirected to "/tasks", and answers unknown routes in plain text.
func ConfigureEngine(engine *gin.Engine) {
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false
	engine.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
}

func RegisterTaskRoutes(r gin.IRouter, h *TaskHandler) {
	withID := middleware.ValidateParams(validation.TaskIDSchema)

	tasks := r.Group("/tasks")
	tasks.GET("", middleware.ValidateQuery(validation.TaskQuerySchema, validation.MsgInvalidQuery), h.GetTasks)
	tasks.POST("", middleware.ValidateBody(validation.CreateTaskSchema), h.CreateTask)
	tasks.GET("/:id", withID, h.GetTaskByID)
	tasks.PUT("/:id", withID, middleware.ValidateBody(validation.UpdateTaskSchema), h.UpdateTask)
	tasks.DELETE("/:id", withID, h.DeleteTask)
}

func RegisterUserRoutes(r gin.IRouter, h *UserHandler) {
	users := r.Group("/users")
	users.GET("", h.GetUsers)
	users.POST("", middleware.ValidateBody(validation.CreateUserSchema), h.CreateUser)
	users.GET("/:id", middleware.ValidateParams(validation.UserIDSchema), h.GetUserByID)
}
