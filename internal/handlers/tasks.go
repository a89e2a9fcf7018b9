package handlers

import (
	"net/http"

	"task-assignment/backend/internal/apperrors"
	"task-assignment/backend/internal/middleware"
	"task-assignment/backend/internal/models"
	"task-assignment/backend/internal/services"
	"task-assignment/backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// fail hands err to the error responder.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func paramID(c *gin.Context) uint {
	id, _ := middleware.ValidatedParams(c).Uint("id")
	return id
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	filters := utils.ToFilters(middleware.ValidatedQuery(c))

	tasks, err := h.taskService.ListTasks(c.Request.Context(), filters)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToTaskResponses(tasks))
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	task, err := h.taskService.GetTaskByID(c.Request.Context(), paramID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if task == nil {
		fail(c, apperrors.TaskNotFound())
		return
	}
	c.JSON(http.StatusOK, task.ToResponse())
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	input := utils.ToCreateInput(middleware.ValidatedBody(c))

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, task.ToResponse())
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	patch := utils.ToUpdateInput(middleware.ValidatedBody(c))

	task, err := h.taskService.UpdateTask(c.Request.Context(), paramID(c), patch)
	if err != nil {
		fail(c, err)
		return
	}
	if task == nil {
		fail(c, apperrors.TaskNotFound())
		return
	}
	c.JSON(http.StatusOK, task.ToResponse())
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	deleted, err := h.taskService.DeleteTask(c.Request.Context(), paramID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if !deleted {
		fail(c, apperrors.TaskNotFound())
		return
	}
	c.Status(http.StatusNoContent)
}
