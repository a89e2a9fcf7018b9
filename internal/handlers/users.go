package handlers

import (
	"errors"
	"net/http"

	"task-assignment/backend/internal/apperrors"
	"task-assignment/backend/internal/middleware"
	"task-assignment/backend/internal/models"
	"task-assignment/backend/internal/services"
	"task-assignment/backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	input := utils.ToUserInput(middleware.ValidatedBody(c))

	user, err := h.userService.CreateUser(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			err = apperrors.Conflict("Email already in use", err)
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user.ToResponse())
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToUserResponses(users))
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), paramID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if user == nil {
		fail(c, apperrors.NotFound(apperrors.MsgUserNotFound))
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}
