package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tasklane/todo-service/internal/api/metrics"
	"github.com/tasklane/todo-service/internal/core/domain"
	"github.com/tasklane/todo-service/internal/core/ports"
)

// TodoHandler serves the caller's notes. The owner always comes from the
// session, never from the request.
type TodoHandler struct {
	service ports.TodoService
	metrics *metrics.Metrics
}

func NewTodoHandler(service ports.TodoService, m *metrics.Metrics) *TodoHandler {
	return &TodoHandler{service: service, metrics: m}
}

// List returns the caller's todos, newest first.
//
// @Summary      List todos
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Todo
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	todos, err := h.service.List(c.Request().Context(), session.UserID)
	if err != nil {
		return err
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return c.JSON(http.StatusOK, todos)
}

// Create adds a todo for the caller.
//
// @Summary      Create todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTodoRequest  true  "Todo content"
// @Success      201   {object}  domain.Todo
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/todos [post]
func (h *TodoHandler) Create(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	var req createTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	todo, err := h.service.Create(c.Request().Context(), session.UserID, req.Content)
	if err != nil {
		return err
	}
	h.metrics.TodosCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, todo)
}

// Delete removes one of the caller's todos. Missing and foreign ids answer
// the same 404.
//
// @Summary      Delete todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  deleteTodoResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return domain.ErrTodoNotFound
	}

	deleted, err := h.service.Delete(c.Request().Context(), session.UserID, id)
	if err != nil {
		return err
	}
	h.metrics.TodosDeletedTotal.Inc()

	return c.JSON(http.StatusOK, deleteTodoResponse{Message: "todo deleted", Deleted: *deleted})
}
