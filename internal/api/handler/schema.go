package handler

import "github.com/tasklane/todo-service/internal/core/domain"

type credentialsRequest struct {
	Username string `json:"username" validate:"required" example:"alice"`
	Password string `json:"password" validate:"required" example:"s3cret"`
}

type createTodoRequest struct {
	Content string `json:"content" validate:"required" example:"buy milk"`
}

type userResponse struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
}

type registerResponse struct {
	Message string       `json:"message" example:"registration successful"`
	User    userResponse `json:"user"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type deleteTodoResponse struct {
	Message string      `json:"message" example:"todo deleted"`
	Deleted domain.Todo `json:"deleted"`
}

type errorResponse struct {
	Error string `json:"error"`
}
