package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hrms-backend/models"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

type TaskHandler struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

func NewTaskHandler(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo, userRepo: userRepo}
}

func involved(claims *models.Claims, task *models.Task) bool {
	return task.AssignedTo == claims.UserID || task.AssignedBy == claims.UserID || isHR(claims)
}

// CreateTask godoc
// @Summary Assign task
// @Description Managers assign to their direct reports, HR to anyone
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param task body models.TaskPayload true "Task"
// @Success 201 {object} models.Envelope{data=models.Task}
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	var payload models.TaskPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	assignee, err := parseObjectID(payload.AssignedTo, "assigned_to")
	if err != nil {
		return err
	}
	due, err := parseDate(payload.DueDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid due_date")
	}

	claims := currentUser(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := requireView(ctx, h.userRepo, claims, assignee); err != nil {
		return err
	}

	task := &models.Task{
		Title:       payload.Title,
		Description: payload.Description,
		AssignedTo:  assignee,
		AssignedBy:  claims.UserID,
		DueDate:     due,
		Priority:    payload.Priority,
		Status:      models.TaskPending,
	}
	if err := h.taskRepo.CreateTask(ctx, task); err != nil {
		return storeError(err, "Task")
	}
	return util.Success(c, fiber.StatusCreated, "Task assigned", task)
}

// GetTasks godoc
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param scope query string false "mine (default), assigned, or all (HR)"
// @Param status query string false "Status"
// @Param user_id query string false "Assignee (scope=all)"
// @Success 200 {object} models.Envelope{data=[]models.Task}
// @Router /tasks [get]
func (h *TaskHandler) GetTasks(c *fiber.Ctx) error {
	claims := currentUser(c)
	filter := repository.TaskFilter{Status: c.Query("status")}

	switch c.Query("scope", "mine") {
	case "mine":
		filter.AssignedTo = &claims.UserID
	case "assigned":
		filter.AssignedBy = &claims.UserID
	case "all":
		if !isHR(claims) {
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		}
		userID, err := optionalID(c.Query("user_id"), "user_id")
		if err != nil {
			return err
		}
		filter.AssignedTo = userID
	default:
		return fiber.NewError(fiber.StatusBadRequest, "scope must be mine, assigned or all")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	tasks, err := h.taskRepo.ListTasks(ctx, filter)
	if err != nil {
		return storeError(err, "Tasks")
	}
	return util.Success(c, fiber.StatusOK, "", tasks)
}

// GetTaskByID godoc
// @Summary Get task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} models.Envelope{data=models.Task}
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTaskByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	task, err := h.taskRepo.FindTaskByID(ctx, id)
	if err != nil {
		return storeError(err, "Task")
	}
	if !involved(currentUser(c), task) {
		return fiber.NewError(fiber.StatusForbidden, "Access denied")
	}
	return util.Success(c, fiber.StatusOK, "", task)
}

// UpdateTaskStatus godoc
// @Summary Update task status
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param status body models.TaskStatusPayload true "Status"
// @Success 200 {object} models.Envelope{data=models.Task}
// @Router /tasks/{id}/status [put]
func (h *TaskHandler) UpdateTaskStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload models.TaskStatusPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	task, err := h.taskRepo.FindTaskByID(ctx, id)
	if err != nil {
		return storeError(err, "Task")
	}
	if !involved(currentUser(c), task) {
		return fiber.NewError(fiber.StatusForbidden, "Access denied")
	}

	setTaskStatus(task, payload.Status)
	if err := h.taskRepo.SaveTask(ctx, task); err != nil {
		return storeError(err, "Task")
	}
	return util.Success(c, fiber.StatusOK, "Task updated", task)
}

func setTaskStatus(task *models.Task, status string) {
	task.Status = status
	if status != models.TaskCompleted {
		task.CompletedAt = nil
		return
	}
	if task.CompletedAt == nil {
		at := now()
		task.CompletedAt = &at
	}
}

// DeleteTask godoc
// @Summary Delete task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} models.Envelope
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	claims := currentUser(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	task, err := h.taskRepo.FindTaskByID(ctx, id)
	if err != nil {
		return storeError(err, "Task")
	}
	if task.AssignedBy != claims.UserID && !isHR(claims) {
		return fiber.NewError(fiber.StatusForbidden, "Only the assigner can delete a task")
	}
	if err := h.taskRepo.DeleteTask(ctx, id); err != nil {
		return storeError(err, "Task")
	}
	return util.Success(c, fiber.StatusOK, "Task deleted", nil)
}

// SubmitResponse godoc
// @Summary Submit task response
// @Description The assignee submits the result; the task becomes completed
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param response body models.TaskResponsePayload true "Response"
// @Success 201 {object} models.Envelope{data=models.TaskResponse}
// @Router /tasks/{id}/responses [post]
func (h *TaskHandler) SubmitResponse(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload models.TaskResponsePayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	claims := currentUser(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	task, err := h.taskRepo.FindTaskByID(ctx, id)
	if err != nil {
		return storeError(err, "Task")
	}
	if task.AssignedTo != claims.UserID {
		return fiber.NewError(fiber.StatusForbidden, "Only the assignee can respond to a task")
	}

	resp := &models.TaskResponse{
		TaskID:   task.ID,
		UserID:   claims.UserID,
		Response: payload.Response,
	}
	if err := h.taskRepo.CreateResponse(ctx, resp); err != nil {
		return storeError(err, "Task response")
	}

	setTaskStatus(task, models.TaskCompleted)
	if err := h.taskRepo.SaveTask(ctx, task); err != nil {
		return storeError(err, "Task")
	}
	return util.Success(c, fiber.StatusCreated, "Response submitted", resp)
}

// GetResponses godoc
// @Summary Task responses
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} models.Envelope{data=[]models.TaskResponse}
// @Router /tasks/{id}/responses [get]
func (h *TaskHandler) GetResponses(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	task, err := h.taskRepo.FindTaskByID(ctx, id)
	if err != nil {
		return storeError(err, "Task")
	}
	if !involved(currentUser(c), task) {
		return fiber.NewError(fiber.StatusForbidden, "Access denied")
	}
	responses, err := h.taskRepo.FindResponsesByTask(ctx, task.ID)
	if err != nil {
		return storeError(err, "Task responses")
	}
	return util.Success(c, fiber.StatusOK, "", responses)
}

// RateResponse godoc
// @Summary Rate task response
// @Description The assigner rates a response from 1 to 5
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Response ID"
// @Param rating body models.TaskRatingPayload true "Rating"
// @Success 200 {object} models.Envelope{data=models.TaskResponse}
// @Router /tasks/responses/{id}/rate [put]
func (h *TaskHandler) RateResponse(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload models.TaskRatingPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	claims := currentUser(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.taskRepo.FindResponseByID(ctx, id)
	if err != nil {
		return storeError(err, "Task response")
	}
	task, err := h.taskRepo.FindTaskByID(ctx, resp.TaskID)
	if err != nil {
		return storeError(err, "Task")
	}
	if task.AssignedBy != claims.UserID && !isHR(claims) {
		return fiber.NewError(fiber.StatusForbidden, "Only the assigner can rate this response")
	}

	resp.Rating = payload.Rating
	resp.Feedback = payload.Feedback
	resp.ReviewerID = &claims.UserID
	if err := h.taskRepo.SaveResponse(ctx, resp); err != nil {
		return storeError(err, "Task response")
	}
	return util.Success(c, fiber.StatusOK, "Response rated", resp)
}
