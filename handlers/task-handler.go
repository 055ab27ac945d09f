package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSirThe1st/collaboration-sub001/models"
	"github.com/MrSirThe1st/collaboration-sub001/policy"
	"github.com/MrSirThe1st/collaboration-sub001/services"
	"github.com/MrSirThe1st/collaboration-sub001/utils"
)

type TaskHandler struct {
	TaskService    *services.TaskService
	ProjectService *services.ProjectService
}

func NewTaskHandler(taskService *services.TaskService, projectService *services.ProjectService) *TaskHandler {
	return &TaskHandler{TaskService: taskService, ProjectService: projectService}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	project, err := h.ProjectService.GetProjectByID(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanProject(callerID, project, policy.ActionCreateTask) {
		utils.WriteError(w, http.StatusForbidden, "Only project admins can create tasks")
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      string `json:"status"`
		MilestoneID string `json:"milestoneId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var milestoneID *primitive.ObjectID
	if req.MilestoneID != "" {
		id, err := primitive.ObjectIDFromHex(req.MilestoneID)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid milestone id")
			return
		}
		milestoneID = &id
	}

	status := models.TaskStatus(req.Status)
	if status == "" {
		status = models.StatusPending
	}

	task, err := h.TaskService.CreateTask(r.Context(), project.ID, milestoneID, req.Title, req.Description, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "Task created", "task", task)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	project, err := h.ProjectService.GetProjectByID(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanProject(callerID, project, policy.ActionView) {
		utils.WriteError(w, http.StatusForbidden, "You are not a member of this project")
		return
	}

	tasks, err := h.TaskService.ListTasksForProject(r.Context(), project.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "tasks", tasks)
}

// loadTask fetches a task and its project and checks the action against
// project policy. Writes the error response itself on failure.
func (h *TaskHandler) loadTask(w http.ResponseWriter, r *http.Request, callerID primitive.ObjectID, action policy.Action) (*models.Task, *models.Project, bool) {
	task, err := h.TaskService.GetTaskByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return nil, nil, false
	}
	project, err := h.ProjectService.GetProjectByID(r.Context(), task.ProjectID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return nil, nil, false
	}
	if !policy.CanProject(callerID, project, action) {
		utils.WriteError(w, http.StatusForbidden, "You do not have access to this task")
		return nil, nil, false
	}
	return task, project, true
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	task, _, ok := h.loadTask(w, r, callerID, policy.ActionView)
	if !ok {
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "task", task)
}

func (h *TaskHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	task, _, ok := h.loadTask(w, r, callerID, policy.ActionView)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.TaskService.ChangeTaskStatus(r.Context(), task.ID, models.TaskStatus(req.Status))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Task status updated", "task", updated)
}

func (h *TaskHandler) SetMilestone(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	task, _, ok := h.loadTask(w, r, callerID, policy.ActionCreateTask)
	if !ok {
		return
	}

	var req struct {
		MilestoneID string `json:"milestoneId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var milestoneID *primitive.ObjectID
	if req.MilestoneID != "" {
		id, err := primitive.ObjectIDFromHex(req.MilestoneID)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid milestone id")
			return
		}
		milestoneID = &id
	}

	updated, err := h.TaskService.SetMilestone(r.Context(), task.ID, milestoneID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Task milestone updated", "task", updated)
}

func (h *TaskHandler) AddAssignee(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	task, project, ok := h.loadTask(w, r, callerID, policy.ActionCreateTask)
	if !ok {
		return
	}

	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if project.MemberByID(userID) == nil {
		utils.WriteError(w, http.StatusBadRequest, "Assignee must be a member of the project")
		return
	}

	if err := h.TaskService.AddAssignee(r.Context(), task.ID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Assignee added", "", nil)
}

func (h *TaskHandler) RemoveAssignee(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	task, _, ok := h.loadTask(w, r, callerID, policy.ActionCreateTask)
	if !ok {
		return
	}

	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.TaskService.RemoveAssignee(r.Context(), task.ID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Assignee removed", "", nil)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	task, _, ok := h.loadTask(w, r, callerID, policy.ActionCreateTask)
	if !ok {
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), task.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Task deleted", "", nil)
}
