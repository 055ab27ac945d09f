package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/MrSirThe1st/collaboration-sub001/policy"
	"github.com/MrSirThe1st/collaboration-sub001/services"
	"github.com/MrSirThe1st/collaboration-sub001/utils"
)

type MilestoneHandler struct {
	MilestoneService *services.MilestoneService
	ProjectService   *services.ProjectService
}

func NewMilestoneHandler(milestoneService *services.MilestoneService, projectService *services.ProjectService) *MilestoneHandler {
	return &MilestoneHandler{MilestoneService: milestoneService, ProjectService: projectService}
}

func (h *MilestoneHandler) CreateMilestone(w http.ResponseWriter, r *http.Request) {
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
		utils.WriteError(w, http.StatusForbidden, "Only project admins can create milestones")
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		DueDate     string `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var dueDate time.Time
	if req.DueDate != "" {
		dueDate, err = time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid due date, expected RFC3339")
			return
		}
	}

	milestone, err := h.MilestoneService.CreateMilestone(r.Context(), project.ID, req.Name, req.Description, dueDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "Milestone created", "milestone", milestone)
}

func (h *MilestoneHandler) ListMilestones(w http.ResponseWriter, r *http.Request) {
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

	milestones, err := h.MilestoneService.ListMilestonesForProject(r.Context(), project.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "milestones", milestones)
}

func (h *MilestoneHandler) GetMilestone(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	milestone, err := h.MilestoneService.GetMilestoneByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	project, err := h.ProjectService.GetProjectByID(r.Context(), milestone.ProjectID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanProject(callerID, project, policy.ActionView) {
		utils.WriteError(w, http.StatusForbidden, "You are not a member of this project")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "milestone", milestone)
}

func (h *MilestoneHandler) DeleteMilestone(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	milestone, err := h.MilestoneService.GetMilestoneByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	project, err := h.ProjectService.GetProjectByID(r.Context(), milestone.ProjectID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanProject(callerID, project, policy.ActionCreateTask) {
		utils.WriteError(w, http.StatusForbidden, "Only project admins can delete milestones")
		return
	}

	if err := h.MilestoneService.DeleteMilestone(r.Context(), milestone.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Milestone deleted", "", nil)
}
