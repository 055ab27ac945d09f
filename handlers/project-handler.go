package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSirThe1st/collaboration-sub001/policy"
	"github.com/MrSirThe1st/collaboration-sub001/services"
	"github.com/MrSirThe1st/collaboration-sub001/utils"
)

type ProjectHandler struct {
	ProjectService *services.ProjectService
	UserService    *services.UserService
}

func NewProjectHandler(projectService *services.ProjectService, userService *services.UserService) *ProjectHandler {
	return &ProjectHandler{ProjectService: projectService, UserService: userService}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	var req struct {
		Name          string   `json:"name"`
		Description   string   `json:"description"`
		RequiredRoles []string `json:"requiredRoles"`
		GroupID       string   `json:"groupId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Name == "" {
		utils.WriteError(w, http.StatusBadRequest, "project name is required")
		return
	}

	var groupID *primitive.ObjectID
	if req.GroupID != "" {
		id, err := primitive.ObjectIDFromHex(req.GroupID)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid group id")
			return
		}
		groupID = &id
	}

	owner, err := h.UserService.GetUserByID(r.Context(), callerID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	project, err := h.ProjectService.CreateProject(r.Context(), req.Name, req.Description, req.RequiredRoles, groupID, owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "Project created", "project", project)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	project, err := h.ProjectService.GetProjectByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanProject(callerID, project, policy.ActionView) {
		utils.WriteError(w, http.StatusForbidden, "You are not a member of this project")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "project", project)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	projects, err := h.ProjectService.ListProjectsForUser(r.Context(), callerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "projects", projects)
}

func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	project, err := h.ProjectService.GetProjectByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanProject(callerID, project, policy.ActionManageMembers) {
		utils.WriteError(w, http.StatusForbidden, "Only project admins can manage members")
		return
	}

	var req struct {
		UserID string `json:"userId"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.UserService.GetUserByID(r.Context(), req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.ProjectService.AddMemberWithRole(r.Context(), project.ID, user, req.Role); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Member added", "", nil)
}

func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	project, err := h.ProjectService.GetProjectByID(r.Context(), vars["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	memberID, err := primitive.ObjectIDFromHex(vars["memberId"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	// Leaving the project yourself does not need admin standing.
	if memberID != callerID && !policy.CanProject(callerID, project, policy.ActionManageMembers) {
		utils.WriteError(w, http.StatusForbidden, "Only project admins can manage members")
		return
	}

	if err := h.ProjectService.RemoveMember(r.Context(), project.ID, memberID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Member removed", "", nil)
}

func (h *ProjectHandler) CreateJoinRequest(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	project, err := h.ProjectService.GetProjectByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.UserService.GetUserByID(r.Context(), callerID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.ProjectService.CreateJoinRequest(r.Context(), project.ID, user, req.Role); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "Join request sent", "", nil)
}

func (h *ProjectHandler) RespondJoinRequest(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	project, err := h.ProjectService.GetProjectByID(r.Context(), vars["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanProject(callerID, project, policy.ActionManageMembers) {
		utils.WriteError(w, http.StatusForbidden, "Only project admins can respond to join requests")
		return
	}

	requesterID, err := primitive.ObjectIDFromHex(vars["userId"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.ProjectService.RespondJoinRequest(r.Context(), project.ID, requesterID, req.Accept); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Join request updated", "", nil)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	project, err := h.ProjectService.GetProjectByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanProject(callerID, project, policy.ActionDelete) {
		utils.WriteError(w, http.StatusForbidden, "Only the project owner can delete the project")
		return
	}

	if err := h.ProjectService.DeleteProject(r.Context(), project.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Project deleted", "", nil)
}
