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

type InvitationHandler struct {
	InvitationService *services.InvitationService
	ProjectService    *services.ProjectService
}

func NewInvitationHandler(invitationService *services.InvitationService, projectService *services.ProjectService) *InvitationHandler {
	return &InvitationHandler{InvitationService: invitationService, ProjectService: projectService}
}

func (h *InvitationHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	project, err := h.ProjectService.GetProjectByID(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanProject(callerID, project, policy.ActionManageMembers) {
		utils.WriteError(w, http.StatusForbidden, "Only project admins can invite users")
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

	recipientID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	invitation, err := h.InvitationService.CreateInvitation(r.Context(), project, callerID, recipientID, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "Invitation sent", "invitation", invitation)
}

func (h *InvitationHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	invitations, err := h.InvitationService.ListForRecipient(r.Context(), callerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "invitations", invitations)
}

func (h *InvitationHandler) RespondToInvitation(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	invitation, err := h.InvitationService.GetInvitationByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.InvitationService.RespondToInvitation(r.Context(), invitation, callerID, req.Accept); err != nil {
		writeServiceError(w, err)
		return
	}

	if req.Accept {
		utils.WriteSuccess(w, http.StatusOK, "Invitation accepted", "", nil)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Invitation declined", "", nil)
}
