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

type ChannelHandler struct {
	ChannelService *services.ChannelService
	ProjectService *services.ProjectService
	UserService    *services.UserService
}

func NewChannelHandler(channelService *services.ChannelService, projectService *services.ProjectService, userService *services.UserService) *ChannelHandler {
	return &ChannelHandler{ChannelService: channelService, ProjectService: projectService, UserService: userService}
}

// loadChannel fetches a channel and its owning project, enforcing at
// least the given action. Writes the error response itself on failure.
func (h *ChannelHandler) loadChannel(w http.ResponseWriter, r *http.Request, channelID string, callerID primitive.ObjectID, action policy.Action) (*models.Channel, *models.Project, bool) {
	channel, err := h.ChannelService.GetChannelByID(r.Context(), channelID)
	if err != nil {
		writeServiceError(w, err)
		return nil, nil, false
	}
	project, err := h.ProjectService.GetProjectByID(r.Context(), channel.ProjectID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return nil, nil, false
	}
	if !policy.CanChannel(callerID, project, channel, action) {
		utils.WriteError(w, http.StatusForbidden, "You do not have access to this channel")
		return nil, nil, false
	}
	return channel, project, true
}

func (h *ChannelHandler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	project, err := h.ProjectService.GetProjectByID(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanProject(callerID, project, policy.ActionCreateChannel) {
		utils.WriteError(w, http.StatusForbidden, "Only project admins can create channels")
		return
	}

	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	channel, err := h.ChannelService.CreateChannel(r.Context(), project, req.Name, models.ChannelType(req.Type), req.Role, callerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "Channel created", "channel", channel)
}

func (h *ChannelHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
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

	channels, err := h.ChannelService.ListChannelsForProject(r.Context(), project.ID, callerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "channels", channels)
}

func (h *ChannelHandler) GetChannel(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	channel, _, ok := h.loadChannel(w, r, mux.Vars(r)["id"], callerID, policy.ActionView)
	if !ok {
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "channel", channel)
}

func (h *ChannelHandler) DeleteChannel(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	channel, err := h.ChannelService.GetChannelByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	project, err := h.ProjectService.GetProjectByID(r.Context(), channel.ProjectID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanChannel(callerID, project, channel, policy.ActionDelete) {
		utils.WriteError(w, http.StatusForbidden, "Only project admins can delete channels")
		return
	}

	if err := h.ChannelService.SoftDeleteChannel(r.Context(), channel.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Channel deleted", "", nil)
}

func (h *ChannelHandler) PostAnnouncement(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	channel, err := h.ChannelService.GetChannelByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	project, err := h.ProjectService.GetProjectByID(r.Context(), channel.ProjectID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanChannel(callerID, project, channel, policy.ActionPostAnnouncement) {
		utils.WriteError(w, http.StatusForbidden, "Only project admins can post announcements")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	sender, err := h.UserService.GetUserByID(r.Context(), callerID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	announcement, err := h.ChannelService.PostAnnouncement(r.Context(), channel, sender, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "Announcement posted", "announcement", announcement)
}

func (h *ChannelHandler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	channel, err := h.ChannelService.GetChannelByID(r.Context(), vars["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	project, err := h.ProjectService.GetProjectByID(r.Context(), channel.ProjectID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanChannel(callerID, project, channel, policy.ActionPostAnnouncement) {
		utils.WriteError(w, http.StatusForbidden, "Only project admins can delete announcements")
		return
	}

	announcementID, err := primitive.ObjectIDFromHex(vars["announcementId"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid announcement id")
		return
	}

	if err := h.ChannelService.DeleteAnnouncement(r.Context(), channel, announcementID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Announcement deleted", "", nil)
}
