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

type MessageHandler struct {
	MessageService *services.MessageService
	ChannelService *services.ChannelService
	ProjectService *services.ProjectService
	UserService    *services.UserService
}

func NewMessageHandler(messageService *services.MessageService, channelService *services.ChannelService, projectService *services.ProjectService, userService *services.UserService) *MessageHandler {
	return &MessageHandler{
		MessageService: messageService,
		ChannelService: channelService,
		ProjectService: projectService,
		UserService:    userService,
	}
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	channel, err := h.ChannelService.GetChannelByID(r.Context(), mux.Vars(r)["channelId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	project, err := h.ProjectService.GetProjectByID(r.Context(), channel.ProjectID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanChannel(callerID, project, channel, policy.ActionSendMessage) {
		utils.WriteError(w, http.StatusForbidden, "You cannot send messages to this channel")
		return
	}

	var req struct {
		Content     string   `json:"content"`
		Attachments []string `json:"attachments"`
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

	message, err := h.MessageService.SendMessage(r.Context(), channel.ID, sender, req.Content, req.Attachments)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "", "message", message)
}

func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	channel, err := h.ChannelService.GetChannelByID(r.Context(), mux.Vars(r)["channelId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	project, err := h.ProjectService.GetProjectByID(r.Context(), channel.ProjectID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanChannel(callerID, project, channel, policy.ActionView) {
		utils.WriteError(w, http.StatusForbidden, "You do not have access to this channel")
		return
	}

	messages, err := h.MessageService.ListMessages(r.Context(), channel.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "messages", messages)
}

func (h *MessageHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	messageID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	message, err := h.MessageService.EditMessage(r.Context(), messageID, callerID, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "message", message)
}

func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	message, err := h.MessageService.GetMessageByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// The sender may always remove their own message; otherwise the
	// caller needs admin standing on the owning project.
	if message.SenderID != callerID {
		channel, err := h.ChannelService.GetChannelByID(r.Context(), message.ChannelID.Hex())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		project, err := h.ProjectService.GetProjectByID(r.Context(), channel.ProjectID.Hex())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !policy.IsAdmin(callerID, project) {
			utils.WriteError(w, http.StatusForbidden, "Only the sender or a project admin can delete a message")
			return
		}
	}

	if err := h.MessageService.SoftDeleteMessage(r.Context(), message.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Message deleted", "", nil)
}

func (h *MessageHandler) PinMessage(w http.ResponseWriter, r *http.Request) {
	h.setPinned(w, r, true)
}

func (h *MessageHandler) UnpinMessage(w http.ResponseWriter, r *http.Request) {
	h.setPinned(w, r, false)
}

func (h *MessageHandler) setPinned(w http.ResponseWriter, r *http.Request, pinned bool) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	message, err := h.MessageService.GetMessageByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	channel, err := h.ChannelService.GetChannelByID(r.Context(), message.ChannelID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	project, err := h.ProjectService.GetProjectByID(r.Context(), channel.ProjectID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.IsAdmin(callerID, project) {
		utils.WriteError(w, http.StatusForbidden, "Only project admins can pin messages")
		return
	}

	if err := h.MessageService.PinMessage(r.Context(), message.ID, pinned); err != nil {
		writeServiceError(w, err)
		return
	}

	if pinned {
		utils.WriteSuccess(w, http.StatusOK, "Message pinned", "", nil)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Message unpinned", "", nil)
}

func (h *MessageHandler) ListPinnedMessages(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	channel, err := h.ChannelService.GetChannelByID(r.Context(), mux.Vars(r)["channelId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	project, err := h.ProjectService.GetProjectByID(r.Context(), channel.ProjectID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanChannel(callerID, project, channel, policy.ActionViewPinned) {
		utils.WriteError(w, http.StatusForbidden, "You do not have access to this channel")
		return
	}

	messages, err := h.MessageService.ListPinnedMessages(r.Context(), channel.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "messages", messages)
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	channel, err := h.ChannelService.GetChannelByID(r.Context(), mux.Vars(r)["channelId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !channel.HasMember(callerID) {
		utils.WriteError(w, http.StatusForbidden, "You do not have access to this channel")
		return
	}

	if err := h.MessageService.MarkRead(r.Context(), channel.ID, callerID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Messages marked as read", "", nil)
}
