package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSirThe1st/collaboration-sub001/services"
	"github.com/MrSirThe1st/collaboration-sub001/utils"
)

type ConversationHandler struct {
	ConversationService *services.ConversationService
	UserService         *services.UserService
}

func NewConversationHandler(conversationService *services.ConversationService, userService *services.UserService) *ConversationHandler {
	return &ConversationHandler{ConversationService: conversationService, UserService: userService}
}

func (h *ConversationHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	peerID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if peerID == callerID {
		utils.WriteError(w, http.StatusBadRequest, "cannot start a conversation with yourself")
		return
	}
	if _, err := h.UserService.GetUserByID(r.Context(), peerID.Hex()); err != nil {
		writeServiceError(w, err)
		return
	}

	conversation, err := h.ConversationService.FindOrCreateConversation(r.Context(), callerID, peerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "conversation", conversation)
}

func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	conversations, err := h.ConversationService.ListConversations(r.Context(), callerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "conversations", conversations)
}

func (h *ConversationHandler) SendDirectMessage(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	conversation, err := h.ConversationService.GetConversationByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !conversation.HasParticipant(callerID) {
		utils.WriteError(w, http.StatusForbidden, "You are not a participant in this conversation")
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

	message, err := h.ConversationService.SendDirectMessage(r.Context(), conversation, callerID, req.Content, req.Attachments)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "", "message", message)
}

func (h *ConversationHandler) ListDirectMessages(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	conversation, err := h.ConversationService.GetConversationByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !conversation.HasParticipant(callerID) {
		utils.WriteError(w, http.StatusForbidden, "You are not a participant in this conversation")
		return
	}

	messages, err := h.ConversationService.ListDirectMessages(r.Context(), conversation, callerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "messages", messages)
}

func (h *ConversationHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	conversation, err := h.ConversationService.GetConversationByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.ConversationService.SoftDeleteConversation(r.Context(), conversation, callerID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Conversation deleted", "", nil)
}
