package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSirThe1st/collaboration-sub001/services"
	"github.com/MrSirThe1st/collaboration-sub001/utils"
)

type GroupHandler struct {
	GroupService *services.GroupService
	UserService  *services.UserService
}

func NewGroupHandler(groupService *services.GroupService, userService *services.UserService) *GroupHandler {
	return &GroupHandler{GroupService: groupService, UserService: userService}
}

func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	var req struct {
		Name          string `json:"name"`
		Description   string `json:"description"`
		CoverImageURL string `json:"coverImageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Name == "" {
		utils.WriteError(w, http.StatusBadRequest, "group name is required")
		return
	}

	owner, err := h.UserService.GetUserByID(r.Context(), callerID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	group, err := h.GroupService.CreateGroup(r.Context(), req.Name, req.Description, req.CoverImageURL, owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "Group created", "group", group)
}

func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	group, err := h.GroupService.GetGroupByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !groupHasMember(group.MemberIDs, callerID) {
		utils.WriteError(w, http.StatusForbidden, "You are not a member of this group")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "group", group)
}

func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	groups, err := h.GroupService.ListGroupsForUser(r.Context(), callerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "groups", groups)
}

func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	group, err := h.GroupService.GetGroupByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if group.OwnerID != callerID {
		utils.WriteError(w, http.StatusForbidden, "Only the group owner can add members")
		return
	}

	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.GroupService.AddMember(r.Context(), group.ID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Member added", "", nil)
}

func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	group, err := h.GroupService.GetGroupByID(r.Context(), vars["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	memberID, err := primitive.ObjectIDFromHex(vars["memberId"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	// Members may leave on their own; removing someone else is owner-only.
	if memberID != callerID && group.OwnerID != callerID {
		utils.WriteError(w, http.StatusForbidden, "Only the group owner can remove members")
		return
	}

	if err := h.GroupService.RemoveMember(r.Context(), group.ID, memberID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Member removed", "", nil)
}

func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	group, err := h.GroupService.GetGroupByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if group.OwnerID != callerID {
		utils.WriteError(w, http.StatusForbidden, "Only the group owner can delete the group")
		return
	}

	if err := h.GroupService.DeleteGroup(r.Context(), group.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Group deleted", "", nil)
}

func groupHasMember(memberIDs []primitive.ObjectID, userID primitive.ObjectID) bool {
	for _, id := range memberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
