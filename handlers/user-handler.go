package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MrSirThe1st/collaboration-sub001/services"
	"github.com/MrSirThe1st/collaboration-sub001/utils"
)

type UserHandler struct {
	UserService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.GetUserByID(r.Context(), callerID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "user", user)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := caller(w, r); !ok {
		return
	}

	user, err := h.UserService.GetUserByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "user", user)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := caller(w, r); !ok {
		return
	}

	users, err := h.UserService.GetAllUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "users", users)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	var req struct {
		Name       string `json:"name"`
		LastName   string `json:"lastName"`
		Profession string `json:"profession"`
		Bio        string `json:"bio"`
		AvatarURL  string `json:"avatarUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.UserService.UpdateProfile(r.Context(), callerID, req.Name, req.LastName, req.Profession, req.Bio, req.AvatarURL)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Profile updated", "user", user)
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.UserService.DeleteAccount(r.Context(), callerID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Account deleted", "", nil)
}
