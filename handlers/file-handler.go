package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSirThe1st/collaboration-sub001/policy"
	"github.com/MrSirThe1st/collaboration-sub001/services"
	"github.com/MrSirThe1st/collaboration-sub001/utils"
)

// maxUploadBytes caps a single multipart upload.
const maxUploadBytes = 50 << 20

type FileHandler struct {
	FileService    *services.FileService
	ProjectService *services.ProjectService
}

func NewFileHandler(fileService *services.FileService, projectService *services.ProjectService) *FileHandler {
	return &FileHandler{FileService: fileService, ProjectService: projectService}
}

func (h *FileHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		Name     string `json:"name"`
		ParentID string `json:"parentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var parentID *primitive.ObjectID
	if req.ParentID != "" {
		id, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid parent folder id")
			return
		}
		parentID = &id
	}

	folder, err := h.FileService.CreateFolder(r.Context(), project.ID, parentID, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "Folder created", "folder", folder)
}

func (h *FileHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
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

	folders, err := h.FileService.ListFolders(r.Context(), project.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "folders", folders)
}

func (h *FileHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	folder, err := h.FileService.GetFolderByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	project, err := h.ProjectService.GetProjectByID(r.Context(), folder.ProjectID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanProject(callerID, project, policy.ActionUpdate) {
		utils.WriteError(w, http.StatusForbidden, "Only project admins can delete folders")
		return
	}

	if err := h.FileService.SoftDeleteFolder(r.Context(), folder.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Folder deleted", "", nil)
}

func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
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

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	var folderID *primitive.ObjectID
	if v := r.FormValue("folderId"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid folder id")
			return
		}
		folderID = &id
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	file, err := h.FileService.UploadFile(r.Context(), project.ID, folderID, callerID, header.Filename, contentType, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "File uploaded", "file", file)
}

func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
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

	var folderID *primitive.ObjectID
	if v := r.URL.Query().Get("folderId"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid folder id")
			return
		}
		folderID = &id
	}

	files, err := h.FileService.ListFiles(r.Context(), project.ID, folderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "files", files)
}

func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	file, err := h.FileService.GetFileByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	project, err := h.ProjectService.GetProjectByID(r.Context(), file.ProjectID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !policy.CanProject(callerID, project, policy.ActionView) {
		utils.WriteError(w, http.StatusForbidden, "You are not a member of this project")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "file", file)
}

func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(w, r)
	if !ok {
		return
	}

	file, err := h.FileService.GetFileByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	project, err := h.ProjectService.GetProjectByID(r.Context(), file.ProjectID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// The uploader may remove their own file; otherwise admin standing.
	if file.UploaderID != callerID && !policy.IsAdmin(callerID, project) {
		utils.WriteError(w, http.StatusForbidden, "Only the uploader or a project admin can delete a file")
		return
	}

	if err := h.FileService.SoftDeleteFile(r.Context(), file.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "File deleted", "", nil)
}
