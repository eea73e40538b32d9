package handler

import (
	"errors"
	"io"
	"net/http"

	"taste-tribe/internal/model"
	"taste-tribe/internal/service"
	"taste-tribe/pkg/apierror"
)

// multipartOverhead is the slack allowed on top of the avatar size for the
// multipart envelope and any extra form fields.
const multipartOverhead = 1 << 20

type UserHandler struct {
	users          *service.UserService
	auth           *service.AuthService
	maxAvatarBytes int64
}

func NewUserHandler(users *service.UserService, auth *service.AuthService, maxAvatarBytes int64) *UserHandler {
	return &UserHandler{users: users, auth: auth, maxAvatarBytes: maxAvatarBytes}
}

// Create is the legacy alias of POST /api/auth/register.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.auth.Register(r.Context(), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, nil)
}

func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), claims)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := pathID(r)
	if userID == "" {
		writeError(w, r, apierror.Validation("user id is required", "id"))
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.UpdateUserRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.Update(r.Context(), claims, pathID(r), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	userID := pathID(r)
	if err := h.users.Delete(r.Context(), claims, userID); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"deleted": userID}, nil)
}

// UploadAvatar accepts a multipart form with the image in the "avatar" field.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxAvatarBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxAvatarBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, apierror.New(apierror.CodePayloadTooLarge, "avatar exceeds the maximum upload size", "", http.StatusRequestEntityTooLarge))
			return
		}
		writeError(w, r, apierror.Validation("No file part", "avatar"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("avatar")
	if err != nil {
		// A part sent without a filename is parsed as a plain value.
		if _, present := r.MultipartForm.Value["avatar"]; present {
			writeError(w, r, apierror.Validation("No selected file", "avatar"))
			return
		}
		writeError(w, r, apierror.Validation("No file part", "avatar"))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, r, apierror.Validation("No selected file", "avatar"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxAvatarBytes+1))
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.UploadAvatar(r.Context(), claims, header.Filename, data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"secure_url": user.ProfilePicture,
		"user":       user,
	}, nil)
}
