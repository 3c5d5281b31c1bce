package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/widyatama/go-account-api/internal/application"
	"github.com/widyatama/go-account-api/internal/interface/middleware"
	"github.com/widyatama/go-account-api/pkg/response"
	"github.com/widyatama/go-account-api/pkg/validation"
)

// AccountHandler exposes the profile surface and the admin paths.
type AccountHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.Service, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

func (h *AccountHandler) fail(c *gin.Context, op string, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError && h.Logger != nil {
		h.Logger.WithError(err).WithField("op", op).Error("account operation failed")
	}
	response.Error[any](c, status, msg, nil)
}

// GetProfile GET /api/profile (auth required)
func (h *AccountHandler) GetProfile(c *gin.Context) {
	id := c.GetString(middleware.CtxAccountIDKey)
	acct, err := h.Svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get_profile", err)
		return
	}
	response.Success(c, http.StatusOK, accountView(acct), "profile", nil)
}

type updateProfileRequest struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
}

// UpdateProfile PUT /api/profile (auth required)
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	id := c.GetString(middleware.CtxAccountIDKey)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	acct, err := h.Svc.UpdateProfile(c.Request.Context(), id, application.UpdateProfileInput{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		h.fail(c, "update_profile", err)
		return
	}
	response.Success(c, http.StatusOK, accountView(acct), "profile updated", nil)
}

// UploadAvatar POST /api/profile/avatar (auth required, multipart)
func (h *AccountHandler) UploadAvatar(c *gin.Context) {
	id := c.GetString(middleware.CtxAccountIDKey)
	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read avatar file", nil)
		return
	}
	defer func() { _ = src.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), id, src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		h.fail(c, "upload_avatar", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar uploaded", nil)
}

// Search GET /api/admin/accounts/search?q=&size= (admin only)
func (h *AccountHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchAccounts(c.Request.Context(), q, size)
	if err != nil {
		h.fail(c, "search_accounts", err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

// List GET /api/admin/accounts (admin only; includes soft-deleted)
func (h *AccountHandler) List(c *gin.Context) {
	accts, err := h.Svc.ListAccounts(c.Request.Context())
	if err != nil {
		h.fail(c, "list_accounts", err)
		return
	}
	out := make([]gin.H, 0, len(accts))
	for _, a := range accts {
		v := accountView(a)
		v["deleted"] = a.Deleted
		if a.DeletedAt != nil {
			v["deleted_at"] = a.DeletedAt
			v["deleted_by"] = a.DeletedBy
		}
		out = append(out, v)
	}
	response.Success(c, http.StatusOK, out, "accounts", gin.H{"count": len(out)})
}

// SoftDelete DELETE /api/admin/accounts/:id (admin only)
func (h *AccountHandler) SoftDelete(c *gin.Context) {
	id := c.Param("id")
	deletedBy := c.GetString(middleware.CtxAccountIDKey)
	if err := h.Svc.SoftDeleteAccount(c.Request.Context(), id, deletedBy); err != nil {
		h.fail(c, "soft_delete", err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "account deleted", nil)
}

// HardDelete DELETE /api/admin/accounts/:id/purge (admin only)
func (h *AccountHandler) HardDelete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.HardDeleteAccount(c.Request.Context(), id); err != nil {
		h.fail(c, "hard_delete", err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"purged": true}, "account purged", nil)
}
