package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pixelforge/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ListUsers 管理员查询用户列表。
func (h *HTTPHandler) ListUsers(c *gin.Context) {
	var query entity.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	users, total, err := h.repo.ListUsers(ctx, query)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		InternalError(c, "failed to list users")
		return
	}

	summaries := make([]entity.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, makeUserSummary(&users[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"items": summaries,
		"meta":  makeMeta(query.BaseParams, total),
	})
}

type updateUserRequest struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateUser 管理员修改用户资料、角色或启用状态。
func (h *HTTPHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	if req.Role != nil {
		role := strings.TrimSpace(*req.Role)
		if role != entity.UserRoleAdmin && role != entity.UserRoleUser {
			BadRequest(c, ErrCodeInvalidRequest, "invalid role")
			return
		}
		req.Role = &role
	}

	updates := entity.UserUpdates{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		IsActive:    req.IsActive,
	}
	if updates.IsEmpty() {
		BadRequest(c, ErrCodeInvalidRequest, "no fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateUser(ctx, uint(id), updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeUserNotFound, "user not found")
			return
		}
		logrus.WithError(err).WithField("user_id", id).Error("failed to update user")
		InternalError(c, "failed to update user")
		return
	}

	user, err := h.repo.GetUserByID(ctx, uint(id))
	if err != nil {
		logrus.WithError(err).WithField("user_id", id).Error("failed to reload user")
		InternalError(c, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, makeUserSummary(user))
}

type grantCreditsRequest struct {
	Amount int64 `json:"amount"`
}

// GrantCredits 管理员给用户充值积分。
func (h *HTTPHandler) GrantCredits(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid user id")
		return
	}

	var req grantCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if req.Amount <= 0 {
		BadRequest(c, ErrCodeInvalidRequest, "amount must be positive")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.AddCredits(ctx, uint(id), req.Amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeUserNotFound, "user not found")
			return
		}
		logrus.WithError(err).WithField("user_id", id).Error("failed to grant credits")
		InternalError(c, "failed to grant credits")
		return
	}

	credits, err := h.repo.GetUserCredits(ctx, uint(id))
	if err != nil {
		logrus.WithError(err).WithField("user_id", id).Error("failed to reload credits")
		InternalError(c, "failed to grant credits")
		return
	}

	logrus.WithFields(logrus.Fields{
		"user_id": id,
		"amount":  req.Amount,
		"by":      CurrentUser(c).ID,
	}).Info("credits_granted")

	c.JSON(http.StatusOK, gin.H{"credits": credits})
}
