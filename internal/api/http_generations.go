package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pixelforge/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ListMyGenerations 返回当前用户的生成历史。
func (h *HTTPHandler) ListMyGenerations(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var params entity.BaseParams
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	generations, total, err := h.repo.ListGenerationsByUser(ctx, user.ID, params)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to list generations")
		InternalError(c, "failed to list generations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": generations,
		"meta":  makeMeta(params, total),
	})
}

// ListGallery 返回公开的生成记录，无需登录。
func (h *HTTPHandler) ListGallery(c *gin.Context) {
	var params entity.BaseParams
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	generations, total, err := h.repo.ListPublicGenerations(ctx, params)
	if err != nil {
		logrus.WithError(err).Error("failed to list gallery")
		InternalError(c, "failed to list gallery")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": generations,
		"meta":  makeMeta(params, total),
	})
}

// GetGeneration 返回单条生成记录。私有记录仅所有者和管理员可见。
func (h *HTTPHandler) GetGeneration(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid generation id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	generation, err := h.repo.GetGeneration(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeRecordNotFound, "generation not found")
			return
		}
		logrus.WithError(err).WithField("generation_id", id).Error("failed to load generation")
		InternalError(c, "failed to load generation")
		return
	}

	if !generation.IsPublic {
		user := CurrentUser(c)
		isOwner := user != nil && generation.UserID != nil && *generation.UserID == user.ID
		if !isOwner && (user == nil || !user.IsAdmin()) {
			NotFound(c, ErrCodeRecordNotFound, "generation not found")
			return
		}
	}

	c.JSON(http.StatusOK, generation)
}

// DeleteGeneration 删除一条生成记录，仅所有者和管理员可操作。
// 只删除数据库记录，对象存储中的文件保留。
func (h *HTTPHandler) DeleteGeneration(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid generation id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	generation, err := h.repo.GetGeneration(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeRecordNotFound, "generation not found")
			return
		}
		logrus.WithError(err).WithField("generation_id", id).Error("failed to load generation")
		InternalError(c, "failed to delete generation")
		return
	}

	isOwner := generation.UserID != nil && *generation.UserID == user.ID
	if !isOwner && !user.IsAdmin() {
		Forbidden(c, "not allowed to delete this generation")
		return
	}

	if err := h.repo.DeleteGeneration(ctx, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeRecordNotFound, "generation not found")
			return
		}
		logrus.WithError(err).WithField("generation_id", id).Error("failed to delete generation")
		InternalError(c, "failed to delete generation")
		return
	}

	c.Status(http.StatusNoContent)
}

func makeMeta(params entity.BaseParams, total int64) entity.Meta {
	page := params.Page
	if page <= 0 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	// 和仓储层的分页上限保持一致，meta 返回实际生效的值
	if pageSize > 100 {
		pageSize = 100
	}
	return entity.Meta{Page: page, PageSize: pageSize, Total: total}
}
