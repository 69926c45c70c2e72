package api

import (
	"errors"
	"net/http"

	"pixelforge/internal/entity"
	"pixelforge/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Generate 处理一次图像生成请求。
//
// 响应使用 {success, data, error} 信封。失败分类：
// 参数或模型问题 400，余额不足 402，用户不存在 404，其余 500。
func (h *HTTPHandler) Generate(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, entity.GenerateResponse{Success: false, Error: "authentication required"})
		return
	}

	var req entity.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.GenerateResponse{Success: false, Error: "invalid request payload"})
		return
	}

	generation, err := h.generationService.Generate(c.Request.Context(), user.ID, req)
	if err != nil {
		status, message := classifyGenerateError(err)
		if status == http.StatusInternalServerError {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id": user.ID,
				"model":   req.ModelID,
			}).Error("generation_failed")
		}
		c.JSON(status, entity.GenerateResponse{Success: false, Error: message})
		return
	}

	c.JSON(http.StatusOK, entity.GenerateResponse{
		Success: true,
		Data:    &entity.GenerateResponseData{Generation: generation},
	})
}

func classifyGenerateError(err error) (int, string) {
	var invalid *service.InvalidRequestError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest, invalid.Error()
	}

	var unsupported *service.UnsupportedModelError
	if errors.As(err, &unsupported) {
		return http.StatusBadRequest, unsupported.Error()
	}

	var unavailable *service.ModelUnavailableError
	if errors.As(err, &unavailable) {
		return http.StatusBadRequest, unavailable.Error()
	}

	if errors.Is(err, entity.ErrInsufficientCredits) {
		return http.StatusPaymentRequired, "insufficient credits"
	}

	if errors.Is(err, service.ErrUserNotFound) {
		return http.StatusNotFound, "user not found"
	}

	return http.StatusInternalServerError, "generation failed"
}
