package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/repurpose_server/internal/pkg/extractor"
	"github.com/qs3c/repurpose_server/internal/pkg/repurpose"
	"github.com/qs3c/repurpose_server/internal/pkg/response"
	"github.com/qs3c/repurpose_server/internal/service"
)

const (
	youtubeHint = "Try using a YouTube video with auto-generated or manual captions, or provide a blog/article URL instead."
	blogHint    = "Make sure the URL is a public blog post or article."
)

// 直接把 service 错误文案返回给前端的参数类错误
var paramErrors = []error{
	service.ErrEmailExists,
	service.ErrNameRequired,
	service.ErrURLRequired,
	service.ErrInvalidURL,
	service.ErrInvalidPlatform,
	service.ErrPasswordNotSet,
	service.ErrWrongPassword,
	service.ErrNoValidUpdate,
	service.ErrTweetInvalid,
	service.ErrNotLinked,
	service.ErrReconnectRequired,
	service.ErrRefreshFailed,
	service.ErrOAuthState,
	service.ErrPaymentNotPending,
}

var unavailableErrors = []error{
	service.ErrOAuthDisabled,
	service.ErrTwitterDisabled,
	service.ErrPaymentUnavailable,
	service.ErrExportUnavailable,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError 把 service 层错误映射成统一响应，未知错误记到 gin 上下文由请求日志输出
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		response.AuthError(c, "")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.AuthError(c, err.Error())
	case isAny(err, paramErrors):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrInsufficientCredits):
		response.CreditsError(c, "")
	case errors.Is(err, service.ErrContentTooShort):
		response.Error(c, response.CodeContentTooShort, "")
	case errors.Is(err, extractor.ErrExtractionFailed):
		respondExtractionError(c, err)
	case errors.Is(err, repurpose.ErrGenerationFailed):
		_ = c.Error(err)
		response.ErrorWithDetail(c, response.CodeGenerationFailed, "", err)
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrGenerationNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		response.PermissionError(c, "")
	case errors.Is(err, service.ErrSignatureInvalid):
		response.Error(c, response.CodePaymentInvalid, "")
	case isAny(err, unavailableErrors):
		response.Error(c, response.CodeServiceUnavailable, err.Error())
	default:
		_ = c.Error(err)
		response.ServerErrorWithDetail(c, "", err)
	}
}

func respondExtractionError(c *gin.Context, err error) {
	switch extractor.KindOf(err) {
	case extractor.KindInvalidURL:
		response.ParamError(c, service.ErrInvalidURL.Error())
	case extractor.KindTranscriptUnavailable:
		response.ErrorWithHint(c, response.CodeExtractionFailed,
			"No transcript available for this video. Please ensure the video has captions/subtitles enabled, or try a different video.", youtubeHint)
	case extractor.KindVideoUnavailable:
		response.ErrorWithHint(c, response.CodeExtractionFailed,
			"Cannot access this video. It may be private, age-restricted, or unavailable.", youtubeHint)
	case extractor.KindEmptyTranscript:
		msg := "The video's transcript is empty or unreadable. Please try a different video."
		if errors.Is(err, extractor.ErrTranscriptTooShort) {
			msg = "The video transcript is too short to generate meaningful content. Please try a longer video."
		}
		response.ErrorWithHint(c, response.CodeExtractionFailed, msg, youtubeHint)
	default:
		response.ErrorWithHint(c, response.CodeExtractionFailed,
			"Failed to extract content from the provided URL. The page may be protected or inaccessible.", blogHint)
	}
}

// safeRedirectPath 只允许站内相对路径，防止开放重定向
func safeRedirectPath(path string) string {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.Contains(path, "\\") {
		return ""
	}
	return path
}
