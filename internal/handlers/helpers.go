package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"chitieu/internal/config"
	apperrors "chitieu/internal/errors"
	"chitieu/internal/logger"
	"chitieu/internal/services"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	return userID.(string), nil
}

// parseScope reads the optional scope query parameter. Anything other than
// the literal "family" means personal.
func parseScope(c *gin.Context) services.Scope {
	if c.Query("scope") == string(services.ScopeFamily) {
		return services.ScopeFamily
	}
	return services.ScopePersonal
}

// parseDateRange reads optional from/to query parameters in YYYY-MM-DD form,
// interpreted in the reporting timezone. The returned "to" covers the whole
// named day so a range like from=to=2026-01-15 still matches that day's rows.
func parseDateRange(c *gin.Context) (from, to *time.Time, err error) {
	loc := config.Get().ReportLocation()

	if v := c.Query("from"); v != "" {
		parsed, perr := time.ParseInLocation("2006-01-02", v, loc)
		if perr != nil {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be YYYY-MM-DD")
		}
		from = &parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, perr := time.ParseInLocation("2006-01-02", v, loc)
		if perr != nil {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must be YYYY-MM-DD")
		}
		endOfDay := parsed.Add(24*time.Hour - time.Nanosecond)
		to = &endOfDay
	}
	return from, to, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
