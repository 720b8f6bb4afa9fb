package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stemsi/siakad-backend/internal/apperror"
	"github.com/stemsi/siakad-backend/internal/response"
)

// failFromService renders a service-layer error. Typed errors keep their
// code and message; anything untyped becomes a 500 and gets logged.
func failFromService(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		log.Error().Err(err).
			Str("path", c.FullPath()).
			Msg("unhandled service error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.FailMessage(c, statusForKind(appErr.Kind), response.ErrCode(appErr.Code), appErr.Message)
}

func statusForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict, apperror.KindInvalidState:
		return http.StatusConflict
	case apperror.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// idParam parses the named path parameter as a positive integer id.
func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// pageQuery reads page/per_page query params with defaults.
func pageQuery(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	return page, perPage
}
