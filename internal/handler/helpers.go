package handler

import (
	"errors"
	"net/http"

	"leadhub/internal/apierror"
	"leadhub/internal/middleware"
	"leadhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Used for the simple request DTOs (auth); buyer payloads go through the
// constraint engine in the service layer instead. Returns false and writes
// the error response if validation fails — the caller should return
// immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string][]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = append(fields[fe.Field()], fe.Tag())
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// actorID resolves the authenticated agent id from the JWT claims.
// Aborts with 401 when the token carries no usable subject.
func actorID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Authentication required"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalid or expired"))
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps the service error taxonomy onto HTTP responses.
// Anything unrecognized is an opaque storage fault: logged, returned as 500.
func writeServiceError(c *gin.Context, err error) {
	var verr *service.ValidationFailedError
	var berr *service.BatchTooLargeError
	var rerr *service.ImportRowsError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(verr.Fields))
	case errors.Is(err, service.ErrBuyerNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Buyer not found"))
	case errors.Is(err, service.ErrVersionConflict):
		c.JSON(http.StatusConflict, apierror.New("Record changed, please refresh"))
	case errors.As(err, &berr):
		c.JSON(http.StatusBadRequest, apierror.New(berr.Error()))
	case errors.As(err, &rerr):
		c.JSON(http.StatusBadRequest, apierror.NewImport(rerr.Rows))
	case errors.Is(err, service.ErrInvalidCSV):
		c.JSON(http.StatusBadRequest, apierror.New("Invalid CSV format"))
	default:
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Err(err).
			Msg("storage error")
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
	}
}
