package handlers

import (
	"errors"
	"strings"

	"flottapool/internal/services"
	"flottapool/internal/utils"
	"flottapool/internal/validators"
	"flottapool/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondServiceError maps a service error onto the API envelope: validation
// failures are 400 with per-field details, conflicts are 409 with the
// conflict message verbatim, missing documents are 404 and anything else is
// a logged 500.
func respondServiceError(c *gin.Context, log *logger.Logger, err error, resource string) {
	var validationErrs validators.ValidationErrors
	if errors.As(err, &validationErrs) {
		utils.ValidationErrorResponse(c, validationErrs.Fields())
		return
	}

	var conflictErr *services.ConflictError
	if errors.As(err, &conflictErr) {
		utils.ConflictResponse(c, conflictErr.Message)
		return
	}

	msg := err.Error()
	if strings.Contains(msg, "not found") {
		utils.NotFoundResponse(c, resource)
		return
	}
	if strings.Contains(msg, "already exists") || strings.HasPrefix(msg, "invalid") {
		utils.BadRequestResponse(c, msg)
		return
	}

	log.WithError(err).WithField("request_id", c.GetString("request_id")).Error("Request failed")
	utils.InternalServerErrorResponse(c)
}

func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}
