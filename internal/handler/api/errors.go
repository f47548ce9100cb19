package api

import (
	"errors"
	"net/http"

	"AgriCast/internal/domain/models"
	xhttp "AgriCast/pkg/http"
)

func toAppError(err error) *xhttp.AppError {
	var (
		verr *models.ValidationError
		derr *models.DateFormatError
		herr *models.NoHistoricalDataError
		perr *models.PredictionError
	)
	switch {
	case errors.As(err, &verr):
		return xhttp.NewAppError(xhttp.CodeMissingFields, "", verr.Error(), http.StatusBadRequest).
			WithParam("missing_fields", verr.MissingFields).
			WithError(err)
	case errors.As(err, &derr):
		return xhttp.UnprocessableError(xhttp.CodeDateFormat, derr.Field, derr.Error()).WithError(err)
	case errors.As(err, &herr):
		return xhttp.NotFoundError(herr.Error()).WithError(err)
	case errors.As(err, &perr):
		return xhttp.BadGatewayError(xhttp.CodePrediction, perr.Error()).WithError(err)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}
