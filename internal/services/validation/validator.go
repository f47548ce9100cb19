package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"AgriCast/internal/domain/models"
	"AgriCast/pkg/util"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	FieldMinPrice    = "Min_Price"
	FieldMaxPrice    = "Max_Price"
	FieldArrivalDate = "Arrival_Date"
)

// Validator enforces the required-field and date-format contract on raw queries.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// notblank is part of the non-standard set and never fails registration.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &Validator{validate: v}
}

// ValidatePredict checks the six required fields and parses Arrival_Date.
// Min_Price and Max_Price may be nil.
func (v *Validator) ValidatePredict(q *models.PriceQuery) (time.Time, error) {
	return v.check(q, false)
}

// ValidateAnalysis is ValidatePredict plus non-null Min_Price and Max_Price,
// which every synthesized forecast row needs.
func (v *Validator) ValidateAnalysis(q *models.PriceQuery) (time.Time, error) {
	return v.check(q, true)
}

func (v *Validator) check(q *models.PriceQuery, requirePrices bool) (time.Time, error) {
	if q == nil {
		return time.Time{}, fmt.Errorf("query is nil")
	}

	missing, err := v.missingFields(q)
	if err != nil {
		return time.Time{}, err
	}
	if requirePrices {
		if q.MinPrice == nil {
			missing = append(missing, FieldMinPrice)
		}
		if q.MaxPrice == nil {
			missing = append(missing, FieldMaxPrice)
		}
	}
	if len(missing) > 0 {
		return time.Time{}, &models.ValidationError{MissingFields: missing}
	}

	date, ok := util.ParseDate(q.ArrivalDate)
	if !ok {
		return time.Time{}, &models.DateFormatError{Field: FieldArrivalDate, Value: q.ArrivalDate}
	}
	return date, nil
}

// missingFields returns the names of all blank required fields in
// declaration order.
func (v *Validator) missingFields(q *models.PriceQuery) ([]string, error) {
	err := v.validate.Struct(q)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("validate query: %w", err)
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field())
	}
	return out, nil
}
