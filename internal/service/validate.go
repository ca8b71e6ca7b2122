package service

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/guregu/null/v5"

	"github.com/crucial707/hci-inventory/internal/models"
)

var validate = newValidator()

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct turns validator failures into a FieldValidationError
// marked with models.ErrValidation.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate")
	}
	fields := models.FieldValidationError{}
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return errors.Mark(fields, models.ErrValidation)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "datetime":
		return "must be a date (YYYY-MM-DD)"
	}
	return "invalid"
}

func invalidField(field, msg string) error {
	return errors.Mark(models.FieldValidationError{field: msg}, models.ErrValidation)
}

func optString(s string) null.String {
	return null.NewString(s, s != "")
}

func optDate(s string) null.Time {
	if s == "" {
		return null.Time{}
	}
	// already checked by the datetime tag
	t, _ := time.Parse(models.DateLayout, s)
	return null.TimeFrom(t)
}

// assetFromInput validates in (already trimmed) and maps it onto an Asset.
func assetFromInput(in models.AssetInput) (models.Asset, error) {
	if err := validateStruct(in); err != nil {
		return models.Asset{}, err
	}
	return models.Asset{
		SiteName:           in.SiteName,
		RoomNumber:         optString(in.RoomNumber),
		RoomName:           optString(in.RoomName),
		AssetTag:           in.AssetTag,
		AssetType:          in.AssetType,
		Category:           optString(in.Category),
		Model:              optString(in.Model),
		SerialNumber:       optString(in.SerialNumber),
		Notes:              optString(in.Notes),
		AssignedTo:         optString(in.AssignedTo),
		DateAssigned:       optDate(in.DateAssigned),
		DateDecommissioned: optDate(in.DateDecommissioned),
		IsLoaner:           in.IsLoaner,
	}, nil
}
