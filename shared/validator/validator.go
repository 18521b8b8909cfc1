package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"lodge/shared/base64"
	"lodge/shared/date"
	"lodge/shared/failure"

	val "github.com/go-playground/validator/v10"
)

const bytesPerMB = 1024 * 1024

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())

	// messages name fields the way clients send them
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}

		return name
	})

	custom := map[string]val.Func{
		"date":        isDate,
		"mimetypes":   hasMimetype,
		"maxfilesize": withinFileSize,
	}

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	return v
}

// isDate accepts calendar dates written as YYYY-MM-DD.
func isDate(field val.FieldLevel) bool {
	_, err := date.Parse(field.Field().String())

	return err == nil
}

// hasMimetype checks the media type of a base64 data URI against a space separated list.
func hasMimetype(field val.FieldLevel) bool {
	contentType := base64.GetContentType(field.Field().String())
	if contentType == "" {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), contentType)
}

// withinFileSize bounds the encoded length of a data URI in megabytes.
func withinFileSize(field val.FieldLevel) bool {
	limit, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return float64(field.Field().Len()) <= limit*bytesPerMB
}

// Validate decodes a JSON body into data and validates it. Both failures are 400s.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
