package validator

import (
	"regexp"

	"facegate.io/application/utils"
	"github.com/go-playground/validator/v10"
)

// validateBase64Image accepts raw base64 or a data-URI image payload.
func validateBase64Image(fl validator.FieldLevel) bool {
	payload := fl.Field().String()
	if payload == "" {
		return false
	}
	_, err := utils.DecodeBase64Image(payload)
	return err == nil
}

var checkpointIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

func validateCheckpointID(fl validator.FieldLevel) bool {
	return checkpointIDPattern.MatchString(fl.Field().String())
}
