package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength = 20
	maxClueLength = 60
	maxChatLength = 200
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// requestValidator carries the custom rules referenced by the request
// structs' validate tags.
func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("playername", func(fl validator.FieldLevel) bool {
			_, err := validateName(fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("cluetext", func(fl validator.FieldLevel) bool {
			_, err := validateClue(fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("chattext", func(fl validator.FieldLevel) bool {
			_, err := validateChatMessage(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

func validateName(name string) (string, error) {
	return validateText("name", name, maxNameLength)
}

func validateClue(text string) (string, error) {
	return validateText("clue", text, maxClueLength)
}

func validateChatMessage(text string) (string, error) {
	return validateText("message", text, maxChatLength)
}

func validateText(label, text string, maxLen int) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if len(trimmed) > maxLen {
		return "", fmt.Errorf("%s must be %d characters or fewer", label, maxLen)
	}
	if !isSafeText(trimmed) {
		return "", errors.New(label + " contains unsupported characters")
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

func isSafeText(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '.', ',', '!', '?':
			continue
		default:
			return false
		}
	}
	return true
}
