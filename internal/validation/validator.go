package validation

import (
	"regexp"
	"strconv"
	"strings"

	"project-tracker/internal/domain"

	"github.com/google/uuid"
)

// MaxAnswersPerRequest bounds how many answer fields one request may carry.
// The largest schema sheet has well under a hundred questions.
const MaxAnswersPerRequest = 200

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateWorkstream parses and range-checks a workstream path parameter.
func (v *Validator) ValidateWorkstream(raw string) (int, domain.ValidationErrors) {
	if strings.TrimSpace(raw) == "" {
		return 0, domain.ValidationErrors{domain.NewMissingFieldError("workstream")}
	}
	ws, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("workstream", raw)}
	}
	if ws < 1 || ws > 5 {
		return 0, domain.ValidationErrors{domain.NewOutOfRangeError("workstream", ws, 1, 5)}
	}
	return ws, nil
}

// ValidateSessionID checks a render session identifier (ULID format).
func (v *Validator) ValidateSessionID(sessionID string) domain.ValidationErrors {
	if strings.TrimSpace(sessionID) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("session_id")}
	}
	if !isValidULID(sessionID) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("session_id", sessionID)}
	}
	return nil
}

// ValidateSubmitRequest validates the submit trigger: the project context is
// mandatory and must be a UUID, the final answer merge is bounded.
func (v *Validator) ValidateSubmitRequest(projectID string, answers map[string]interface{}) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(projectID) == "" {
		errors = append(errors, domain.NewMissingFieldError("project_id"))
	} else if _, err := uuid.Parse(projectID); err != nil {
		errors = append(errors, domain.NewInvalidFormatError("project_id", projectID))
	}

	if len(answers) > MaxAnswersPerRequest {
		errors = append(errors, domain.NewOutOfRangeError("answers", len(answers), 0, MaxAnswersPerRequest))
	}

	return errors
}

// ValidateSaveAnswersRequest validates an answer merge.
func (v *Validator) ValidateSaveAnswersRequest(answers map[string]interface{}) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(answers) == 0 {
		errors = append(errors, domain.NewMissingFieldError("answers"))
	} else if len(answers) > MaxAnswersPerRequest {
		errors = append(errors, domain.NewOutOfRangeError("answers", len(answers), 1, MaxAnswersPerRequest))
	}
	for qid := range answers {
		if strings.TrimSpace(qid) == "" {
			errors = append(errors, domain.NewMissingFieldError("answers key"))
			break
		}
	}

	return errors
}

// ValidateLoginRequest validates an email/password sign-in attempt.
func (v *Validator) ValidateLoginRequest(email, password string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(email) == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	} else if !isValidEmail(email) {
		errors = append(errors, domain.NewInvalidFormatError("email", email))
	}

	if password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}

	return errors
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	if len(s) != 26 {
		return false
	}
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}

// isValidEmail does a shape check, not RFC enforcement.
func isValidEmail(s string) bool {
	if len(s) > 254 {
		return false
	}
	validEmail := regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	return validEmail.MatchString(s)
}
