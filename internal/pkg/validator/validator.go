// Package validator validates inbound API requests.
package validator

import (
	"fmt"
	"strings"

	"github.com/codeware/chatbot-backend/internal/entity"
)

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateChat checks the POST /chat request body.
func (v *Validator) ValidateChat(req *entity.ChatRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: user_id", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.Question) == "" {
		return fmt.Errorf("%w: question", entity.ErrMissingField)
	}
	return nil
}

// ValidateTriggerExec checks the POST /chatbot request body.
func (v *Validator) ValidateTriggerExec(req *entity.TriggerExecRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: user_id", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.TriggerID) == "" {
		return fmt.Errorf("%w: trigger_id", entity.ErrMissingField)
	}
	return nil
}
