package core

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var requestValidator = validator.New()

// Validate checks the shape of caller-supplied fields. The pipeline itself
// never rejects a request; front ends call Validate before converting.
func (r Request) Validate() error {
	err := requestValidator.Struct(r)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validating request: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
}
