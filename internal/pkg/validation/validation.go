package validation

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("integer", isInteger); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("id", isID); err != nil {
		panic(err)
	}
	return v
}

// isID accepts anything uuid.Parse does, so ids match the way NormalizeIDs reads them
func isID(fl validator.FieldLevel) bool {
	_, err := uuid.Parse(fl.Field().String())
	return err == nil
}

// isInteger accepts an optional sign followed by digits that fit in an int
func isInteger(fl validator.FieldLevel) bool {
	_, err := strconv.Atoi(fl.Field().String())
	return err == nil
}

// Sanitizer transforms a raw field value before it is checked
type Sanitizer func(string) string

// Trim removes surrounding whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Check is one validator tag expression and the message reported when it fails
type Check struct {
	Tag     string
	Message string
}

// Rule describes how one form field is sanitized and checked
type Rule struct {
	Field    string
	Sanitize []Sanitizer
	Checks   []Check
	// Escape HTML-escapes the value after the checks ran
	Escape bool
}

// Values holds form values keyed by field name
type Values map[string]string

// FieldError is a single failed check
type FieldError struct {
	Field   string
	Message string
}

// Errors lists failed checks in rule order
type Errors []FieldError

// Error implements error
func (e Errors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Unwrap lets errors.Is match apperrors.ErrValidationFailed
func (e Errors) Unwrap() error {
	return apperrors.ErrValidationFailed
}

// Messages returns the failure messages in order
func (e Errors) Messages() []string {
	messages := make([]string, 0, len(e))
	for _, fe := range e {
		messages = append(messages, fe.Message)
	}
	return messages
}

// Has reports whether field failed a check
func (e Errors) Has(field string) bool {
	return e.For(field) != ""
}

// For returns the message reported for field, or ""
func (e Errors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Run applies rules to values in order: sanitizers, then checks (only the first
// failing check of a field is reported), then escaping. The returned values hold an
// entry for every rule field, failed or not, so forms can be re-rendered.
func Run(rules []Rule, values Values) (Values, Errors) {
	out := make(Values, len(rules))
	var errs Errors

	for _, rule := range rules {
		value := values[rule.Field]
		for _, sanitize := range rule.Sanitize {
			value = sanitize(value)
		}

		for _, check := range rule.Checks {
			if err := validate.Var(value, check.Tag); err != nil {
				errs = append(errs, FieldError{Field: rule.Field, Message: check.Message})
				break
			}
		}

		if rule.Escape {
			value = Escape(value)
		}
		out[rule.Field] = value
	}

	return out, errs
}

// NormalizeIDs turns a multi-value form field into a set of ids: blanks are dropped,
// duplicates collapse, order of first appearance is kept. A value that is not a uuid
// fails the whole set.
func NormalizeIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	seen := make(map[uuid.UUID]struct{}, len(values))

	for _, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid id "+strconv.Quote(raw))
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids, nil
}
