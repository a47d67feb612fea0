package prospect

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("prospect_status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).IsValid()
	}); err != nil {
		panic(fmt.Sprintf("registering prospect_status validation: %v", err))
	}
	return v
}

// normalize trims the required text fields, stores blank optional text as
// NULL and defaults the status.
func (n NewProspect) normalize() NewProspect {
	n.BusinessName = strings.TrimSpace(n.BusinessName)
	n.BusinessType = strings.TrimSpace(n.BusinessType)
	n.Location = strings.TrimSpace(n.Location)
	n.CurrentWebPresence = strings.TrimSpace(n.CurrentWebPresence)
	n.Phone = nilIfBlank(n.Phone)
	n.Email = nilIfBlank(n.Email)
	n.ListingURL = nilIfBlank(n.ListingURL)
	n.Notes = nilIfBlank(n.Notes)
	n.LastContacted = nilIfBlank(n.LastContacted)
	n.NextFollowup = nilIfBlank(n.NextFollowup)
	if n.Status == "" {
		n.Status = StatusNotContacted
	}
	return n
}

func nilIfBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// Validate checks required fields and the status value.
func (n NewProspect) Validate() error {
	err := validate.Struct(n)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validating prospect: %w", err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: fe.Field(), Message: "is required"}
	case "prospect_status":
		return invalidStatus(Status(fmt.Sprint(fe.Value())))
	case "gte":
		return &ValidationError{Field: fe.Field(), Message: "must not be negative"}
	default:
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("failed %s check", fe.Tag())}
	}
}

func invalidStatus(s Status) error {
	return &ValidationError{Field: "status", Message: fmt.Sprintf("has unknown value %q", string(s))}
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
