package validation

import (
	"reflect"
	"strings"
	"sync"

	. "applianceassist/internal/models"

	"github.com/go-playground/validator/v10"
)

type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Violations []Violation

// Issues renders violations as "field: message" lines.
func (v Violations) Issues() []string {
	issues := make([]string, 0, len(v))
	for _, violation := range v {
		issues = append(issues, violation.Field+": "+violation.Message)
	}
	return issues
}

func (v Violations) Fields() []string {
	fields := make([]string, 0, len(v))
	for _, violation := range v {
		fields = append(fields, violation.Field)
	}
	return fields
}

const (
	MsgInvalidForm        = "Invalid form data."
	MsgInvalidLoginFormat = "Invalid email or password format. Please check your input."
)

var messages = map[string]string{
	"applianceType":    "Please select a valid appliance type.",
	"issueDescription": "Issue description must be at least 10 characters.",
	"contactName":      "Name is required.",
	"contactEmail":     "Invalid email address.",
	"contactPhone":     "Phone number must be at least 10 digits.",
	"address":          "Address is required.",
	"email":            "Invalid email address.",
	"password":         "Password is required.",
	"location":         "Please enter a valid ZIP code or city name (min 3 characters).",
}

type serviceRequestFields struct {
	ApplianceType    string `json:"applianceType"    validate:"applianceType"`
	IssueDescription string `json:"issueDescription" validate:"min=10"`
	ContactName      string `json:"contactName"      validate:"min=2"`
	ContactEmail     string `json:"contactEmail"     validate:"email"`
	ContactPhone     string `json:"contactPhone"     validate:"min=10"`
	Address          string `json:"address"          validate:"min=5"`
}

type diagnosisFields struct {
	ApplianceType    string `json:"applianceType"    validate:"applianceType"`
	IssueDescription string `json:"issueDescription" validate:"min=10"`
}

type loginFields struct {
	Email    string `json:"email"    validate:"email"`
	Password string `json:"password" validate:"min=1"`
}

type serviceAreaFields struct {
	Location string `json:"location" validate:"min=3"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("applianceType", func(fl validator.FieldLevel) bool {
			return ApplianceType(fl.Field().String()).Valid()
		})
	})
	return validate
}

// check runs every rule on fields and collects one violation per failing
// field, in declaration order.
func check(fields any) Violations {
	err := instance().Struct(fields)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return Violations{{Field: "form", Message: MsgInvalidForm}}
	}

	violations := make(Violations, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		message, ok := messages[fieldErr.Field()]
		if !ok {
			message = "Invalid value."
		}
		violations = append(violations, Violation{Field: fieldErr.Field(), Message: message})
	}
	return violations
}

// ValidateServiceRequest accepts the whole submission or nothing. Fields pass
// through unchanged apart from trimming the email.
func ValidateServiceRequest(raw map[string]string) (ServiceRequestInput, Violations) {
	fields := serviceRequestFields{
		ApplianceType:    raw["applianceType"],
		IssueDescription: raw["issueDescription"],
		ContactName:      raw["contactName"],
		ContactEmail:     strings.TrimSpace(raw["contactEmail"]),
		ContactPhone:     raw["contactPhone"],
		Address:          raw["address"],
	}

	if violations := check(fields); len(violations) > 0 {
		return ServiceRequestInput{}, violations
	}

	return ServiceRequestInput{
		ApplianceType:    ApplianceType(fields.ApplianceType),
		IssueDescription: fields.IssueDescription,
		ContactName:      fields.ContactName,
		ContactEmail:     fields.ContactEmail,
		ContactPhone:     fields.ContactPhone,
		Address:          fields.Address,
	}, nil
}

func ValidateDiagnosisQuery(raw map[string]string) (DiagnosisQuery, Violations) {
	fields := diagnosisFields{
		ApplianceType:    raw["applianceType"],
		IssueDescription: raw["issueDescription"],
	}

	if violations := check(fields); len(violations) > 0 {
		return DiagnosisQuery{}, violations
	}

	return DiagnosisQuery{
		ApplianceType:    ApplianceType(fields.ApplianceType),
		IssueDescription: fields.IssueDescription,
	}, nil
}

// ValidateLogin checks shape only; the returned email is trimmed, the
// password is kept exactly as typed.
func ValidateLogin(raw map[string]string) (LoginRequest, Violations) {
	fields := loginFields{
		Email:    strings.TrimSpace(raw["email"]),
		Password: raw["password"],
	}

	if violations := check(fields); len(violations) > 0 {
		return LoginRequest{}, violations
	}

	return LoginRequest{Email: fields.Email, Password: fields.Password}, nil
}

func ValidateServiceArea(raw map[string]string) (string, Violations) {
	fields := serviceAreaFields{Location: strings.TrimSpace(raw["location"])}

	if violations := check(fields); len(violations) > 0 {
		return "", violations
	}

	return fields.Location, nil
}
