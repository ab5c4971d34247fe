package validate

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/analytiq/analytiq/pkg/domain"
)

// LoginForm is the login form. Signup adds Confirm.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate returns validation.Errors keyed by field name.
func (f LoginForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, emailRules()...),
		validation.Field(&f.Password, validation.Required.Error("Password is required")),
	)
}

// SignupForm is the account creation form.
type SignupForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

// Validate returns validation.Errors keyed by field name.
func (f SignupForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, emailRules()...),
		validation.Field(&f.Password, passwordRules()...),
		validation.Field(&f.Confirm, validation.By(func(interface{}) error {
			return PasswordConfirmation(f.Password, f.Confirm)
		})),
	)
}

// SiteForm is the add-site form.
type SiteForm struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Validate returns validation.Errors keyed by field name.
func (f SiteForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.URL = strings.TrimSpace(f.URL)
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, siteNameRules()...),
		validation.Field(&f.URL, siteURLRules()...),
	)
}

// ReportRangeForm is a pair of YYYY-MM-DD bounds for a report. Both are set
// or neither.
type ReportRangeForm struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Validate returns validation.Errors keyed by field name.
func (f ReportRangeForm) Validate() error {
	f.From = strings.TrimSpace(f.From)
	f.To = strings.TrimSpace(f.To)
	dateRule := validation.Date(domain.DateLayout).Error("Use the YYYY-MM-DD format")
	return validation.ValidateStruct(&f,
		validation.Field(&f.From, dateRule, validation.By(func(interface{}) error {
			if f.From == "" && f.To != "" {
				return errors.New("A start date is required with an end date")
			}
			return nil
		})),
		validation.Field(&f.To, dateRule, validation.By(func(interface{}) error {
			if f.To == "" && f.From != "" {
				return errors.New("An end date is required with a start date")
			}
			from, errFrom := time.Parse(domain.DateLayout, f.From)
			to, errTo := time.Parse(domain.DateLayout, f.To)
			if errFrom == nil && errTo == nil && to.Before(from) {
				return errors.New("End date must not be before the start date")
			}
			return nil
		})),
	)
}

// Range validates the form and converts it. Empty bounds give the zero range.
func (f ReportRangeForm) Range() (domain.ReportRange, error) {
	if err := f.Validate(); err != nil {
		return domain.ReportRange{}, err
	}
	from, to := strings.TrimSpace(f.From), strings.TrimSpace(f.To)
	if from == "" {
		return domain.ReportRange{}, nil
	}
	start, _ := time.Parse(domain.DateLayout, from)
	end, _ := time.Parse(domain.DateLayout, to)
	return domain.ReportRange{Start: start, End: end}, nil
}

// FieldErrors flattens a validation error into field -> message. Errors that
// are not per-field land under the "" key.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	out := map[string]string{}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, e := range verrs {
			if e != nil {
				out[field] = e.Error()
			}
		}
		return out
	}
	out[""] = err.Error()
	return out
}
