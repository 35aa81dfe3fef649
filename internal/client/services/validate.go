package services

import (
	"regexp"
	"strings"

	"github.com/pavelgris/erpadmin/internal/client/models"
	"github.com/pavelgris/erpadmin/internal/common"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?\d{10,15}$`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	digitRe = regexp.MustCompile(`\d`)
)

// ValidatePassword enforces the client-side password rules before any
// network call. On edit a blank password means "no change" and passes; a
// non-blank password must independently satisfy every rule.
func ValidatePassword(isEdit bool, password, confirm string) error {
	password = strings.TrimSpace(password)
	confirm = strings.TrimSpace(confirm)
	if isEdit && password == "" {
		return nil
	}
	switch {
	case password == "":
		return common.ErrPasswordRequired
	case len(password) < 8:
		return common.ErrPasswordTooShort
	case !lowerRe.MatchString(password):
		return common.ErrPasswordNoLowercase
	case !digitRe.MatchString(password):
		return common.ErrPasswordNoDigit
	case password != confirm:
		return common.ErrPasswordMismatch
	}
	return nil
}

// ValidateEnquiry checks an enquiry payload field by field; the first
// violated rule wins.
func ValidateEnquiry(in models.EnquiryPayload) error {
	if len(strings.TrimSpace(in.Name)) < 2 {
		return common.ErrNameRequired
	}
	if !phoneRe.MatchString(in.Phone) {
		return common.ErrInvalidPhone
	}
	if in.Email != "" && !emailRe.MatchString(in.Email) {
		return common.ErrInvalidEmail
	}
	if len(strings.TrimSpace(in.Query)) < 10 {
		return common.ErrQueryTooShort
	}
	switch in.ContactType {
	case models.ContactTypeCustomer, models.ContactTypeSupplier, models.ContactTypeBoth:
	default:
		return common.ErrInvalidContactType
	}
	return nil
}
