package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/araddon/dateparse"
)

// Violation codes.
const (
	CodeInvalidType   = "invalid_type"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeInvalidString = "invalid_string"
	CodeCustom        = "custom"
)

const (
	minNameLen     = 3
	maxNameLen     = 20
	minPasswordLen = 8
)

// Violation describes why a single field failed validation.
type Violation struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations is the ordered list of every rule a candidate broke.
type Violations []Violation

func (v Violations) Error() string {
	msgs := make([]string, 0, len(v))
	for _, vi := range v {
		msgs = append(msgs, vi.Field+": "+vi.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Field is a JSON member that is expected to be a string. It records whether
// the member was sent at all and, if it was not a string, what it was instead.
type Field struct {
	Value string
	kind  string
}

// String builds a Field holding a string value.
func String(s string) Field {
	return Field{Value: s, kind: "string"}
}

func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		f.kind = "string"
		return json.Unmarshal(b, &f.Value)
	case 'n':
		f.kind = "null"
	case 't', 'f':
		f.kind = "boolean"
	case '{':
		f.kind = "object"
	case '[':
		f.kind = "array"
	default:
		f.kind = "number"
	}
	f.Value = ""
	return nil
}

// present reports whether the member appeared in the request.
func (f Field) present() bool {
	return f.kind != ""
}

// typeViolation returns the violation for a Field that is not a string, if any.
func (f Field) typeViolation(field string) *Violation {
	switch f.kind {
	case "string":
		return nil
	case "":
		return &Violation{Code: CodeInvalidType, Field: field, Message: "Required"}
	default:
		return &Violation{Code: CodeInvalidType, Field: field, Message: "Expected string, received " + f.kind}
	}
}

type RegisterRequest struct {
	Name        Field `json:"name"`
	Password    Field `json:"password"`
	Email       Field `json:"email"`
	DateOfBirth Field `json:"dateofbirth"`
}

type LoginRequest struct {
	Email    Field `json:"email"`
	Password Field `json:"password"`
}

// Registration is a RegisterRequest that passed validation.
type Registration struct {
	Name        string
	Password    string
	Email       string
	DateOfBirth time.Time

	rawDateOfBirth string
}

// complete reports whether every field carries a value, judging the date by
// the string the client sent.
func (r Registration) complete() bool {
	return r.Name != "" && r.Password != "" && r.Email != "" && r.rawDateOfBirth != ""
}

// Credentials is a LoginRequest that passed validation.
type Credentials struct {
	Email    string
	Password string
}

// ValidateRegistration checks name, password, email and dateofbirth, in that
// order. The returned error is always of type Violations.
func ValidateRegistration(r RegisterRequest) (Registration, error) {
	var v Violations
	v = append(v, checkName(r.Name)...)
	v = append(v, checkPassword(r.Password)...)
	v = append(v, checkEmail(r.Email)...)
	dob, dv := checkDate("dateofbirth", r.DateOfBirth)
	v = append(v, dv...)

	if len(v) > 0 {
		return Registration{}, v
	}
	return Registration{
		Name:           r.Name.Value,
		Password:       r.Password.Value,
		Email:          r.Email.Value,
		DateOfBirth:    dob,
		rawDateOfBirth: r.DateOfBirth.Value,
	}, nil
}

// ValidateLogin checks email then password.
func ValidateLogin(r LoginRequest) (Credentials, error) {
	var v Violations
	v = append(v, checkEmail(r.Email)...)
	v = append(v, checkPassword(r.Password)...)

	if len(v) > 0 {
		return Credentials{}, v
	}
	return Credentials{Email: r.Email.Value, Password: r.Password.Value}, nil
}

func checkName(f Field) Violations {
	if tv := f.typeViolation("name"); tv != nil {
		return Violations{*tv}
	}
	n := jsLength(f.Value)
	switch {
	case n < minNameLen:
		return Violations{{CodeTooSmall, "name", fmt.Sprintf("String must contain at least %d character(s)", minNameLen)}}
	case n > maxNameLen:
		return Violations{{CodeTooBig, "name", fmt.Sprintf("String must contain at most %d character(s)", maxNameLen)}}
	}
	return nil
}

var passwordRules = []struct {
	re      *regexp.Regexp
	message string
}{
	{regexp.MustCompile(`[A-Z]`), "Must include an uppercase letter"},
	{regexp.MustCompile(`[a-z]`), "Must include a lowercase letter"},
	{regexp.MustCompile(`[0-9]`), "Must include a number"},
	{regexp.MustCompile(`[^A-Za-z0-9]`), "Must include a special character"},
}

// checkPassword reports every unmet password rule, not only the first.
func checkPassword(f Field) Violations {
	if tv := f.typeViolation("password"); tv != nil {
		return Violations{*tv}
	}
	var v Violations
	if jsLength(f.Value) < minPasswordLen {
		v = append(v, Violation{CodeTooSmall, "password", "Password must be at least 8 characters"})
	}
	for _, rule := range passwordRules {
		if !rule.re.MatchString(f.Value) {
			v = append(v, Violation{CodeInvalidString, "password", rule.message})
		}
	}
	return v
}

var emailRegexp = regexp.MustCompile(`^[A-Za-z0-9_'+\-.]*[A-Za-z0-9_+-]@([A-Za-z0-9][A-Za-z0-9\-]*\.)+[A-Za-z]{2,}$`)

func checkEmail(f Field) Violations {
	if tv := f.typeViolation("email"); tv != nil {
		return Violations{*tv}
	}
	if !isEmail(f.Value) {
		return Violations{{CodeInvalidString, "email", "Invalid email"}}
	}
	return nil
}

func isEmail(s string) bool {
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	return emailRegexp.MatchString(s)
}

func checkDate(field string, f Field) (time.Time, Violations) {
	if tv := f.typeViolation(field); tv != nil {
		return time.Time{}, Violations{*tv}
	}
	t, ok := parseDate(f.Value)
	if !ok {
		return time.Time{}, Violations{{CodeCustom, field, "Invalid date format"}}
	}
	return t, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
	time.RFC1123,
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon Jan 02 2006",
	"Mon Jan 02 2006 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2 Jan 2006 15:04:05 MST",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
}

// parseDate accepts the date shapes browsers commonly produce, falling back
// to dateparse for looser forms. Forms without an offset are read as UTC.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// jsLength counts UTF-16 code units, the way browsers measure string length.
func jsLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}
