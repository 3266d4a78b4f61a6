package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const requiredMessage = "This field is required"

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	accountIDPattern = regexp.MustCompile(`^\d{12}$`)
)

// Required returns the shared missing-value message for empty or blank strings.
func Required(value string) string {
	if strings.TrimSpace(value) == "" {
		return requiredMessage
	}
	return ""
}

// RequiredList treats a nil or empty slice as missing.
func RequiredList(values []string) string {
	if len(values) == 0 {
		return requiredMessage
	}
	return ""
}

// MinLength returns a validator enforcing a minimum length on non-empty values.
func MinLength(min int) func(string) string {
	return func(value string) string {
		if value != "" && len(value) < min {
			return fmt.Sprintf("Must be at least %d characters", min)
		}
		return ""
	}
}

// MaxLength returns a validator enforcing a maximum length.
func MaxLength(max int) func(string) string {
	return func(value string) string {
		if len(value) > max {
			return fmt.Sprintf("Must be no more than %d characters", max)
		}
		return ""
	}
}

// Pattern returns a validator matching non-empty values against re.
func Pattern(re *regexp.Regexp, message string) func(string) string {
	return func(value string) string {
		if value != "" && !re.MatchString(value) {
			return message
		}
		return ""
	}
}

// Email checks the rough shape of an email address.
func Email(value string) string {
	if value != "" && !emailPattern.MatchString(value) {
		return "Please enter a valid email address"
	}
	return ""
}

// Reporting window for usage reports. Values outside it are dropdown
// tampering, not real requests.
const (
	MinReportYear = 2000
	MaxReportYear = 2100
)

// Month checks a non-empty month value parses to a calendar month.
func Month(value string) string {
	if value == "" {
		return ""
	}
	m, err := strconv.Atoi(value)
	if err != nil || m < 1 || m > 12 {
		return "Month must be between 1 and 12"
	}
	return ""
}

// Year checks a non-empty year value falls inside the reporting window.
func Year(value string) string {
	if value == "" {
		return ""
	}
	y, err := strconv.Atoi(value)
	if err != nil || y < MinReportYear || y > MaxReportYear {
		return fmt.Sprintf("Year must be between %d and %d", MinReportYear, MaxReportYear)
	}
	return ""
}

// AccountID checks the 12-digit cloud account identifier format.
func AccountID(value string) string {
	if value != "" && !accountIDPattern.MatchString(value) {
		return "Account ID must be exactly 12 digits"
	}
	return ""
}

// FileMeta describes an uploaded file as seen by the validators. Only the
// metadata matters here; content is never inspected.
type FileMeta struct {
	Name        string
	Size        int64
	ContentType string
}

// FileSize returns a validator enforcing a byte-size ceiling on an upload.
func FileSize(maxBytes int64) func(*FileMeta) string {
	return func(file *FileMeta) string {
		if file != nil && file.Size > maxBytes {
			return fmt.Sprintf("File size must be less than %dMB", maxBytes/(1024*1024))
		}
		return ""
	}
}

// FileType returns a validator restricting an upload to the allowed MIME types.
func FileType(allowed ...string) func(*FileMeta) string {
	return func(file *FileMeta) string {
		if file == nil {
			return ""
		}
		for _, t := range allowed {
			if file.ContentType == t {
				return ""
			}
		}
		return "File type must be one of: " + strings.Join(allowed, ", ")
	}
}
