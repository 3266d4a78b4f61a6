package validation

import (
	"fmt"
	"strconv"
)

// 2MB ceiling and MIME allow-list for account logo uploads.
const LogoMaxBytes = 2 * 1024 * 1024

var logoFileTypes = []string{"image/png", "image/jpeg", "image/jpg", "image/gif"}

// LoginForm carries the credentials submitted to the login view.
type LoginForm struct {
	Email    string
	Password string
}

// LoginConfig validates the login form.
func LoginConfig() Config[LoginForm] {
	return Config[LoginForm]{
		Rules: []Rule[LoginForm]{
			{Field: "email", Check: func(f LoginForm) string {
				if msg := Required(f.Email); msg != "" {
					return msg
				}
				return Email(f.Email)
			}},
			{Field: "password", Check: func(f LoginForm) string {
				return Required(f.Password)
			}},
		},
	}
}

// SignupForm carries a new directory registration.
type SignupForm struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// SignupConfig validates the signup form, including the password confirmation
// cross-check.
func SignupConfig() Config[SignupForm] {
	return Config[SignupForm]{
		Rules: []Rule[SignupForm]{
			{Field: "email", Check: func(f SignupForm) string {
				if msg := Required(f.Email); msg != "" {
					return msg
				}
				return Email(f.Email)
			}},
			{Field: "password", Check: func(f SignupForm) string {
				if msg := Required(f.Password); msg != "" {
					return msg
				}
				return MinLength(8)(f.Password)
			}},
		},
		Cross: []func(SignupForm) map[string]string{
			func(f SignupForm) map[string]string {
				if f.Password != "" && f.ConfirmPassword != f.Password {
					return map[string]string{"confirmPassword": "Passwords do not match"}
				}
				return nil
			},
		},
	}
}

// AccountForm carries account create/update submissions. Logo is optional.
type AccountForm struct {
	AccountName   string
	AccountID     string
	ActiveRegions []string
	Logo          *FileMeta
}

// FormMode distinguishes create from update: the account ID is immutable and
// only validated on create.
type FormMode int

const (
	ModeCreate FormMode = iota
	ModeUpdate
)

// AccountConfig validates the account form for the given mode.
func AccountConfig(mode FormMode) Config[AccountForm] {
	rules := []Rule[AccountForm]{
		{Field: "accountName", Check: func(f AccountForm) string {
			if msg := Required(f.AccountName); msg != "" {
				return msg
			}
			return MinLength(2)(f.AccountName)
		}},
	}
	if mode == ModeCreate {
		rules = append(rules, Rule[AccountForm]{Field: "accountId", Check: func(f AccountForm) string {
			if msg := Required(f.AccountID); msg != "" {
				return msg
			}
			return AccountID(f.AccountID)
		}})
	}
	rules = append(rules,
		Rule[AccountForm]{Field: "activeRegions", Check: func(f AccountForm) string {
			if len(f.ActiveRegions) == 0 {
				return "At least one region must be selected"
			}
			return ""
		}},
		Rule[AccountForm]{Field: "logo", Check: func(f AccountForm) string {
			if msg := FileSize(LogoMaxBytes)(f.Logo); msg != "" {
				return msg
			}
			return FileType(logoFileTypes...)(f.Logo)
		}},
	)
	return Config[AccountForm]{Rules: rules}
}

// ReportForm carries a usage report request. Fields are the raw dropdown
// values from the report view, so they stay strings until parsed.
type ReportForm struct {
	AccountID  string
	StartMonth string
	StartYear  string
	EndMonth   string
	EndYear    string
}

// MaxReportSpanMonths caps the length of a single usage report. Row
// generation is linear in the span, so an uncapped range is an easy way to
// exhaust memory.
const MaxReportSpanMonths = 12

// periodKey zero-pads a (year, month) pair so that lexicographic order on the
// keys equals chronological order.
func periodKey(year, month string) string {
	return zeroPad(year, 4) + "-" + zeroPad(month, 2)
}

func zeroPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// dateRange flags a start period after the end period. It only fires once all
// four parts are present; missing parts are the field rules' concern.
func dateRange(f ReportForm) map[string]string {
	if f.StartYear == "" || f.StartMonth == "" || f.EndYear == "" || f.EndMonth == "" {
		return nil
	}
	if periodKey(f.StartYear, f.StartMonth) > periodKey(f.EndYear, f.EndMonth) {
		return map[string]string{"dateRange": "Start date cannot be after end date"}
	}
	return nil
}

// spanLimit rejects a range longer than MaxReportSpanMonths. It only fires
// once all four parts parse; malformed parts are the field rules' concern.
func spanLimit(f ReportForm) map[string]string {
	sy, err1 := strconv.Atoi(f.StartYear)
	sm, err2 := strconv.Atoi(f.StartMonth)
	ey, err3 := strconv.Atoi(f.EndYear)
	em, err4 := strconv.Atoi(f.EndMonth)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return nil
	}
	months := (ey-sy)*12 + em - sm + 1
	if months > MaxReportSpanMonths {
		return map[string]string{"dateRange": fmt.Sprintf("Date range cannot exceed %d months", MaxReportSpanMonths)}
	}
	return nil
}

// ReportConfig validates the report request form.
func ReportConfig() Config[ReportForm] {
	return Config[ReportForm]{
		Rules: []Rule[ReportForm]{
			{Field: "accountId", Check: func(f ReportForm) string {
				if Required(f.AccountID) != "" {
					return "Please select an account"
				}
				return ""
			}},
			{Field: "startMonth", Check: func(f ReportForm) string {
				if Required(f.StartMonth) != "" {
					return "Please select start month"
				}
				return Month(f.StartMonth)
			}},
			{Field: "startYear", Check: func(f ReportForm) string {
				if Required(f.StartYear) != "" {
					return "Please select start year"
				}
				return Year(f.StartYear)
			}},
			{Field: "endMonth", Check: func(f ReportForm) string {
				if Required(f.EndMonth) != "" {
					return "Please select end month"
				}
				return Month(f.EndMonth)
			}},
			{Field: "endYear", Check: func(f ReportForm) string {
				if Required(f.EndYear) != "" {
					return "Please select end year"
				}
				return Year(f.EndYear)
			}},
		},
		Cross: []func(ReportForm) map[string]string{dateRange, spanLimit},
	}
}
