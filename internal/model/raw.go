package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RawJob is one record of the remote feed as sent over the wire. Every field
// decodes leniently: a value of the wrong JSON type leaves the field unset
// instead of failing the whole payload.
type RawJob struct {
	JobID                FlexString `json:"job_id"`
	DocID                FlexString `json:"_id"`
	Title                FlexString `json:"job_title"`
	CompanyName          FlexString `json:"company_name"`
	CompanyLogo          FlexString `json:"company_logo"`
	Location             FlexString `json:"location"`
	SalaryCurrency       FlexString `json:"salary_currency"`
	SalaryAmount         FlexFloat  `json:"salary_amount"`
	Skills               StringList `json:"skills"`
	PostedDate           FlexString `json:"posted_date"`
	Description          FlexString `json:"description"`
	Requirements         FlexString `json:"requirements"`
	Benefits             FlexString `json:"benefits"`
	IsRemote             FlexBool   `json:"is_remote"`
	IsVerified           FlexBool   `json:"is_verified"`
	Category             FlexString `json:"category"`
	Type                 FlexString `json:"type"`
	Experience           FlexString `json:"experience"`
	VisaSponsorship      FlexBool   `json:"visa_sponsorship"`
	RelocationAssistance FlexBool   `json:"relocation_assistance"`
	ApplicationCount     FlexInt    `json:"application_count"`
	ViewsCount           FlexInt    `json:"views_count"`
}

// FlexString accepts a JSON string, number, boolean, or array of strings.
type FlexString struct {
	Value string
	Valid bool
}

// String returns the value, or "" when unset.
func (f FlexString) String() string { return f.Value }

// OrNil returns a pointer to the trimmed value, or nil when it is unset or blank.
func (f FlexString) OrNil() *string {
	v := strings.TrimSpace(f.Value)
	if !f.Valid || v == "" {
		return nil
	}
	return &v
}

func (f *FlexString) UnmarshalJSON(data []byte) error {
	*f = FlexString{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if json.Unmarshal(data, &s) == nil {
			*f = FlexString{Value: s, Valid: true}
		}
	case '[':
		var parts []string
		if json.Unmarshal(data, &parts) == nil {
			*f = FlexString{Value: strings.Join(parts, "\n"), Valid: true}
		}
	case '{':
		// objects carry no usable scalar
	default:
		*f = FlexString{Value: string(data), Valid: true}
	}
	return nil
}

// FlexFloat accepts a JSON number or a numeric string.
type FlexFloat struct {
	Value float64
	Valid bool
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat{}
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "null" {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexFloat{Value: v, Valid: true}
	}
	return nil
}

// FlexInt accepts a JSON number or a numeric string; fractions are truncated.
type FlexInt struct {
	Value int
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var ff FlexFloat
	_ = ff.UnmarshalJSON(data)
	*f = FlexInt{Value: int(ff.Value), Valid: ff.Valid}
	return nil
}

// FlexBool accepts a JSON boolean, a number (non-zero is true), or a string
// such as "true", "yes", or "1".
type FlexBool struct {
	Value bool
	Valid bool
}

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	*f = FlexBool{}
	s := strings.ToLower(strings.Trim(string(bytes.TrimSpace(data)), `"`))
	switch s {
	case "true", "yes", "y", "1":
		*f = FlexBool{Value: true, Valid: true}
	case "false", "no", "n", "0":
		*f = FlexBool{Value: false, Valid: true}
	default:
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*f = FlexBool{Value: v != 0, Valid: true}
		}
	}
	return nil
}

// StringList accepts an array of strings or a single string. Non-string
// array elements are dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	*l = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if json.Unmarshal(data, &s) == nil && strings.TrimSpace(s) != "" {
			*l = StringList{s}
		}
	case '[':
		var items []json.RawMessage
		if json.Unmarshal(data, &items) != nil {
			return nil
		}
		out := make(StringList, 0, len(items))
		for _, it := range items {
			var s string
			if json.Unmarshal(it, &s) == nil {
				out = append(out, s)
			}
		}
		*l = out
	}
	return nil
}
