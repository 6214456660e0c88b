package mealai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrParseFailed = errors.New("ai response parse failed")

// ParseError carries the raw text of a response that could not be decoded.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", ErrParseFailed, e.Err)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParseFailed
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Analysis is the nutrition estimate of a meal photo.
type Analysis struct {
	Name       string
	Calories   float64
	Protein    float64
	Fat        float64
	Carbs      float64
	Confidence string
	Notes      string
}

type analysisJSON struct {
	Name       flexString `json:"name"`
	Calories   flexNumber `json:"calories"`
	Protein    flexNumber `json:"protein"`
	Fat        flexNumber `json:"fat"`
	Carbs      flexNumber `json:"carbs"`
	Confidence flexString `json:"confidence"`
	Notes      flexString `json:"notes"`
}

func ParseAnalysis(raw string) (*Analysis, error) {
	var a analysisJSON
	if err := decodeLenient(raw, &a); err != nil {
		return nil, err
	}
	return &Analysis{
		Name:       strings.TrimSpace(string(a.Name)),
		Calories:   float64(a.Calories),
		Protein:    float64(a.Protein),
		Fat:        float64(a.Fat),
		Carbs:      float64(a.Carbs),
		Confidence: string(a.Confidence),
		Notes:      string(a.Notes),
	}, nil
}

type Suggestion struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Fat         float64 `json:"fat"`
	Carbs       float64 `json:"carbs"`
}

// UnmarshalJSON accepts a suggestion object or a bare string.
func (s *Suggestion) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*s = Suggestion{Name: name}
		return nil
	}

	var obj struct {
		Name        flexString `json:"name"`
		Description flexString `json:"description"`
		Calories    flexNumber `json:"calories"`
		Protein     flexNumber `json:"protein"`
		Fat         flexNumber `json:"fat"`
		Carbs       flexNumber `json:"carbs"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*s = Suggestion{
		Name:        string(obj.Name),
		Description: string(obj.Description),
		Calories:    float64(obj.Calories),
		Protein:     float64(obj.Protein),
		Fat:         float64(obj.Fat),
		Carbs:       float64(obj.Carbs),
	}
	return nil
}

type Recommendation struct {
	Analysis    string       `json:"analysis"`
	Suggestions []Suggestion `json:"suggestions"`
	Tip         string       `json:"tip"`
	Warning     string       `json:"warning,omitempty"`
}

func ParseRecommendation(raw string) (*Recommendation, error) {
	var r Recommendation
	if err := decodeLenient(raw, &r); err != nil {
		return nil, err
	}
	if r.Suggestions == nil {
		r.Suggestions = []Suggestion{}
	}
	return &r, nil
}

// decodeLenient strips markdown code fences and any prose around the JSON
// object before decoding it into v.
func decodeLenient(raw string, v any) error {
	body := stripCodeFence(raw)
	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		body = body[start : end+1]
	}

	if err := json.Unmarshal([]byte(body), v); err != nil {
		return &ParseError{Raw: raw, Err: err}
	}
	return nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// drop the opening fence with its language tag
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// flexNumber decodes a JSON number, a numeric string or null. Anything
// unparsable becomes 0.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = flexNumber(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("not a number: %s", b)
	}
	s = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "gkcalKCAL "))
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || f < 0 {
		*n = 0
		return nil
	}
	*n = flexNumber(f)
	return nil
}

// flexString decodes a JSON string, or the text form of a number or bool.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = ""
		return nil
	}
	*s = flexString(bytes.TrimSpace(b))
	return nil
}
