package intent

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type Action string

const (
	ActionSmalltalk     Action = "smalltalk"
	ActionSearchProduct Action = "search_product"
	ActionBuy           Action = "buy"
	ActionHours         Action = "hours"
	ActionReservation   Action = "reservation"
	ActionUnknown       Action = "unknown"
	ActionQA            Action = "qa"
)

// Extraction is the structured output expected from the parser model.
type Extraction struct {
	Action       Action `json:"action" validate:"omitempty,oneof=smalltalk search_product buy hours reservation unknown qa"`
	ProductQuery string `json:"product_query,omitempty"`
	Category     string `json:"category,omitempty"`
	Quantity     *int   `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Date         string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time         string `json:"time,omitempty" validate:"omitempty,datetime=15:04"`
	People       *int   `json:"people,omitempty" validate:"omitempty,gt=0"`
	Name         string `json:"name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// QuantityOr returns the extracted quantity or def.
func (e Extraction) QuantityOr(def int) int {
	if e.Quantity == nil {
		return def
	}
	return *e.Quantity
}

func (e Extraction) PeopleOr(def int) int {
	if e.People == nil {
		return def
	}
	return *e.People
}

// SchemaError is returned when model output is not a valid Extraction.
type SchemaError struct {
	Raw    string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("intent: schema violation: %s: %v", e.Reason, e.Err)
	}
	return "intent: schema violation: " + e.Reason
}

func (e *SchemaError) Unwrap() error { return e.Err }

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ParseExtraction decodes the first JSON object found in raw. Unknown keys,
// wrong types and out of range values are rejected. A missing action means qa.
func ParseExtraction(raw string) (Extraction, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return Extraction{}, &SchemaError{Raw: raw, Reason: "no json object"}
	}

	dec := json.NewDecoder(strings.NewReader(raw[start : end+1]))
	dec.DisallowUnknownFields()

	var ex Extraction
	if err := dec.Decode(&ex); err != nil {
		return Extraction{}, &SchemaError{Raw: raw, Reason: "decode", Err: err}
	}
	ex.Action = Action(strings.ToLower(strings.TrimSpace(string(ex.Action))))
	if err := getValidator().Struct(ex); err != nil {
		return Extraction{}, &SchemaError{Raw: raw, Reason: "validate", Err: err}
	}
	if ex.Action == "" {
		ex.Action = ActionQA
	}
	return ex, nil
}
