package questionbank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FlexString accepts a JSON string, number or null. Bank exports are not
// consistent about quoting ids and marks.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return strings.TrimSpace(string(f)) }

// RawRecord is one question as exported by the bank scraper.
type RawRecord struct {
	ID      FlexString  `json:"id" validate:"required"`
	Type    string      `json:"type" validate:"required,question_type"`
	Body    string      `json:"question_html"`
	Options []RawOption `json:"options" validate:"max=6,dive"`
	Answer  string      `json:"answer"`
	Marks   FlexString  `json:"marks,omitempty"`
	Source  string      `json:"source_file,omitempty"`
	Images  []string    `json:"question_images,omitempty"`
}

type RawOption struct {
	Index FlexString `json:"index"`
	HTML  string     `json:"html"`
}

// rawTypeTags are the type tags found in exports. SA and NAT are both
// numeric answer entry.
var rawTypeTags = map[string]Kind{
	"MCQ": MultipleChoice,
	"SA":  NumericAnswer,
	"NAT": NumericAnswer,
}

func newRecordValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("question_type", validateQuestionType)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateQuestionType(fl validator.FieldLevel) bool {
	_, ok := rawTypeTags[strings.ToUpper(strings.TrimSpace(fl.Field().String()))]
	return ok
}

// describeValidation flattens validator output into a single reason string.
func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "question_type":
			parts = append(parts, fmt.Sprintf("unknown type tag %q", fe.Value()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s has more than %s entries", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
