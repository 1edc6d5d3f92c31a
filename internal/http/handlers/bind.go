package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// BindJSON decodes and validates the body; on failure it writes the
// "Invalid payload." envelope with per-field details and returns false.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	if err := ctx.ShouldBindJSON(out); err != nil {
		RespondInvalidPayload(ctx, bindDetails(err, out, "json"))
		return false
	}

	return true
}

// BindForm is BindJSON for urlencoded/multipart form posts. It does not write a response.
func BindForm(ctx *gin.Context, out interface{}) (gin.H, bool) {
	if err := ctx.ShouldBind(out); err != nil {
		return bindDetails(err, out, "form"), false
	}

	return nil, true
}

// bindDetails explains a bind failure in terms of the wire field names.
// Request structs are flat, so a field is named by its json or form tag.
func bindDetails(err error, out interface{}, tagKey string) gin.H {
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		fields := make([]FieldError, 0, len(invalid))
		for _, fe := range invalid {
			fields = append(fields, FieldError{
				Field:   wireName(out, fe.StructField(), tagKey),
				Rule:    fe.Tag(),
				Param:   fe.Param(),
				Message: validationMessage(fe.Tag(), fe.Param()),
			})
		}
		return gin.H{"fields": fields}
	}

	var tooLarge *http.MaxBytesError
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, io.EOF):
		return gin.H{"json": "empty_body"}
	case errors.As(err, &tooLarge):
		return gin.H{"json": "body_too_large"}
	case errors.As(err, &syntax):
		return gin.H{"json": "invalid_json_syntax"}
	case errors.As(err, &typeErr):
		// the decoder already reports the json name
		field := strings.TrimSpace(typeErr.Field)
		return gin.H{
			"json":  "invalid_json_type",
			"field": field,
			"fields": []FieldError{{
				Field:   field,
				Rule:    "type",
				Message: "must be a " + typeErr.Type.String(),
			}},
		}
	}

	return gin.H{"reason": err.Error()}
}

func wireName(out interface{}, goField, tagKey string) string {
	t := reflect.TypeOf(out)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return goField
	}

	sf, ok := t.FieldByName(goField)
	if !ok {
		return goField
	}

	name, _, _ := strings.Cut(sf.Tag.Get(tagKey), ",")
	if name == "" || name == "-" {
		return goField
	}

	return name
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + param + " characters"
	default:
		if param != "" {
			return "failed " + rule + " validation (" + param + ")"
		}
		return "failed " + rule + " validation"
	}
}
