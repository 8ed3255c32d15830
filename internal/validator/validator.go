// Package validator turns a raw /predict body into an ArticleRequest, or a
// ValidationError listing every offending field.
package validator

import (
	"bytes"
	"encoding/json"

	"newsclassifier/internal/models"
)

// RequiredFields is the fixed order in which fields are checked and reported.
var RequiredFields = []string{"source", "url", "title", "description"}

const (
	TypeMissing     = "value_error.missing"
	TypeNotAllowed  = "type_error.none.not_allowed"
	TypeStr         = "type_error.str"
	TypeDict        = "type_error.dict"
	TypeJSONDecode  = "value_error.jsondecode"
	MsgFieldMissing = "field required"
)

// DecodeArticle validates body and returns the decoded article. An empty
// body is treated as an empty object.
func DecodeArticle(body []byte) (models.ArticleRequest, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.ArticleRequest{}, &models.ValidationError{Detail: []models.FieldError{
			{Loc: []string{"body"}, Msg: err.Error(), Type: TypeJSONDecode},
		}}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return models.ArticleRequest{}, &models.ValidationError{Detail: []models.FieldError{
			{Loc: []string{"body"}, Msg: "value is not a valid dict", Type: TypeDict},
		}}
	}
	return ValidateFields(obj)
}

// ValidateFields checks the required fields of an already-decoded object.
func ValidateFields(obj map[string]any) (models.ArticleRequest, error) {
	values := make(map[string]string, len(RequiredFields))
	var detail []models.FieldError

	for _, field := range RequiredFields {
		v, present := obj[field]
		switch {
		case !present:
			detail = append(detail, fieldError(field, MsgFieldMissing, TypeMissing))
		case v == nil:
			detail = append(detail, fieldError(field, "none is not an allowed value", TypeNotAllowed))
		default:
			s, isString := v.(string)
			if !isString {
				detail = append(detail, fieldError(field, "str type expected", TypeStr))
				continue
			}
			values[field] = s
		}
	}

	if len(detail) > 0 {
		return models.ArticleRequest{}, &models.ValidationError{Detail: detail}
	}

	return models.ArticleRequest{
		Source:      values["source"],
		URL:         values["url"],
		Title:       values["title"],
		Description: values["description"],
	}, nil
}

func fieldError(field, msg, typ string) models.FieldError {
	return models.FieldError{Loc: []string{"body", field}, Msg: msg, Type: typ}
}
