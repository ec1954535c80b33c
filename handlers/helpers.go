package handlers

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = newValidator()

// newValidator reports field names by json tag so error maps line up
// with the payload the client sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// atoiOr parses s, falling back to def when it is empty or malformed.
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// pageParams reads ?page=&size= with the usual clamps.
func pageParams(c echo.Context) (page, size int) {
	page = atoiOr(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	size = atoiOr(c.QueryParam("size"), 20)
	if size < 1 {
		size = 1
	} else if size > 100 {
		size = 100
	}
	return page, size
}

// fieldErrors flattens validator errors into the field->message map the
// frontend renders next to inputs.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "this field is required"
		case "oneof":
			out[field] = "must be one of: " + fe.Param()
		case "datetime":
			out[field] = "must match format " + fe.Param()
		case "email":
			out[field] = "must be a valid email"
		case "min":
			out[field] = "too short (min " + fe.Param() + ")"
		case "max":
			out[field] = "too long (max " + fe.Param() + ")"
		case "len":
			out[field] = "must be exactly " + fe.Param() + " characters"
		default:
			out[field] = "invalid value"
		}
	}
	return out
}
