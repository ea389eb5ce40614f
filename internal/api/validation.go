package api

import (
	"errors"  // Error unwrapping
	"reflect" // Struct tag inspection
	"strings" // String manipulation

	"github.com/gin-gonic/gin"         // Gin web framework
	"github.com/gin-gonic/gin/binding" // Gin binding engine
	"github.com/go-playground/validator/v10"
)

// Report validation failures under the json field names, not the Go ones
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// validationErrors maps a binding failure to a per-field error body
func validationErrors(err error) gin.H {
	var verrs validator.ValidationErrors
	// Structured validator errors get per-field messages
	if errors.As(err, &verrs) {
		fields := gin.H{}
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return gin.H{"errors": fields}
	}
	// Malformed JSON and type mismatches have no field to attach to
	return gin.H{"errors": gin.H{"non_field_errors": "Invalid request body"}}
}

// fieldMessage renders a human readable message for a failed validation tag
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "min":
		return "Ensure this field has at least " + fe.Param() + " characters."
	case "gte":
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	}
	return "This field is invalid."
}
