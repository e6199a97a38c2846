package serdser

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/georef/pkg/core/cerr"
)

// Bind deserializes the req request using the b binding, serializing
// possible validation errors as a JSON response. It returns true if
// the request could be deserialized and the handler may proceed.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	return serBindingErr(c, c.ShouldBindWith(req, b))
}

// BindUri deserializes the path parameters of the current request
// into the req request, like the Bind function.
func BindUri(c *gin.Context, req any) bool {
	return serBindingErr(c, c.ShouldBindUri(req))
}

func serBindingErr(c *gin.Context, berr error) bool {
	switch err := berr.(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

// AddErr appends the msgs messages to the errors which are recorded
// for the name field, allocating the errs map if needed.
func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

// Assert records the msgs messages for the name field if ok is false,
// returning the ok value itself.
func Assert(errs *map[string][]string, ok bool, name string, msgs ...string) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// SerErr serializes the err error as a JSON response, using the HTTP
// status code of a wrapped *cerr.Error if any, falling back to the
// internal server error status code otherwise.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		c.JSON(ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"detail": err.Error(),
	})
}
