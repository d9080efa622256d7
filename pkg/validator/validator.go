package validator

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustom installs domain validations on gin's binding engine.
// "slot" accepts only the fixed half-hour consultation slots; "futuredate"
// accepts an ISO date that is today or later.
func RegisterCustom(slots []string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("slot", func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		for _, s := range slots {
			if s == val {
				return true
			}
		}
		return false
	}); err != nil {
		return err
	}

	return v.RegisterValidation("futuredate", func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		if _, err := time.Parse("2006-01-02", val); err != nil {
			return false
		}
		// ISO dates compare lexicographically
		return val >= time.Now().Format("2006-01-02")
	})
}
