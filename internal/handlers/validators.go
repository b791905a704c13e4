package handlers

import (
	"regexp"
	"sync"

	"github.com/SscSPs/fitment_console/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	slugPattern      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	registerOnce     sync.Once
	registerFailures error
)

// RegisterValidators adds the domain binding tags to gin's validator. It is safe to
// call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		tags := map[string]validator.Func{
			"vehicle_status": func(fl validator.FieldLevel) bool {
				return domain.VehicleStatus(fl.Field().String()).IsValid()
			},
			"tenant_role": func(fl validator.FieldLevel) bool {
				return domain.Role(fl.Field().String()).IsValid()
			},
			"event_type": func(fl validator.FieldLevel) bool {
				return domain.EventType(fl.Field().String()).IsValid()
			},
			"slug": func(fl validator.FieldLevel) bool {
				s := fl.Field().String()
				return len(s) <= 63 && slugPattern.MatchString(s)
			},
		}
		for tag, fn := range tags {
			if err := v.RegisterValidation(tag, fn); err != nil {
				registerFailures = err
				return
			}
		}
	})
	return registerFailures
}
