package handlers

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/JonnyWalker81/foodmood/backend/internal/models"
)

var registerOnce sync.Once

// RegisterValidators adds the mood and meal_type tags to gin's validator and
// reports field errors by their JSON names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		// NullableString validates as its value; null and absent are skipped
		// by omitempty.
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if ns, ok := field.Interface().(models.NullableString); ok && ns.Valid {
				return ns.Value
			}
			return nil
		}, models.NullableString{})

		_ = v.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
			return models.Mood(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("meal_type", func(fl validator.FieldLevel) bool {
			return models.MealType(fl.Field().String()).IsValid()
		})
	})
}
