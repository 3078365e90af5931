package validation

import (
	"reflect"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"

	apperrors "project-registry/pkg/errors"
)

// CustomValidator - обертка для использования в Echo и в сервисах.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate реализует интерфейс echo.Validator.
// Любая ошибка валидации превращается в ErrInvalidInput: это ошибка вызывающего, повтор не поможет.
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return apperrors.InvalidInput("%v", err)
	}
	return nil
}

// Var проверяет одно значение по тегу.
func (cv *CustomValidator) Var(field interface{}, tag string) error {
	if err := cv.validator.Var(field, tag); err != nil {
		return apperrors.InvalidInput("%v", err)
	}
	return nil
}

// New создает и настраивает валидатор.
func New() *CustomValidator {
	v := validator.New()

	registerNullTypes(v)

	// Если правило не зарегистрировалось - паникуем, сервер не должен стартовать
	if err := registerRules(v); err != nil {
		panic("ошибка регистрации валидаторов: " + err.Error())
	}

	return &CustomValidator{validator: v}
}

// registerNullTypes учит валидатор "смотреть внутрь" null.String и null.Int64.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil // чтобы сработал `omitempty`
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Int64); ok && val.Valid {
			return val.Int64
		}
		return nil
	}, null.Int64{})
}
