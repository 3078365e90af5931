package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var codePrefixRe = regexp.MustCompile(`^[A-Za-z0-9]{1,16}$`)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("code_prefix", isCodePrefix); err != nil {
		return err
	}
	if err := v.RegisterValidation("project_id", isProjectID); err != nil {
		return err
	}
	if err := v.RegisterValidation("file_name", isFileName); err != nil {
		return err
	}
	return nil
}

// isCodePrefix - "PRJ", "CRM2": только латиница и цифры
func isCodePrefix(fl validator.FieldLevel) bool {
	return codePrefixRe.MatchString(fl.Field().String())
}

// isProjectID - ':' запрещён, он разделяет части ключа партиции
func isProjectID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return utf8.ValidString(s) && strings.TrimSpace(s) != "" && !strings.Contains(s, ":")
}

// isFileName - имя без каталогов, в валидном UTF-8 (иначе Postgres отвергнет строку)
func isFileName(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !utf8.ValidString(s) || strings.TrimSpace(s) == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`) && !strings.ContainsRune(s, 0)
}
