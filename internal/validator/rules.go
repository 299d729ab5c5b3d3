package validator

import (
	"log"
	"strings"

	"ejaraat_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные правила валидации
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Без правил приложение запускать нельзя
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("phone-plus", validatePhonePlus)
	mustRegister("payment-interval", validatePaymentInterval)
	mustRegister("property-type", validatePropertyType)
	mustRegister("currency-code", validateCurrencyCode)
	mustRegister("country-code", validateCountryCode)
}

// Пустые значения пропускаем: для этого есть 'required'

func validatePhonePlus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if !strings.HasPrefix(value, "+") || len(value) < 2 {
		return false
	}
	for _, r := range value[1:] {
		if (r < '0' || r > '9') && r != ' ' {
			return false
		}
	}
	return true
}

func validatePaymentInterval(fl validator.FieldLevel) bool {
	value := fl.Field().Int()
	if value == 0 {
		return true
	}
	return models.PaymentInterval(value).IsValid()
}

func validatePropertyType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.PropertyType(value).IsValid()
}

func validateCurrencyCode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.Currency(value).IsValid()
}

func validateCountryCode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if len(value) != 2 {
		return false
	}
	for _, r := range value {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
