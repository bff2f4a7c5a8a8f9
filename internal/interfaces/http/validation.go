package http

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nandwere/stock-pos/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validateStruct aplica los tags validate y devuelve un *domain.ValidationError por campo.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.Invalid("body", err.Error())
	}
	v := domain.NewValidationError()
	for _, fe := range errs {
		v.Add(fieldPath(fe), fieldMessage(fe))
	}
	return v.Err()
}

// fieldPath quita el nombre del struct raíz: CreateSaleRequest.items[0].productId → items[0].productId.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "email inválido"
	case "oneof":
		return "debe ser uno de: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.Slice {
			return "debe tener al menos " + fe.Param() + " elemento(s)"
		}
		if fe.Kind() == reflect.String {
			return "debe tener al menos " + fe.Param() + " caracteres"
		}
		return "debe ser mayor o igual a " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "no puede superar " + fe.Param() + " caracteres"
		}
		return "debe ser menor o igual a " + fe.Param()
	}
	return "no cumple la regla " + fe.Tag()
}

// bindBody decodifica el JSON y aplica los tags validate.
func bindBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Invalid("body", "JSON inválido")
	}
	return validateStruct(out)
}

// parseDate interpreta YYYY-MM-DD (o RFC3339) como día UTC. Vacío devuelve nil.
func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, domain.Invalid(field, "fecha inválida, use YYYY-MM-DD")
		}
	}
	t = t.UTC()
	return &t, nil
}

// dateRange startDate/endDate como días UTC completos: [inicio del primero, fin del último].
// endExclusive elige entre el último nanosegundo del día o el inicio del día siguiente.
func dateRange(c *fiber.Ctx, endExclusive bool) (*time.Time, *time.Time, error) {
	start, err := parseDate("startDate", c.Query("startDate"))
	if err != nil {
		return nil, nil, err
	}
	end, err := parseDate("endDate", c.Query("endDate"))
	if err != nil {
		return nil, nil, err
	}
	if start != nil {
		s := dayStart(*start)
		start = &s
	}
	if end != nil {
		e := dayStart(*end).Add(24 * time.Hour)
		if !endExclusive {
			e = e.Add(-time.Nanosecond)
		}
		end = &e
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, domain.Invalid("endDate", "debe ser posterior a startDate")
	}
	return start, end, nil
}

// queryDay parámetro date (hoy si falta).
func queryDay(c *fiber.Ctx) (time.Time, error) {
	day, err := parseDate("date", c.Query("date"))
	if err != nil {
		return time.Time{}, err
	}
	if day == nil {
		return dayStart(time.Now()), nil
	}
	return dayStart(*day), nil
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
