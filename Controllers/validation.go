package Controllers

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}
}

// validationMessages turns validator errors into readable English sentences
func validationMessages(err error) []string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Translate(trans))
	}
	return out
}

// bindJSON parses and validates the body into out, writing the 400 response
// itself. ok is false when the handler should return err as is.
func bindJSON(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, respond(c, fiber.StatusBadRequest, statusError, "Invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		msgs := validationMessages(err)
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  statusError,
			"message": strings.Join(msgs, "; "),
			"errors":  msgs,
		})
	}
	return true, nil
}
