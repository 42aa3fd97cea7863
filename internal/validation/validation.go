package validation

import "github.com/gofiber/fiber/v2"

// Violation: alan bazlı doğrulama hatası türleri (kapalı küme).
// Frontend bu anahtarlara göre mesaj gösterir, serbest metin dönmüyoruz.
type Violation string

const (
	Required          Violation = "required"
	MustBePositive    Violation = "must_be_positive"
	MustBeNonNegative Violation = "must_be_non_negative"
	Invalid           Violation = "invalid"
	TooLong           Violation = "too_long"
)

// Bag: alan adı -> ihlal türü.
type Bag map[string]Violation

func (b Bag) Add(field string, v Violation) { b[field] = v }

func (b Bag) Empty() bool { return len(b) == 0 }

// Respond: 422 + {"errors": {...}} döndürür.
func (b Bag) Respond(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"errors": b,
	})
}
