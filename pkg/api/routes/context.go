package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
)

const userLocal = "account_user"

var ErrInvalidBody = models.BadRequest("Invalid request body")

func SetUser(c *fiber.Ctx, user *models.User) {
	c.Locals(userLocal, user)
}

// CurrentUser is the user the token middleware loaded for this request.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocal).(*models.User)
	return user
}

// OperationError carries the message shown to the caller when an operation
// fails for a reason they cannot act on. The wrapped error is only logged.
type OperationError struct {
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func failed(message string, err error) error {
	return &OperationError{Message: message, Err: err}
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return ErrInvalidBody
	}

	return nil
}

func pagedResponse[T any](key string, items interface{}, paged models.Paged[T]) fiber.Map {
	return fiber.Map{
		key:           items,
		"totalPages":  paged.TotalPages,
		"currentPage": paged.CurrentPage,
		"total":       paged.Total,
	}
}
