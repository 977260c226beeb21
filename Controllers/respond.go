package Controllers

import (
	"TaskFlow/TaskBoard"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// respond writes the {status, message} envelope used by every write action
func respond(c *fiber.Ctx, code int, status, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"message": message,
	})
}

// taskError maps aggregator errors onto HTTP codes
func taskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, TaskBoard.ErrUnknownTaskType):
		return respond(c, fiber.StatusBadRequest, statusError, "Invalid task type")
	case errors.Is(err, TaskBoard.ErrInvalidStatus):
		return respond(c, fiber.StatusBadRequest, statusError, "Invalid status")
	case errors.Is(err, TaskBoard.ErrTaskNotFound):
		return respond(c, fiber.StatusNotFound, statusError, "Task not found")
	case errors.Is(err, TaskBoard.ErrForbidden):
		return respond(c, fiber.StatusForbidden, statusError, "You are not allowed to change this task")
	}
	log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	return respond(c, fiber.StatusInternalServerError, statusError, "Something went wrong")
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not Logged In."})
}
