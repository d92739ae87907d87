package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/quangdng/preschool-cms/internal/apperr"
)

func GetUserID(c *fiber.Ctx) int64 {
	userID, _ := strconv.Atoi(c.Locals("user_id").(string))
	return int64(userID)
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound("resource not found")
	}
	return id, nil
}
