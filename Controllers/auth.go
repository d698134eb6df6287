package Controllers

import (
	"regexp"

	"TapirTwins/AbstractFunctions"
	"TapirTwins/Models"
	"TapirTwins/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Allows letters, digits, underscore and CJK characters
var usernamePattern = regexp.MustCompile(`^[\w\p{Han}]{3,20}$`)

type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"required,email"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func userPayload(user Models.User) fiber.Map {
	return fiber.Map{
		"id":       user.Id,
		"username": user.Username,
		"email":    user.Email,
	}
}

// Register creates an account and returns it with a fresh token
func Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	if !usernamePattern.MatchString(input.Username) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username must be 3-20 characters of letters, digits, underscores or CJK characters",
		})
	}

	var count int64
	Models.DB.Model(&Models.User{}).Where("username = ?", input.Username).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username already exists"})
	}
	Models.DB.Model(&Models.User{}).Where("email = ?", input.Email).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email already registered"})
	}

	hash, err := Models.HashPassword(input.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	now := AbstractFunctions.NowTimestamp()
	user := Models.User{
		Id:           uuid.NewString(),
		Username:     input.Username,
		PasswordHash: hash,
		Email:        input.Email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := Models.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	token, err := middleware.GenerateToken(user.Id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  userPayload(user),
		"token": token,
	})
}

// Login verifies credentials and returns a bearer token
func Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	var user Models.User
	if err := Models.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Wrong username or password"})
	}

	if !user.CheckPassword(input.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Wrong username or password"})
	}

	token, err := middleware.GenerateToken(user.Id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue token"})
	}

	return c.JSON(fiber.Map{
		"user":  userPayload(user),
		"token": token,
	})
}

// Me returns the authenticated account
func Me(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in"})
	}

	return c.JSON(fiber.Map{"user": userPayload(user)})
}
