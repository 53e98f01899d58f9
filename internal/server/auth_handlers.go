package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SignupForm renders the registration form.
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return c.Render("auth/signup", fiber.Map{"Title": "Sign up"})
}

// Signup handles the registration form submission. Validation failures
// re-render the form with the error; success starts a session and lands on
// the index page.
func (s *Server) Signup(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	if password != c.FormValue("password2") {
		return c.Render("auth/signup", fiber.Map{
			"Title":    "Sign up",
			"Error":    "The two password fields didn't match.",
			"Username": username,
			"Email":    c.FormValue("email"),
		})
	}

	user, err := s.userService.Signup(c.UserContext(), service.SignupInput{
		Username:    username,
		Email:       c.FormValue("email"),
		Password:    password,
		DisplayName: c.FormValue("display_name"),
	})
	if err != nil {
		if models.ErrorCode(err) == models.CodeValidation {
			return c.Render("auth/signup", fiber.Map{
				"Title":    "Sign up",
				"Error":    err.Error(),
				"Username": username,
				"Email":    c.FormValue("email"),
			})
		}
		return err
	}

	if err := s.issueSession(c, user.ID); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

// LoginForm renders the login form. A next query parameter carries the page
// that required authentication.
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return c.Render("auth/login", fiber.Map{
		"Title": "Log in",
		"Next":  safeNextTarget(c.Query("next")),
	})
}

// Login handles the login form submission. On success the viewer returns to
// the page they originally asked for, or the index.
func (s *Server) Login(c *fiber.Ctx) error {
	next := safeNextTarget(c.FormValue("next"))

	user, err := s.userService.Login(c.UserContext(), c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		if models.ErrorCode(err) == models.CodeUnauthorized {
			return c.Render("auth/login", fiber.Map{
				"Title":    "Log in",
				"Error":    "Please enter a correct username and password.",
				"Username": c.FormValue("username"),
				"Next":     next,
			})
		}
		return err
	}

	if err := s.issueSession(c, user.ID); err != nil {
		return err
	}
	return c.Redirect(next, fiber.StatusFound)
}

// Logout drops the session and returns to the index page.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearSession(c)
	return c.Redirect("/", fiber.StatusFound)
}
