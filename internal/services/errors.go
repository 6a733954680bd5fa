package services

import "errors"

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrAccountConflict    = errors.New("an account with this email, username or Google ID already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrUserNotFound       = errors.New("user not found")
	ErrOAuthEmailMissing  = errors.New("identity provider did not return an email address")

	ErrTaskNotFound = errors.New("task not found")
	ErrNotTaskOwner = errors.New("you do not own this task")
	ErrForbidden    = errors.New("you are not allowed to view another user's tasks")

	ErrCannotDeleteYourself = errors.New("administrators cannot delete their own account")
	ErrNoFieldsToUpdate     = errors.New("no values provided")

	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)
