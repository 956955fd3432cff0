package store

import "github.com/roadsafetyguard/roadsafetyguard/pkg/models"

var (
	ErrAccidentNotFound = models.NotFound("Accident report not found")
	ErrUserNotFound     = models.NotFound("User not found")
	ErrUserExists       = models.Conflict("User with this email or username already exists")
)
