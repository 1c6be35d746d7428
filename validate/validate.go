package validate

import (
	"github.com/go-playground/validator/v10"
)

// Validate is shared so struct tag parsing is cached across models.
var Validate = validator.New()
