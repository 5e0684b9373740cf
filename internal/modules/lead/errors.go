package lead

import "errors"

var ErrValidation = errors.New("validation error")
