package shared

import "github.com/go-playground/validator/v10"

// Validate is the process-wide request validator. Struct tags describe the
// boundary rules; rejected payloads never reach storage.
var Validate = validator.New(validator.WithRequiredStructEnabled())
