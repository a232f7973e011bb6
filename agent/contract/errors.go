package contract

import "errors"

var (
	ErrModelInvoke = errors.New("model invoke failed")
	ErrValidation  = errors.New("validation failed")
	ErrEmbedding   = errors.New("embedding generation failed")
	ErrSearch      = errors.New("restaurant search failed")
)
