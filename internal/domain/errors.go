package domain

import "github.com/pkg/errors"

// ErrMissingAPIKey signals that no OpenAI credential was supplied, neither
// explicitly nor via the environment. The service layer renders this as a
// fixed user-facing message instead of failing.
var ErrMissingAPIKey = errors.New("no OpenAI API key available")
