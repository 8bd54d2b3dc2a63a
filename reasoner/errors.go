package reasoner

import (
	"github.com/dice-group/owlgo/errors"
)

// Sentinel errors for the retrieval error taxonomy. Check with errors.Is.
var (
	// ErrUnsupportedExpression reports a class-expression node kind the
	// active backend cannot evaluate. Fatal: propagated to the caller and
	// never retried.
	ErrUnsupportedExpression = errors.New("unsupported class expression")
)
