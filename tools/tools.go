//go:build tools

// Package tools pins the code generators used by go:generate so their
// versions are tracked in go.mod:
//
//	enumer   Phase, OutcomeKind and Focus string/JSON/YAML methods
//	mockgen  the service.Client mock
package tools

import (
	_ "github.com/dmarkham/enumer"
	_ "go.uber.org/mock/mockgen"
)
