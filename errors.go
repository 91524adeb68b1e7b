package recordgraph

import (
	"errors"

	"github.com/syssam/recordgraph/compiler"
	"github.com/syssam/recordgraph/persist"
	"github.com/syssam/recordgraph/relation"
	"github.com/syssam/recordgraph/schema"
)

// Errors fall into two tiers. Configuration errors are fatal: they are
// returned from New and no graph is produced. Everything that goes wrong
// during query execution is soft: it surfaces on the result's error list
// and the corresponding output fields resolve to null.

// Standard sentinel errors re-exported from the subpackages that raise them.
var (
	// ErrInvalidSchema matches every schema configuration error.
	ErrInvalidSchema = schema.ErrInvalidSchema

	// ErrUnknownMode is returned for an unrecognized persistence mode.
	ErrUnknownMode = persist.ErrUnknownMode

	// ErrUnknownRecord matches a relationship mutation whose source
	// identifier resolves to no record.
	ErrUnknownRecord = relation.ErrUnknownRecord

	// ErrNotForeignKey matches a relationship mutation on a field that is
	// not a stored foreign key.
	ErrNotForeignKey = relation.ErrNotForeignKey

	// ErrDuplicateID matches a create operation that supplies an
	// identifier already present in the store.
	ErrDuplicateID = compiler.ErrDuplicateID
)

// ConfigError reports an invalid schema declaration.
type ConfigError = schema.ConfigError

// MutationError wraps a failed relationship mutation.
type MutationError = relation.MutationError

// IsConfigError returns true if the error is a schema configuration error.
func IsConfigError(err error) bool {
	return schema.IsConfigError(err)
}

// IsMutationError returns true if the error is a relationship mutation error.
func IsMutationError(err error) bool {
	if err == nil {
		return false
	}
	var e *MutationError
	return errors.As(err, &e)
}
