// Package docid parses document identifiers supplied by callers.
package docid

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
)

// Parse returns the ObjectID encoded in s, or an error matching
// apperr.ErrInvalidID when s is not a 24 character hex string.
func Parse(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", apperr.ErrInvalidID, s)
	}

	return id, nil
}
