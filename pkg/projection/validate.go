package projection

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// Validate checks a serialized operation against schema.
func Validate(schema *ast.Schema, query string) error {
	_, errs := gqlparser.LoadQuery(schema, query)
	if len(errs) != 0 {
		return errs
	}
	return nil
}

// ValidateRequest serializes r and validates the result against schema.
func ValidateRequest(schema *ast.Schema, r *Request) error {
	query, err := r.Serialize()
	if err != nil {
		return err
	}
	return Validate(schema, query)
}
