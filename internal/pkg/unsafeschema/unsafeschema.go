// Package unsafeschema loads schemas for tests, panicking on invalid input.
package unsafeschema

import (
	"github.com/wundergraph/graphql-clientgen/pkg/schema"
)

func Load(sdl string) *schema.Schema {
	s, err := schema.LoadString("schema.graphqls", sdl)
	if err != nil {
		panic(err)
	}
	return s
}
