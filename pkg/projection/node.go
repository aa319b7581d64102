// Package projection builds GraphQL operations from field selections.
//
// Generated client packages wrap a Node per GraphQL type so callers choose fields with typed methods:
//
//	req := projection.NewRequest(
//		client.NewShowsGraphQLQuery().TitleFilter("Ozark").Build(),
//		client.NewShowsProjectionRoot().Title().Reviews(func(r *client.ReviewProjection) {
//			r.StarScore()
//		}),
//	)
//	query, err := req.Serialize()
package projection

// TypenameField is selected automatically on interfaces and unions.
const TypenameField = "__typename"

// Projector is implemented by everything that holds a selection set.
type Projector interface {
	ProjectionNode() *Node
}

// Argument is a named argument of a field or operation. Value is formatted with FormatValue.
type Argument struct {
	Name  string
	Value any
}

// Selection is a field inside a selection set. Children is nil for leaf fields.
type Selection struct {
	Name      string
	Alias     string
	Arguments []Argument
	Children  *Node
}

// Fragment is an inline fragment on a concrete or abstract type.
type Fragment struct {
	TypeCondition string
	Selection     *Node
}

// Node is an ordered selection set.
type Node struct {
	selections []*Selection
	fragments  []*Fragment
}

func NewNode() *Node {
	return &Node{}
}

func (n *Node) ProjectionNode() *Node {
	return n
}

// Field selects a leaf field. Selecting the same field twice has no effect.
//
// A selection is identified by its alias and field name. GraphQL rejects two selections of the
// same response key with differing arguments, so selecting a field again replaces its arguments
// and the last call wins. Use AliasedField or AliasedObject to select a field more than once.
func (n *Node) Field(name string, args ...Argument) *Node {
	n.selection(name, "", args, false)
	return n
}

// AliasedField selects a leaf field under an alias.
func (n *Node) AliasedField(alias, name string, args ...Argument) *Node {
	n.selection(name, alias, args, false)
	return n
}

// Object selects a composite field and returns its selection set.
// Selecting the same field again returns the existing selection set with the new arguments.
func (n *Node) Object(name string, args ...Argument) *Node {
	return n.selection(name, "", args, true).Children
}

// AliasedObject selects a composite field under an alias and returns its selection set.
func (n *Node) AliasedObject(alias, name string, args ...Argument) *Node {
	return n.selection(name, alias, args, true).Children
}

// On returns the selection set of the inline fragment for typeCondition.
func (n *Node) On(typeCondition string) *Node {
	for _, fragment := range n.fragments {
		if fragment.TypeCondition == typeCondition {
			return fragment.Selection
		}
	}
	fragment := &Fragment{TypeCondition: typeCondition, Selection: NewNode()}
	n.fragments = append(n.fragments, fragment)
	return fragment.Selection
}

func (n *Node) Selections() []*Selection {
	return n.selections
}

func (n *Node) Fragments() []*Fragment {
	return n.fragments
}

// IsEmpty reports whether nothing is selected.
func (n *Node) IsEmpty() bool {
	return n == nil || (len(n.selections) == 0 && len(n.fragments) == 0)
}

// HasField reports whether name is selected directly on n.
func (n *Node) HasField(name string) bool {
	for _, selection := range n.selections {
		if selection.Name == name {
			return true
		}
	}
	return false
}

func (n *Node) selection(name, alias string, args []Argument, composite bool) *Selection {
	for _, existing := range n.selections {
		if existing.Name != name || existing.Alias != alias {
			continue
		}
		existing.Arguments = args
		if composite && existing.Children == nil {
			existing.Children = NewNode()
		}
		return existing
	}

	selection := &Selection{
		Name:      name,
		Alias:     alias,
		Arguments: args,
	}
	if composite {
		selection.Children = NewNode()
	}
	n.selections = append(n.selections, selection)
	return selection
}
