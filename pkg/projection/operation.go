package projection

import (
	"encoding/json"
	"fmt"
	"strings"
)

type OperationType string

const (
	Query        OperationType = "query"
	Mutation     OperationType = "mutation"
	Subscription OperationType = "subscription"
)

const indent = "  "

// Operation is a single root field of a query, mutation or subscription together with its arguments.
type Operation struct {
	Type OperationType
	// Name is the optional operation name.
	Name  string
	Field string
	Alias string

	arguments []Argument
}

func NewOperation(operationType OperationType, field string) *Operation {
	return &Operation{
		Type:  operationType,
		Field: field,
	}
}

// SetArgument sets an argument of the root field. Setting an argument again replaces its value
// but keeps its position.
func (o *Operation) SetArgument(name string, value any) *Operation {
	for i := range o.arguments {
		if o.arguments[i].Name == name {
			o.arguments[i].Value = value
			return o
		}
	}
	o.arguments = append(o.arguments, Argument{Name: name, Value: value})
	return o
}

func (o *Operation) Argument(name string) (any, bool) {
	for _, arg := range o.arguments {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return nil, false
}

func (o *Operation) Arguments() []Argument {
	return o.arguments
}

// Request combines an operation with the fields to select on its result.
type Request struct {
	Operation  *Operation
	Projection *Node
}

// NewRequest creates a request. The projection is nil for root fields of scalar or enum type,
// an empty projection of a composite root field selects __typename.
func NewRequest(operation *Operation, projection Projector) *Request {
	r := &Request{Operation: operation}
	if projection != nil {
		r.Projection = projection.ProjectionNode()
	}
	return r
}

// Serialize prints the request as an indented GraphQL document.
func (r *Request) Serialize() (string, error) {
	lines, err := r.lines()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, l := range lines {
		if i != 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Repeat(indent, l.depth))
		sb.WriteString(l.text)
	}
	return sb.String(), nil
}

// Compact prints the request on a single line.
func (r *Request) Compact() (string, error) {
	lines, err := r.lines()
	if err != nil {
		return "", err
	}

	texts := make([]string, 0, len(lines))
	for _, l := range lines {
		texts = append(texts, l.text)
	}
	return strings.Join(texts, " "), nil
}

type requestBody struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName,omitempty"`
}

// Body returns the JSON body of a GraphQL over HTTP request.
func (r *Request) Body() ([]byte, error) {
	query, err := r.Serialize()
	if err != nil {
		return nil, err
	}
	return json.Marshal(requestBody{
		Query:         query,
		OperationName: r.Operation.Name,
	})
}

type line struct {
	depth int
	text  string
}

func (r *Request) lines() ([]line, error) {
	if r.Operation == nil {
		return nil, fmt.Errorf("request without operation")
	}
	op := r.Operation
	if op.Field == "" {
		return nil, fmt.Errorf("operation without root field")
	}

	operationType := op.Type
	if operationType == "" {
		operationType = Query
	}

	header := string(operationType)
	if op.Name != "" {
		header += " " + op.Name
	}

	args, err := FormatArguments(op.arguments)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.Field, err)
	}

	field := op.Field + args
	if op.Alias != "" {
		field = op.Alias + ": " + field
	}

	lines := []line{{depth: 0, text: header + " {"}}
	switch {
	case r.Projection == nil:
		lines = append(lines, line{depth: 1, text: field})
	case r.Projection.IsEmpty():
		lines = append(lines, line{depth: 1, text: field + " {"}, line{depth: 2, text: TypenameField}, line{depth: 1, text: "}"})
	default:
		lines = append(lines, line{depth: 1, text: field + " {"})
		lines, err = appendSelectionSet(lines, r.Projection, 2)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op.Field, err)
		}
		lines = append(lines, line{depth: 1, text: "}"})
	}
	lines = append(lines, line{depth: 0, text: "}"})
	return lines, nil
}

func appendSelectionSet(lines []line, node *Node, depth int) ([]line, error) {
	for _, selection := range node.selections {
		args, err := FormatArguments(selection.Arguments)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", selection.Name, err)
		}
		text := selection.Name + args
		if selection.Alias != "" {
			text = selection.Alias + ": " + text
		}

		if selection.Children == nil {
			lines = append(lines, line{depth: depth, text: text})
			continue
		}

		lines = append(lines, line{depth: depth, text: text + " {"})
		if selection.Children.IsEmpty() {
			// a composite field needs a non empty selection set to be valid
			lines = append(lines, line{depth: depth + 1, text: TypenameField})
		} else {
			lines, err = appendSelectionSet(lines, selection.Children, depth+1)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", selection.Name, err)
			}
		}
		lines = append(lines, line{depth: depth, text: "}"})
	}

	for _, fragment := range node.fragments {
		if fragment.Selection.IsEmpty() {
			continue
		}
		var err error
		lines = append(lines, line{depth: depth, text: "... on " + fragment.TypeCondition + " {"})
		lines, err = appendSelectionSet(lines, fragment.Selection, depth+1)
		if err != nil {
			return nil, fmt.Errorf("... on %s: %w", fragment.TypeCondition, err)
		}
		lines = append(lines, line{depth: depth, text: "}"})
	}

	return lines, nil
}
