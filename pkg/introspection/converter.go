package introspection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wundergraph/graphql-clientgen/internal/pkg/quotes"
)

const indent = "  "

var (
	builtInScalars = map[string]struct{}{
		"String": {}, "Int": {}, "Float": {}, "Boolean": {}, "ID": {},
	}
	builtInDirectives = map[string]struct{}{
		"skip": {}, "include": {}, "deprecated": {}, "specifiedBy": {}, "oneOf": {}, "defer": {}, "stream": {},
	}
)

type JsonConverter struct {
	schema *Schema
	out    *bytes.Buffer
}

// Decode reads an introspection result, accepting both the raw response and the bare data object.
func Decode(introspectionJSON io.Reader) (*Schema, error) {
	raw, err := io.ReadAll(introspectionJSON)
	if err != nil {
		return nil, err
	}

	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse introspection json: %w", err)
	}
	if resp.Data != nil {
		return &resp.Data.Schema, nil
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse introspection json: %w", err)
	}
	if data.Schema.QueryType == nil && len(data.Schema.Types) == 0 {
		return nil, fmt.Errorf("failed to parse introspection json: no __schema found")
	}
	return &data.Schema, nil
}

// GraphQLSchema converts an introspection result into SDL.
func (j *JsonConverter) GraphQLSchema(introspectionJSON io.Reader) ([]byte, error) {
	schema, err := Decode(introspectionJSON)
	if err != nil {
		return nil, err
	}
	return j.Print(schema)
}

func (j *JsonConverter) Print(schema *Schema) ([]byte, error) {
	j.schema = schema
	j.out = &bytes.Buffer{}

	if err := j.printSchema(); err != nil {
		return nil, fmt.Errorf("failed to convert graphql schema: %w", err)
	}
	return j.out.Bytes(), nil
}

func (j *JsonConverter) printSchema() error {
	j.printSchemaDefinition()

	for _, fullType := range j.schema.Types {
		if strings.HasPrefix(fullType.Name, "__") {
			continue
		}
		if err := j.printFullType(fullType); err != nil {
			return err
		}
	}

	for _, directive := range j.schema.Directives {
		if err := j.printDirective(directive); err != nil {
			return err
		}
	}

	return nil
}

func (j *JsonConverter) printSchemaDefinition() {
	query, mutation, subscription := j.schema.TypeNames()
	if (query == "" || query == "Query") &&
		(mutation == "" || mutation == "Mutation") &&
		(subscription == "" || subscription == "Subscription") {
		return
	}

	j.out.WriteString("schema {\n")
	if query != "" {
		j.out.WriteString(indent + "query: " + query + "\n")
	}
	if mutation != "" {
		j.out.WriteString(indent + "mutation: " + mutation + "\n")
	}
	if subscription != "" {
		j.out.WriteString(indent + "subscription: " + subscription + "\n")
	}
	j.out.WriteString("}\n\n")
}

func (j *JsonConverter) printFullType(fullType FullType) error {
	switch fullType.Kind {
	case SCALAR:
		if _, ok := builtInScalars[fullType.Name]; ok {
			return nil
		}
		j.printDescription(fullType.Description, "")
		j.out.WriteString("scalar " + fullType.Name + "\n\n")
	case OBJECT:
		return j.printObject("type", fullType)
	case INTERFACE:
		return j.printObject("interface", fullType)
	case ENUM:
		j.printEnum(fullType)
	case UNION:
		return j.printUnion(fullType)
	case INPUTOBJECT:
		return j.printInputObject(fullType)
	default:
		return fmt.Errorf("type %s has unsupported kind %q", fullType.Name, fullType.Kind)
	}
	return nil
}

func (j *JsonConverter) printObject(keyword string, fullType FullType) error {
	j.printDescription(fullType.Description, "")
	j.out.WriteString(keyword + " " + fullType.Name)

	if len(fullType.Interfaces) != 0 {
		names := make([]string, 0, len(fullType.Interfaces))
		for _, ref := range fullType.Interfaces {
			name, err := printTypeRef(ref)
			if err != nil {
				return err
			}
			names = append(names, name)
		}
		j.out.WriteString(" implements " + strings.Join(names, " & "))
	}

	j.out.WriteString(" {\n")
	for _, field := range fullType.Fields {
		if err := j.printField(field); err != nil {
			return fmt.Errorf("%s.%s: %w", fullType.Name, field.Name, err)
		}
	}
	j.out.WriteString("}\n\n")
	return nil
}

func (j *JsonConverter) printField(field Field) error {
	j.printDescription(field.Description, indent)
	j.out.WriteString(indent + field.Name)

	if err := j.printArguments(field.Args); err != nil {
		return err
	}

	typeName, err := printTypeRef(field.Type)
	if err != nil {
		return err
	}
	j.out.WriteString(": " + typeName)
	j.printDeprecation(field.IsDeprecated, field.DeprecationReason)
	j.out.WriteString("\n")
	return nil
}

func (j *JsonConverter) printArguments(args []InputValue) error {
	if len(args) == 0 {
		return nil
	}
	printed := make([]string, 0, len(args))
	for _, arg := range args {
		value, err := printInputValue(arg)
		if err != nil {
			return err
		}
		printed = append(printed, value)
	}
	j.out.WriteString("(" + strings.Join(printed, ", ") + ")")
	return nil
}

func (j *JsonConverter) printEnum(fullType FullType) {
	j.printDescription(fullType.Description, "")
	j.out.WriteString("enum " + fullType.Name + " {\n")
	for _, value := range fullType.EnumValues {
		j.printDescription(value.Description, indent)
		j.out.WriteString(indent + value.Name)
		j.printDeprecation(value.IsDeprecated, value.DeprecationReason)
		j.out.WriteString("\n")
	}
	j.out.WriteString("}\n\n")
}

func (j *JsonConverter) printUnion(fullType FullType) error {
	members := make([]string, 0, len(fullType.PossibleTypes))
	for _, ref := range fullType.PossibleTypes {
		name, err := printTypeRef(ref)
		if err != nil {
			return err
		}
		members = append(members, name)
	}

	j.printDescription(fullType.Description, "")
	j.out.WriteString("union " + fullType.Name + " = " + strings.Join(members, " | ") + "\n\n")
	return nil
}

func (j *JsonConverter) printInputObject(fullType FullType) error {
	j.printDescription(fullType.Description, "")
	j.out.WriteString("input " + fullType.Name + " {\n")
	for _, field := range fullType.InputFields {
		value, err := printInputValue(field)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", fullType.Name, field.Name, err)
		}
		j.printDescription(field.Description, indent)
		j.out.WriteString(indent + value + "\n")
	}
	j.out.WriteString("}\n\n")
	return nil
}

func (j *JsonConverter) printDirective(directive Directive) error {
	if _, ok := builtInDirectives[directive.Name]; ok {
		return nil
	}

	j.printDescription(directive.Description, "")
	j.out.WriteString("directive @" + directive.Name)
	if err := j.printArguments(directive.Args); err != nil {
		return fmt.Errorf("@%s: %w", directive.Name, err)
	}
	if directive.IsRepeatable {
		j.out.WriteString(" repeatable")
	}
	j.out.WriteString(" on " + strings.Join(directive.Locations, " | ") + "\n\n")
	return nil
}

func (j *JsonConverter) printDescription(description *string, prefix string) {
	if description == nil || *description == "" {
		return
	}
	j.out.WriteString(quotes.BlockString(*description, prefix) + "\n")
}

func (j *JsonConverter) printDeprecation(isDeprecated bool, reason *string) {
	if !isDeprecated {
		return
	}
	j.out.WriteString(" @deprecated")
	if reason != nil && *reason != "" {
		j.out.WriteString("(reason: " + quotes.QuoteString(*reason) + ")")
	}
}

func printInputValue(value InputValue) (string, error) {
	typeName, err := printTypeRef(value.Type)
	if err != nil {
		return "", err
	}
	out := value.Name + ": " + typeName
	if value.DefaultValue != nil {
		// default values are already serialized as GraphQL literals
		out += " = " + *value.DefaultValue
	}
	return out, nil
}

func printTypeRef(typeRef TypeRef) (string, error) {
	switch typeRef.Kind {
	case LIST:
		if typeRef.OfType == nil {
			return "", fmt.Errorf("list type without ofType")
		}
		inner, err := printTypeRef(*typeRef.OfType)
		if err != nil {
			return "", err
		}
		return "[" + inner + "]", nil
	case NONNULL:
		if typeRef.OfType == nil {
			return "", fmt.Errorf("non-null type without ofType")
		}
		inner, err := printTypeRef(*typeRef.OfType)
		if err != nil {
			return "", err
		}
		return inner + "!", nil
	}

	if typeRef.Name == nil {
		return "", fmt.Errorf("named type of kind %q without name", typeRef.Kind)
	}
	return *typeRef.Name, nil
}
