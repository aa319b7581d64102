// Command clientgen generates typed Go GraphQL clients from a schema.
//
// It reads one or more SDL files (or an introspection result) and writes three packages:
//
//	constants  names of types, fields and arguments
//	types      enums, inputs, objects, interfaces and unions with builders
//	client     operation builders and projections to select the fields of a response
//
// Requests built with the client package are executed with pkg/client.
//
// Usage:
//
//	clientgen init --import-path github.com/acme/shows/generated
//	clientgen download -e http://localhost:8080/graphql -o schema/schema.graphqls
//	clientgen generate --watch
package main
