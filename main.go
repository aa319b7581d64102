package main

import "github.com/wundergraph/graphql-clientgen/cmd"

func main() {
	cmd.Execute()
}
