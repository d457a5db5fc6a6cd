// Package main is the entry point for the Vigil CLI.
package main

import "vigil.dev/pkg/vigil/cmd"

func main() {
	cmd.Execute()
}
