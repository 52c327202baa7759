// cmd/syndeo/main.go
package main

import (
	cmd "github.com/mwiater/syndeo/internal/cli"
)

// main starts the syndeo CLI application by delegating to the
// cobra root command defined in the syndeo package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
