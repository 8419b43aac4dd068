// cmd/faceoff/main.go
package main

import (
	cmd "github.com/mwiater/faceoff/internal/commands"
)

// main starts the faceoff CLI application by delegating to the
// cobra root command defined in the faceoff package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
