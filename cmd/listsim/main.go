// Command listsim plays scripted list updates through the data controller
// and prints the resulting snapshots.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/datacontroller/cmd/listsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
