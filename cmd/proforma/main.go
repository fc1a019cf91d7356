package main

import (
	"fmt"
	"os"

	"proforma_engine/cmd/proforma/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
}
