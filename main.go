package main

import "github.com/tranvictor/provenance/cmd"

func main() {
	cmd.Execute()
}
