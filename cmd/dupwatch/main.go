package main

import "github.com/aivahq/dupwatch/cmd"

func main() {
	cmd.Execute()
}
