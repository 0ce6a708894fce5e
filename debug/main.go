package main

import (
	"os"

	"github.com/aivahq/dupwatch/internal/server"
)

func main() {
	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "4030"
	}

	err := server.Start(httpPort)
	if err != nil {
		return
	}
}
