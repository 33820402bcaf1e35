// Command townserver runs the multiplayer virtual-town session server.
package main

import (
	"log"

	"github.com/coveytown/townserver/internal/application/startup"
)

func main() {
	if err := startup.Initialize(); err != nil {
		log.Fatalf("townserver: %v", err)
	}
}
