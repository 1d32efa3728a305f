// Command tripplan generates itineraries and documents without running the API server.
package main

import (
	"os"

	"github.com/pkordes/trip-planner/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
