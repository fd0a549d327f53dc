// Command geoloc trains, queries, and evaluates a text-feature geolocator.
package main

import (
	"fmt"
	"os"

	"github.com/wincentbalin/geoloc-kde/geolocutil"
)

func main() {
	cfg := geolocutil.InitializeConfig()
	if err := cfg.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}
