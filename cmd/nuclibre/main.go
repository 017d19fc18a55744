// Command nuclibre builds a nuclide decay library from ENSDF data.
package main

import "github.com/mesh-intelligence/nuclibre/internal/cli"

func main() {
	cli.Execute()
}
