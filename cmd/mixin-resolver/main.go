// Command mixin-resolver resolves mixin configurations declared in Go
// directives and YAML manifests and prints the result.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
