// Command colony inspects and maintains a colony application: it prints
// the effective configuration and routing table, resolves paths, applies
// database migrations and purges expired sessions.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
