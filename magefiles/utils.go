//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/sh"
)

// goCmd runs a go subcommand with its output streamed to the terminal.
func goCmd(args ...string) error {
	if err := sh.RunV("go", args...); err != nil {
		return fmt.Errorf("go %s: %w", args[0], err)
	}
	return nil
}

// Only packages without contract violation tests are safe to run with
// assertions turned into panics.
func goTestDebug() error {
	return goCmd("test", "-tags", "debug", "./engine/core/...", "./engine/containers/...", "./engine/assets/...")
}
