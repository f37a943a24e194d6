//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Reports the deferred example render pass.
func (Run) Example() error {
	fmt.Println("Run rpinfo...")
	return goCmd("run", ".", "-config", "rpinfo.toml", "-pass", "deferred")
}
