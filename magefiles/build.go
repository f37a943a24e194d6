//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the rpinfo binary into bin/.
func (Build) Binary() error {
	return goCmd("build", "-o", "bin/rpinfo", ".")
}

// Builds rpinfo with assertions turned into panics.
func (Build) Debug() error {
	return goCmd("build", "-tags", "debug", "-o", "bin/rpinfo-debug", ".")
}

type Test mg.Namespace

// Runs every test, once in release mode and once with the debug tag.
func (Test) All() error {
	if err := goCmd("test", "./..."); err != nil {
		return err
	}
	return goTestDebug()
}
