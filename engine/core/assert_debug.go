//go:build debug

package core

const assertionsFatal = true
