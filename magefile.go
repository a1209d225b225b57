//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "loga"

// Default target to run when none is specified
var Default = Build

// Build compiles the loga binary
func Build() error {
	mg.Deps(Vet)
	// go-sqlite3 needs cgo
	env := map[string]string{"CGO_ENABLED": "1"}
	return sh.RunWith(env, "go", "build", "-o", binary, "./cmd/loga")
}

// Test runs all package tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet over all packages
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install builds loga and copies it to $GOPATH/bin
func Install() error {
	mg.Deps(Build)

	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	dest := filepath.Join(gopath, "bin", binary)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	return sh.Copy(dest, binary)
}

// Clean removes the built binary
func Clean() error {
	return sh.Rm(binary)
}
