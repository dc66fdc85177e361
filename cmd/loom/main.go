// Package main provides the Loom ML Framework CLI.
package main

import (
	"fmt"
	"os"

	"github.com/loom-ml/loom/internal/cpuinfo"
	"github.com/loom-ml/loom/tensor"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Loom ML Framework %s\n", version)
			return
		case "targets":
			printTargets()
			return
		}
	}

	fmt.Println("Loom ML Framework - Array Compute for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  targets    Show execution targets and CPU features")
}

func printTargets() {
	fmt.Printf("vector unit: %s\n", cpuinfo.VectorName())
	fmt.Printf("default target: %s\n\n", tensor.DefaultTarget())
	for _, t := range tensor.Targets() {
		supported := 0
		for k := 0; k < tensor.NumKinds(); k++ {
			if tensor.Supported(t, tensor.Kind(k)) {
				supported++
			}
		}
		fmt.Printf("  %-7s %d primitives\n", t, supported)
	}
}
