// Command playoffsctl drives an in-process fixture league from the terminal:
// print the bracket, inspect a series, check a roster and run simulations.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
