// formsctl reconciles Google Forms responses offline and manages the demo form store.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
