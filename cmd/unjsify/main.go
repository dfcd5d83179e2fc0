// Command unjsify rewrites a CWL workflow so that no CommandLineTool leaf
// document embeds a $(...) or ${...} script expression.
package main

import (
	"fmt"
	"os"

	"github.com/wtsi-hgi/unjsify-go/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
