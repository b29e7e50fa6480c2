package main

import "github.com/cybercaution/cybercaution/cmd"

// execCmd is indirected so tests can stub the CLI entry point.
var execCmd = cmd.Execute

func main() {
	execCmd()
}
