package main

import "github.com/nfrund/mqbind/cmd/mqbind-cli/cmd"

func main() {
	cmd.Execute()
}
