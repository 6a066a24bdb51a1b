package main

import "github.com/oshokin/space-status/cmd/space-status/cmd"

func main() {
	cmd.Execute()
}
