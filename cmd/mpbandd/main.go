package main

import "github.com/orcrobert/mpp/cmd/mpbandd/cmd"

func main() {
	cmd.Execute()
}
