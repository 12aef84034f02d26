package main

import (
	"github.com/notargets/seisfdtd/cmd"
)

func main() {
	cmd.Execute()
}
