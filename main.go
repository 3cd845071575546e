package main

import (
	_ "time/tzdata"

	"github.com/habitd/habitd/cmd"
)

func main() {
	cmd.Execute()
}
