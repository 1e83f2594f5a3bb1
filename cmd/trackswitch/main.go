package main

import (
	"trackswitch/internal/cli"
)

func main() {
	cli.Execute()
}
