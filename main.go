package main

import (
	"github.com/thanhnguyen2187/bl3-savior/cli"
)

func main() {
	cli.Start()
}
