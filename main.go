package main

import (
	"github.com/prasetyo/storefront/cmd"
)

func main() {
	cmd.Start()
}
