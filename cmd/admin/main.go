package main

import (
	"github.com/gauravmohjay/admin/internal/cli"
)

func main() {
	cli.Execute()
}
