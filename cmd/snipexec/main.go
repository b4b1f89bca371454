package main

import (
	"github.com/yutopp/snipexec/cmd/snipexec/cli"
)

func main() {
	cli.Execute()
}
