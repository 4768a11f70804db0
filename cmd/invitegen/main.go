package main

import (
	"github.com/pfrederiksen/invitegen/internal/cli"
)

func main() {
	cli.Execute()
}
