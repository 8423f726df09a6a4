package main

import (
	"github.com/ilmoi/minichain/app/wallet/cmd"
)

func main() {
	cmd.Execute()
}
