package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ilmoi/minichain/foundation/blockchain/wallet"
)

// addressCmd represents the address command.
var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the account address for the wallet",
	Run: func(cmd *cobra.Command, args []string) {
		w, err := wallet.Load(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(w.Account())
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
}
