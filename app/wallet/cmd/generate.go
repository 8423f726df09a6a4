package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/ilmoi/minichain/foundation/blockchain/wallet"
)

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key pair",
	Run: func(cmd *cobra.Command, args []string) {
		w, err := wallet.New()
		if err != nil {
			log.Fatal(err)
		}
		if err := w.Save(getPrivateKeyPath()); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
