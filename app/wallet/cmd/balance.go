package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ilmoi/minichain/foundation/blockchain/wallet"
)

// balanceCmd represents the balance command.
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print the confirmed balance for the wallet account",
	Run: func(cmd *cobra.Command, args []string) {
		w, err := wallet.Load(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		account := w.Account()
		fmt.Println("For Account:", account)

		resp, err := http.Get(fmt.Sprintf("%s/v1/balances/list/%s", url, account))
		if err != nil {
			log.Fatal(err)
		}
		defer resp.Body.Close()

		var result struct {
			Balances []struct {
				Account string `json:"account"`
				Balance uint64 `json:"balance"`
			} `json:"balances"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			log.Fatal(err)
		}

		if len(result.Balances) > 0 {
			fmt.Println(result.Balances[0].Balance)
		}
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}
