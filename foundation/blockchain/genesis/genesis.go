// Package genesis maintains access to the genesis file. Every peer in the
// network must run with the same genesis file or their chains will never
// validate against each other.
package genesis

import (
	"encoding/json"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date            time.Time     `json:"date"`
	ChainID         uint16        `json:"chain_id"`         // An unique id for this running network.
	Difficulty      int           `json:"difficulty"`       // Proof of work difficulty of the genesis block.
	MineRate        time.Duration `json:"mine_rate"`        // Target time between blocks, drives difficulty adjustment.
	MiningReward    uint64        `json:"mining_reward"`    // Reward for mining a block.
	StartingBalance uint64        `json:"starting_balance"` // Balance every account starts with.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
