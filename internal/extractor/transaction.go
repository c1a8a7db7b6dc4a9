package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/epicchainlabs/epicchain-go/internal/client"
	"github.com/epicchainlabs/epicchain-go/internal/config"
	"github.com/epicchainlabs/epicchain-go/internal/models"
	"github.com/epicchainlabs/epicchain-go/internal/utils"
)

// transactionWithLog is stored when application logs are requested.
type transactionWithLog struct {
	Transaction    json.RawMessage        `json:"transaction"`
	ApplicationLog *client.ApplicationLog `json:"applicationlog"`
}

// extractTransactions converts the transactions embedded in a verbose block.
func extractTransactions(ctx context.Context, node Node, b *client.Block, cfg config.ExtractConfig) ([]*models.Transaction, error) {
	transactions := make([]*models.Transaction, 0, len(b.Transactions))
	for i := range b.Transactions {
		tx := &b.Transactions[i]

		sysFee, err := strconv.ParseInt(tx.SysFee, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid system fee %q in transaction %s: %w", tx.SysFee, tx.Hash, err)
		}
		netFee, err := strconv.ParseInt(tx.NetFee, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid network fee %q in transaction %s: %w", tx.NetFee, tx.Hash, err)
		}

		model := &models.Transaction{
			Hash:       "0x" + tx.Hash.String(),
			BlockID:    uint64(b.Index),
			Sender:     tx.Sender,
			SystemFee:  sysFee,
			NetworkFee: netFee,
			Data:       tx.Raw,
		}

		if cfg.ApplicationLogs {
			log, err := utils.Retry(ctx, "getapplicationlog", cfg.MaxRetries, func(ctx context.Context) (*client.ApplicationLog, error) {
				return node.GetApplicationLog(ctx, tx.Hash)
			})
			if err != nil {
				return nil, fmt.Errorf("failed to get application log of %s: %w", tx.Hash, err)
			}
			if len(log.Executions) > 0 {
				model.VMState = log.Executions[0].VMState
			}
			data, err := json.Marshal(transactionWithLog{Transaction: tx.Raw, ApplicationLog: log})
			if err != nil {
				return nil, fmt.Errorf("failed to marshal transaction %s: %w", tx.Hash, err)
			}
			model.Data = data
		}

		transactions = append(transactions, model)
	}
	return transactions, nil
}
