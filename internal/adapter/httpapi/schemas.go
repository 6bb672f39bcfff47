package httpapi

import (
	"github.com/paperdesk/paperdesk-backend/internal/domain"
	"github.com/paperdesk/paperdesk-backend/internal/usecase/ledger"
)

// Decimal amounts travel as strings on the wire so no precision is lost in
// JSON number round-trips.

type openAccountRequest struct {
	OwnerID        string `json:"owner_id"`
	InitialDeposit string `json:"initial_deposit"`
}

type amountRequest struct {
	Amount string `json:"amount"`
}

type tradeRequest struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

type accountResponse struct {
	ID          string           `json:"id"`
	OwnerID     string           `json:"owner_id"`
	CashBalance string           `json:"cash_balance"`
	Holdings    map[string]int64 `json:"holdings"`
}

type balanceResponse struct {
	CashBalance string `json:"cash_balance"`
}

type receiptResponse struct {
	Symbol       string `json:"symbol"`
	Quantity     int64  `json:"quantity"`
	PricePerUnit string `json:"price_per_unit"`
	TotalAmount  string `json:"total_amount"`
}

type holdingValueResponse struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
	Price    string `json:"price,omitempty"`
	Priced   bool   `json:"priced"`
	Value    string `json:"value"`
}

type summaryResponse struct {
	CashBalance         string                 `json:"cash_balance"`
	NetDeposits         string                 `json:"net_deposits"`
	Holdings            []holdingValueResponse `json:"holdings"`
	TotalSharesValue    string                 `json:"total_shares_value"`
	TotalPortfolioValue string                 `json:"total_portfolio_value"`
	ProfitLoss          string                 `json:"profit_loss"`
}

type transactionResponse struct {
	Sequence     int64  `json:"sequence"`
	Timestamp    string `json:"timestamp"`
	Kind         string `json:"kind"`
	Symbol       string `json:"symbol,omitempty"`
	Quantity     int64  `json:"quantity,omitempty"`
	PricePerUnit string `json:"price_per_unit,omitempty"`
	TotalAmount  string `json:"total_amount"`
}

func accountToResponse(account domain.Account) accountResponse {
	return accountResponse{
		ID:          account.ID.String(),
		OwnerID:     account.OwnerID,
		CashBalance: account.CashBalance.String(),
		Holdings:    account.Holdings,
	}
}

func buyReceiptToResponse(receipt *ledger.BuyReceipt) receiptResponse {
	return receiptResponse{
		Symbol:       receipt.Symbol,
		Quantity:     receipt.Quantity,
		PricePerUnit: receipt.PricePerUnit.String(),
		TotalAmount:  receipt.TotalCost.String(),
	}
}

func sellReceiptToResponse(receipt *ledger.SellReceipt) receiptResponse {
	return receiptResponse{
		Symbol:       receipt.Symbol,
		Quantity:     receipt.Quantity,
		PricePerUnit: receipt.PricePerUnit.String(),
		TotalAmount:  receipt.TotalProceeds.String(),
	}
}

func summaryToResponse(summary *domain.PortfolioSummary) summaryResponse {
	holdings := make([]holdingValueResponse, 0, len(summary.Holdings))
	for _, hv := range summary.Holdings {
		item := holdingValueResponse{
			Symbol:   hv.Symbol,
			Quantity: hv.Quantity,
			Priced:   hv.Priced,
			Value:    hv.Value.String(),
		}
		if hv.Priced {
			item.Price = hv.Price.String()
		}
		holdings = append(holdings, item)
	}

	return summaryResponse{
		CashBalance:         summary.CashBalance.String(),
		NetDeposits:         summary.NetDeposits.String(),
		Holdings:            holdings,
		TotalSharesValue:    summary.TotalSharesValue.String(),
		TotalPortfolioValue: summary.TotalPortfolioValue.String(),
		ProfitLoss:          summary.ProfitLoss.String(),
	}
}

func transactionsToResponse(txs []domain.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		item := transactionResponse{
			Sequence:    tx.Sequence,
			Timestamp:   tx.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			Kind:        string(tx.Kind),
			TotalAmount: tx.TotalAmount.String(),
		}
		if tx.IsTrade() {
			item.Symbol = tx.Symbol
			item.Quantity = tx.Quantity
			item.PricePerUnit = tx.PricePerUnit.String()
		}
		out = append(out, item)
	}
	return out
}
