package cli

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/google/subcommands"
)

type summaryCmd struct {
	owner string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show a point-in-time portfolio summary" }
func (*summaryCmd) Usage() string {
	return `paperctl summary -owner <id>
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "Account owner (required)")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.owner == "" {
		fmt.Fprintln(os.Stderr, "Error: -owner flag is required.")
		return subcommands.ExitUsageError
	}

	var resp struct {
		CashBalance string `json:"cash_balance"`
		NetDeposits string `json:"net_deposits"`
		Holdings    []struct {
			Symbol   string `json:"symbol"`
			Quantity int64  `json:"quantity"`
			Price    string `json:"price"`
			Priced   bool   `json:"priced"`
			Value    string `json:"value"`
		} `json:"holdings"`
		TotalSharesValue    string `json:"total_shares_value"`
		TotalPortfolioValue string `json:"total_portfolio_value"`
		ProfitLoss          string `json:"profit_loss"`
	}
	if err := call(ctx, http.MethodGet, "/v1/accounts/"+c.owner+"/summary", nil, &resp); err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching summary: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Cash balance:    %s\n", resp.CashBalance)
	fmt.Printf("Net deposits:    %s\n", resp.NetDeposits)
	for _, h := range resp.Holdings {
		if h.Priced {
			fmt.Printf("  %-8s x%-6d @ %-10s = %s\n", h.Symbol, h.Quantity, h.Price, h.Value)
		} else {
			fmt.Printf("  %-8s x%-6d (no price available)\n", h.Symbol, h.Quantity)
		}
	}
	fmt.Printf("Shares value:    %s\n", resp.TotalSharesValue)
	fmt.Printf("Portfolio value: %s\n", resp.TotalPortfolioValue)
	fmt.Printf("Profit/loss:     %s\n", resp.ProfitLoss)
	return subcommands.ExitSuccess
}

type historyCmd struct {
	owner string
	limit int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list account transactions, most recent first" }
func (*historyCmd) Usage() string {
	return `paperctl history -owner <id> [-limit <n>]
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "Account owner (required)")
	f.IntVar(&c.limit, "limit", 0, "Show only the first N transactions")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.owner == "" {
		fmt.Fprintln(os.Stderr, "Error: -owner flag is required.")
		return subcommands.ExitUsageError
	}

	var resp []struct {
		Sequence     int64  `json:"sequence"`
		Timestamp    string `json:"timestamp"`
		Kind         string `json:"kind"`
		Symbol       string `json:"symbol"`
		Quantity     int64  `json:"quantity"`
		PricePerUnit string `json:"price_per_unit"`
		TotalAmount  string `json:"total_amount"`
	}
	if err := call(ctx, http.MethodGet, "/v1/accounts/"+c.owner+"/transactions", nil, &resp); err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching history: %v\n", err)
		return subcommands.ExitFailure
	}

	for i, tx := range resp {
		if c.limit > 0 && i >= c.limit {
			break
		}
		if tx.Symbol != "" {
			fmt.Printf("#%-4d %s %-10s %s x%d @ %s = %s\n", tx.Sequence, tx.Timestamp, tx.Kind, tx.Symbol, tx.Quantity, tx.PricePerUnit, tx.TotalAmount)
		} else {
			fmt.Printf("#%-4d %s %-10s %s\n", tx.Sequence, tx.Timestamp, tx.Kind, tx.TotalAmount)
		}
	}
	return subcommands.ExitSuccess
}
