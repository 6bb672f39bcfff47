package cli

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/google/subcommands"
)

type buyCmd struct {
	owner    string
	symbol   string
	quantity int64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy shares at the current oracle price" }
func (*buyCmd) Usage() string {
	return `paperctl buy -owner <id> -symbol <sym> -quantity <n>
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "Account owner (required)")
	f.StringVar(&c.symbol, "symbol", "", "Symbol to buy (required)")
	f.Int64Var(&c.quantity, "quantity", 0, "Number of shares (required)")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return postTrade(ctx, c.owner, c.symbol, c.quantity, "purchases", "Bought")
}

type sellCmd struct {
	owner    string
	symbol   string
	quantity int64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares at the current oracle price" }
func (*sellCmd) Usage() string {
	return `paperctl sell -owner <id> -symbol <sym> -quantity <n>
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "Account owner (required)")
	f.StringVar(&c.symbol, "symbol", "", "Symbol to sell (required)")
	f.Int64Var(&c.quantity, "quantity", 0, "Number of shares (required)")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return postTrade(ctx, c.owner, c.symbol, c.quantity, "sales", "Sold")
}

func postTrade(ctx context.Context, owner, symbol string, quantity int64, route, verb string) subcommands.ExitStatus {
	if owner == "" || symbol == "" || quantity == 0 {
		fmt.Fprintln(os.Stderr, "Error: -owner, -symbol and -quantity flags are required.")
		return subcommands.ExitUsageError
	}

	req := map[string]any{"symbol": symbol, "quantity": quantity}
	var resp struct {
		Symbol       string `json:"symbol"`
		Quantity     int64  `json:"quantity"`
		PricePerUnit string `json:"price_per_unit"`
		TotalAmount  string `json:"total_amount"`
	}
	if err := call(ctx, http.MethodPost, "/v1/accounts/"+owner+"/"+route, req, &resp); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%s %d %s at %s for a total of %s\n", verb, resp.Quantity, resp.Symbol, resp.PricePerUnit, resp.TotalAmount)
	return subcommands.ExitSuccess
}
