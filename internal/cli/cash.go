package cli

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/google/subcommands"
)

type depositCmd struct {
	owner  string
	amount string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "deposit cash into an account" }
func (*depositCmd) Usage() string {
	return `paperctl deposit -owner <id> -amount <amount>
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "Account owner (required)")
	f.StringVar(&c.amount, "amount", "", "Amount to deposit (required)")
}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return postCash(ctx, c.owner, c.amount, "deposits", "deposit")
}

type withdrawCmd struct {
	owner  string
	amount string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "withdraw cash from an account" }
func (*withdrawCmd) Usage() string {
	return `paperctl withdraw -owner <id> -amount <amount>
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "Account owner (required)")
	f.StringVar(&c.amount, "amount", "", "Amount to withdraw (required)")
}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return postCash(ctx, c.owner, c.amount, "withdrawals", "withdrawal")
}

func postCash(ctx context.Context, owner, amount, route, verb string) subcommands.ExitStatus {
	if owner == "" || amount == "" {
		fmt.Fprintln(os.Stderr, "Error: -owner and -amount flags are required.")
		return subcommands.ExitUsageError
	}

	req := map[string]any{"amount": amount}
	var resp struct {
		CashBalance string `json:"cash_balance"`
	}
	if err := call(ctx, http.MethodPost, "/v1/accounts/"+owner+"/"+route, req, &resp); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording %s: %v\n", verb, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("New balance: %s\n", resp.CashBalance)
	return subcommands.ExitSuccess
}
