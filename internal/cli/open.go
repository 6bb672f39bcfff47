package cli

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/google/subcommands"
)

type openCmd struct {
	owner   string
	deposit string
}

func (*openCmd) Name() string     { return "open" }
func (*openCmd) Synopsis() string { return "open a new trading account" }
func (*openCmd) Usage() string {
	return `paperctl open -owner <id> -deposit <amount>

  Opens a new account with a positive initial deposit.
`
}

func (c *openCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "Owner identifier for the new account (required)")
	f.StringVar(&c.deposit, "deposit", "", "Initial deposit amount (required)")
}

func (c *openCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.owner == "" || c.deposit == "" {
		fmt.Fprintln(os.Stderr, "Error: -owner and -deposit flags are required.")
		return subcommands.ExitUsageError
	}

	req := map[string]any{"owner_id": c.owner, "initial_deposit": c.deposit}
	var resp struct {
		OwnerID     string `json:"owner_id"`
		CashBalance string `json:"cash_balance"`
	}
	if err := call(ctx, http.MethodPost, "/v1/accounts", req, &resp); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening account: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Account %s opened with balance %s\n", resp.OwnerID, resp.CashBalance)
	return subcommands.ExitSuccess
}
