package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	resolveCmd = &cobra.Command{
		Use:   "resolve <did>",
		Short: "Resolve a DID and print its document",
		Args:  cobra.ExactArgs(1),
		RunE:  runResolve,
	}
)

func runResolve(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reg, err := newResolver(cfg.Resolver())
	if err != nil {
		return errors.Wrap(err, "constructing resolver")
	}

	doc, err := reg.Resolve(ctx, args[0])
	if err != nil {
		return errors.Wrapf(err, "resolving %s", args[0])
	}

	s, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", s)

	return nil
}
