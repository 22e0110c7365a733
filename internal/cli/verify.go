package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tcfw/vcverify/internal/utils/logging"
)

var (
	verifyCmd = &cobra.Command{
		Use:   "verify <did>",
		Short: "Print the verified credentials held in a DID's Identity Hub",
		Args:  cobra.ExactArgs(1),
		RunE:  runVerify,
	}
)

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	reg, err := newResolver(cfg.Resolver())
	if err != nil {
		return errors.Wrap(err, "constructing resolver")
	}

	client, err := newHubClient(cfg.Hub())
	if err != nil {
		return errors.Wrap(err, "constructing hub client")
	}

	v, err := newVerifier(cfg.Verifier(), client, reg)
	if err != nil {
		return errors.Wrap(err, "constructing verifier")
	}

	res, err := v.VerifySubject(ctx, reg, args[0])
	if res != nil {
		for _, f := range res.Failures {
			logging.Entry().WithFields(logrus.Fields{
				"index":  f.Index,
				"format": f.Format,
				"id":     f.CredentialID,
			}).WithError(f.Err).Warn("credential not verified")
		}
	}
	if err != nil {
		return err
	}

	s, err := json.MarshalIndent(res.Credentials, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding credentials")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", s)

	return nil
}
