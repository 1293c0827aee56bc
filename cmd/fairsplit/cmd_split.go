package main

import (
	"fmt"
	"strconv"

	"fairsplit/internal/adapter/http/dto"
	"fairsplit/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (a *app) splitCmd() *cobra.Command {
	var (
		scale  int32
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "split AMOUNT RECIPIENTS",
		Short: "Split an amount among recipients",
		Long: `Split AMOUNT among RECIPIENTS at --scale fractional digits.

Shares are printed one per line in recipient order. The first recipients
receive the remainder units, so shares never increase down the list.
RECIPIENTS is capped at 1000000.

A negative AMOUNT must follow "--" so it is not read as a flag.`,
		Example: `  fairsplit split 100.01 4 --scale 2
  fairsplit split --scale 2 -- -12.34 3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !dto.IsDecimalAmount(args[0]) {
				return fmt.Errorf("amount %q is not a plain decimal number", args[0])
			}
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("parsing amount: %w", err)
			}
			recipients, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parsing recipients: %w", err)
			}
			if recipients > dto.MaxSplitRecipients {
				return apperror.Validation(fmt.Sprintf("recipients must be at most %d", dto.MaxSplitRecipients))
			}

			shares, err := a.splitter().Split(amount, recipients, scale)
			if err != nil {
				return err
			}

			if asJSON {
				return a.writeJSON(dto.SplitResponse{
					Amount:     amount.String(),
					Recipients: recipients,
					Scale:      scale,
					Shares:     shares.Strings(scale),
				})
			}
			for _, share := range shares.Strings(scale) {
				if _, err := fmt.Fprintln(a.out, share); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().Int32VarP(&scale, "scale", "s", 2, "Fractional digits of the smallest unit")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
