package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tillbook-dev/tillbook/internal/run"
	"github.com/tillbook-dev/tillbook/internal/settings"
)

func newAccountsCommand() *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect and edit account mappings",
	}
	accountsCmd.AddCommand(newAccountsListCommand())
	accountsCmd.AddCommand(newAccountsSetCommand())
	return accountsCmd
}

func newAccountsListCommand() *cobra.Command {
	var workDir, user string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the resolved mapping tables for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(workDir)
			if err != nil {
				return err
			}
			sett, err := settings.Load(workDir, user)
			if err != nil {
				return err
			}
			resolver := run.NewRunner(cfg, sett.Overrides()).Resolver()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Family overrides (others fall back to 707000000):")
			for _, fam := range sortedKeys(sett.FamilyToAccount) {
				fmt.Fprintf(out, "  %s -> %s\n", fam, sett.FamilyToAccount[fam])
			}
			fmt.Fprintln(out, "VAT buckets:")
			for _, key := range resolver.VATKeys() {
				acct, _ := resolver.VATAccount(key)
				fmt.Fprintf(out, "  %s -> %s\n", key, acct)
			}
			fmt.Fprintln(out, "Payment tokens (match order):")
			for _, tok := range resolver.PaymentTokens() {
				fmt.Fprintf(out, "  %s -> %s\n", tok, resolver.PaymentAccount(tok))
			}
			fmt.Fprintf(out, "Adjustment account: %s\n", resolver.AdjustmentAccount())
			return nil
		},
	}

	cmd.Flags().StringVar(&workDir, "dir", ".", "tillbook work directory")
	cmd.Flags().StringVar(&user, "user", "default", "settings profile")
	return cmd
}

func newAccountsSetCommand() *cobra.Command {
	var (
		workDir, user string
		families      []string
		vats          []string
		payments      []string
		adjustment    string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save mapping overrides for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sett, err := settings.Load(workDir, user)
			if err != nil {
				return err
			}

			if err := applyPairs(&sett.FamilyToAccount, families); err != nil {
				return err
			}
			if err := applyPairs(&sett.VATRateToAccount, vats); err != nil {
				return err
			}
			if err := applyPairs(&sett.PaymentMethodToAccount, payments); err != nil {
				return err
			}
			if adjustment != "" {
				sett.AdjustmentAccount = adjustment
			}

			if err := settings.Save(workDir, user, sett); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved settings for %s\n", user)
			return nil
		},
	}

	cmd.Flags().StringVar(&workDir, "dir", ".", "tillbook work directory")
	cmd.Flags().StringVar(&user, "user", "default", "settings profile")
	cmd.Flags().StringArrayVar(&families, "family", nil, "family mapping, e.g. 'Bar 20%=707100000' (repeatable)")
	cmd.Flags().StringArrayVar(&vats, "vat", nil, "VAT bucket mapping, e.g. '0.2=445710080' (repeatable)")
	cmd.Flags().StringArrayVar(&payments, "payment", nil, "payment token mapping, e.g. 'CB=411100003' (repeatable)")
	cmd.Flags().StringVar(&adjustment, "adjustment", "", "adjustment account")
	return cmd
}

// applyPairs parses repeated "key=account" flags into a settings map.
func applyPairs(m *map[string]string, pairs []string) error {
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" || value == "" {
			return fmt.Errorf("invalid mapping %q (want key=account)", pair)
		}
		if *m == nil {
			*m = make(map[string]string)
		}
		(*m)[key] = value
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
