package accounts

// Built-in default mapping tables. User overrides from the settings store
// take precedence; these take precedence over the hard fallbacks.

// FamilyFallback receives family revenue with no configured account.
const FamilyFallback = "707000000"

// PaymentFallback is the unclassified-receivable account for drawer rows
// whose payment label matches no configured token.
const PaymentFallback = "411100000"

// DefaultAdjustmentAccount receives point-comptable adjustment debits.
const DefaultAdjustmentAccount = "65800000"

// DefaultVATAccounts maps canonical rate bucket keys to collected-VAT
// accounts. Rates outside this table (and any configured overrides) are
// skipped entirely, never defaulted.
func DefaultVATAccounts() map[string]string {
	return map[string]string{
		"0.055": "445710060",
		"0.1":   "445710090",
		"0.2":   "445710080",
	}
}

// DefaultPaymentAccounts maps payment-method tokens to drawer accounts.
func DefaultPaymentAccounts() map[string]string {
	return map[string]string{
		"ESPECES":  "530000000",
		"CB":       "411100003",
		"CHEQUE":   "411100004",
		"VIREMENT": "411100005",
	}
}

// DefaultPaymentTokenOrder is the canonical match precedence for payment
// labels. First containment match wins, so the order is part of the
// contract and configurable, not incidental map iteration.
func DefaultPaymentTokenOrder() []string {
	return []string{"ESPECES", "CB", "CHEQUE", "VIREMENT"}
}
