// Package accounts resolves classification keys from the till export
// (family names, VAT rate buckets, payment labels) to ledger account
// numbers, merging user overrides over built-in defaults.
package accounts

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Overrides carries the per-user mapping overrides loaded from the
// settings store. Empty maps and fields mean "no override".
type Overrides struct {
	Families   map[string]string
	VAT        map[string]string // keyed by canonical rate bucket, e.g. "0.2"
	Payments   map[string]string // keyed by payment token, e.g. "CB"
	Adjustment string
}

// Resolver is the merged lookup table for one run. It is built once before
// journal generation and never mutated afterwards.
type Resolver struct {
	families     map[string]string
	vat          map[string]string
	payments     map[string]string
	paymentOrder []string
	adjustment   string
}

// NewResolver merges overrides over the built-in defaults. tokenOrder sets
// the payment-token match precedence; nil means the canonical default.
func NewResolver(ov Overrides, tokenOrder []string) *Resolver {
	r := &Resolver{
		families:   make(map[string]string, len(ov.Families)),
		vat:        DefaultVATAccounts(),
		payments:   DefaultPaymentAccounts(),
		adjustment: DefaultAdjustmentAccount,
	}

	for k, v := range ov.Families {
		if v != "" {
			r.families[k] = v
		}
	}
	for k, v := range ov.VAT {
		if v != "" {
			r.vat[k] = v
		}
	}
	for k, v := range ov.Payments {
		if v != "" {
			r.payments[normalizeLabel(k)] = v
		}
	}
	if ov.Adjustment != "" {
		r.adjustment = ov.Adjustment
	}

	if tokenOrder == nil {
		tokenOrder = DefaultPaymentTokenOrder()
	}
	r.paymentOrder = make([]string, 0, len(tokenOrder))
	seen := make(map[string]bool, len(tokenOrder))
	for _, tok := range tokenOrder {
		tok = normalizeLabel(tok)
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		r.paymentOrder = append(r.paymentOrder, tok)
	}
	// Overridden tokens outside the configured order still match, after it.
	var extra []string
	for tok := range r.payments {
		if !seen[tok] {
			extra = append(extra, tok)
		}
	}
	sort.Strings(extra)
	r.paymentOrder = append(r.paymentOrder, extra...)

	return r
}

// FamilyAccount resolves a product family name. Exact, case-sensitive
// match only; unknown families fall back to the generic revenue account.
func (r *Resolver) FamilyAccount(family string) string {
	if acct, ok := r.families[family]; ok {
		return acct
	}
	return FamilyFallback
}

// VATAccount resolves a canonical rate bucket key. ok is false for rates
// with no configured account; such rows must be skipped, never defaulted.
func (r *Resolver) VATAccount(rateKey string) (string, bool) {
	acct, ok := r.vat[rateKey]
	return acct, ok
}

// PaymentAccount classifies a drawer payment label by ordered substring
// containment over the configured tokens. Labels vary in wording across
// export versions, so containment, not equality, is the contract.
func (r *Resolver) PaymentAccount(label string) string {
	normalized := normalizeLabel(label)
	for _, tok := range r.paymentOrder {
		if strings.Contains(normalized, tok) {
			return r.payments[tok]
		}
	}
	return PaymentFallback
}

// AdjustmentAccount returns the single configured point-comptable account.
func (r *Resolver) AdjustmentAccount() string {
	return r.adjustment
}

// VATKeys returns the configured rate bucket keys, sorted.
func (r *Resolver) VATKeys() []string {
	keys := make([]string, 0, len(r.vat))
	for k := range r.vat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PaymentTokens returns the effective token match order.
func (r *Resolver) PaymentTokens() []string {
	return append([]string(nil), r.paymentOrder...)
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeLabel uppercases and strips diacritics so "Chèque " matches the
// CHEQUE token.
func normalizeLabel(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		stripped = s
	}
	return strings.ToUpper(strings.TrimSpace(stripped))
}
