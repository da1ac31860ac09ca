package quote

import "strings"

// The remote site names the same plan differently per page: D-<tier> on the
// quote page, M-<tier> on the purchase page. The tier suffix is shared, so the
// mapping is a pure prefix substitution.
const (
	quotePlanPrefix    = "D-"
	purchasePlanPrefix = "M-"
)

// MapToPurchaseID maps a quote-page plan identifier to its purchase-page form.
// Identifiers without the quote prefix pass through unchanged.
func MapToPurchaseID(planID string) string {
	if tier, ok := strings.CutPrefix(planID, quotePlanPrefix); ok {
		return purchasePlanPrefix + tier
	}
	return planID
}

// MapToQuoteID is the inverse of MapToPurchaseID
func MapToQuoteID(planID string) string {
	if tier, ok := strings.CutPrefix(planID, purchasePlanPrefix); ok {
		return quotePlanPrefix + tier
	}
	return planID
}
