package payments

import (
	"strings"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"
)

// MapProviderStatus folds every provider's status vocabulary into the
// canonical PaymentStatus. Unknown statuses map to UNPAID.
func MapProviderStatus(external string) models.PaymentStatus {
	switch strings.ToLower(external) {
	case "paid", "succeeded", "posted", "settled", "funds_available":
		return models.PaymentPaid
	case "draft", "open", "pending", "processing", "requires_payment_method":
		return models.PaymentPending
	case "expired", "failed", "canceled", "cancelled", "returned",
		"payment_failed", "uncollectible", "void":
		return models.PaymentCanceled
	default:
		return models.PaymentUnpaid
	}
}
