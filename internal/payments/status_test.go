package payments

import (
	"testing"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMapProviderStatus(t *testing.T) {
	cases := map[string]models.PaymentStatus{
		"paid":                    models.PaymentPaid,
		"succeeded":               models.PaymentPaid,
		"posted":                  models.PaymentPaid,
		"settled":                 models.PaymentPaid,
		"funds_available":         models.PaymentPaid,
		"draft":                   models.PaymentPending,
		"open":                    models.PaymentPending,
		"pending":                 models.PaymentPending,
		"processing":              models.PaymentPending,
		"requires_payment_method": models.PaymentPending,
		"expired":                 models.PaymentCanceled,
		"failed":                  models.PaymentCanceled,
		"canceled":                models.PaymentCanceled,
		"cancelled":               models.PaymentCanceled,
		"returned":                models.PaymentCanceled,
		"payment_failed":          models.PaymentCanceled,
		"uncollectible":           models.PaymentCanceled,
		"void":                    models.PaymentCanceled,
		"something_new":           models.PaymentUnpaid,
		"":                        models.PaymentUnpaid,
	}

	for external, want := range cases {
		assert.Equal(t, want, MapProviderStatus(external), "status %q", external)
	}
}

func TestMapProviderStatusIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, models.PaymentPaid, MapProviderStatus("SUCCEEDED"))
	assert.Equal(t, models.PaymentCanceled, MapProviderStatus("Failed"))
}
