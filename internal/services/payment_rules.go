package services

import "field-workflow-service/internal/domain"

// paymentPhotoRules lists which payment methods need a proof-of-payment photo
// before an order can be submitted.
var paymentPhotoRules = map[domain.PaymentMethod]bool{
	domain.PaymentCash:    true,
	domain.PaymentCheck:   true,
	domain.PaymentCredit:  false,
	domain.PaymentInvoice: false,
}

// RequiresProofPhoto reports whether orders paid with pm need a captured photo.
// Unknown methods never require one; they fail validation separately.
func RequiresProofPhoto(pm domain.PaymentMethod) bool {
	return paymentPhotoRules[pm]
}
