package models_test

import (
	"testing"

	"github.com/humbertomar/vipo-backend/models"
)

func TestDeriveOrderStatus(t *testing.T) {
	cases := []struct {
		name        string
		channel     models.OrderChannel
		method      models.PaymentMethod
		wantOrder   models.OrderStatus
		wantPayment models.PaymentStatus
	}{
		{"pos cash", models.OrderChannelPos, models.PaymentMethodCash, models.OrderStatusConfirmed, models.PaymentStatusCaptured},
		{"pos debit", models.OrderChannelPos, models.PaymentMethodPosDebit, models.OrderStatusConfirmed, models.PaymentStatusCaptured},
		{"pos credit", models.OrderChannelPos, models.PaymentMethodPosCredit, models.OrderStatusConfirmed, models.PaymentStatusCaptured},
		{"pos pix", models.OrderChannelPos, models.PaymentMethodPix, models.OrderStatusConfirmed, models.PaymentStatusCaptured},
		{"online pix", models.OrderChannelOnline, models.PaymentMethodPix, models.OrderStatusPending, models.PaymentStatusPending},
		{"online credit card", models.OrderChannelOnline, models.PaymentMethodCreditCard, models.OrderStatusPending, models.PaymentStatusPending},
		{"online pos-prefixed method", models.OrderChannelOnline, models.PaymentMethodPosDebit, models.OrderStatusPending, models.PaymentStatusCaptured},
		{"online unknown method", models.OrderChannelOnline, models.PaymentMethod("BANK_TRANSFER"), models.OrderStatusPending, models.PaymentStatusPending},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotOrder, gotPayment := models.DeriveOrderStatus(tc.channel, tc.method)
			if gotOrder != tc.wantOrder {
				t.Fatalf("order status: got %s, want %s", gotOrder, tc.wantOrder)
			}
			if gotPayment != tc.wantPayment {
				t.Fatalf("payment status: got %s, want %s", gotPayment, tc.wantPayment)
			}
		})
	}
}

// An ONLINE order paid in cash stays PENDING while the payment is already
// CAPTURED. Pinned so the two derivation rules remain independent.
func TestDeriveOrderStatus_OnlineCashAsymmetry(t *testing.T) {
	orderStatus, paymentStatus := models.DeriveOrderStatus(models.OrderChannelOnline, models.PaymentMethodCash)
	if orderStatus != models.OrderStatusPending {
		t.Fatalf("online cash order status: got %s, want PENDING", orderStatus)
	}
	if paymentStatus != models.PaymentStatusCaptured {
		t.Fatalf("online cash payment status: got %s, want CAPTURED", paymentStatus)
	}
}
