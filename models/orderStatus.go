package models

// DeriveOrderStatus maps the sales channel and payment method to the
// initial order and payment statuses. Pure function, consulted inside the
// placement transaction.
//
// The two rules are evaluated independently:
//   - POS orders start CONFIRMED, everything else starts PENDING.
//   - payment is CAPTURED when it was settled at order time: any POS
//     order, cash, or a counter card method (POS_ prefix).
//
// An ONLINE order paid by CASH therefore yields a PENDING order with a
// CAPTURED payment. That asymmetry is long-standing observed behavior;
// keep both rules independent and do not extend them without product
// sign-off.
func DeriveOrderStatus(channel OrderChannel, method PaymentMethod) (OrderStatus, PaymentStatus) {
	orderStatus := OrderStatusPending
	if channel == OrderChannelPos {
		orderStatus = OrderStatusConfirmed
	}

	paymentStatus := PaymentStatusPending
	if channel == OrderChannelPos || method == PaymentMethodCash || method.IsPosMethod() {
		paymentStatus = PaymentStatusCaptured
	}

	return orderStatus, paymentStatus
}
