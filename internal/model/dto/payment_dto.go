package dto

// CreateOrderResponse 下单响应，前端用它拉起 Razorpay Checkout
type CreateOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
	Credits  int    `json:"credits"`
}

// VerifyPaymentRequest 支付回调校验
type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// VerifyPaymentResponse 校验成功后的余额
type VerifyPaymentResponse struct {
	Credits      int `json:"credits"`
	CreditsAdded int `json:"creditsAdded"`
}
