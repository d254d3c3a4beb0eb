package checkoutControllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/checkout"
	cartControllers "github.com/junaidrashid-git/autoparts-api/controllers/cart"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// PaymentProcessor is the card processor used for capture-mode checkout.
type PaymentProcessor interface {
	CreateOrder(ctx context.Context, total decimal.Decimal, currency models.Currency) (string, error)
	CaptureOrder(ctx context.Context, orderID string) (*checkout.PaymentCapture, error)
}

type QuoteInput struct {
	DiscountCode string `json:"discount_code"`
}

type CheckoutInput struct {
	Customer      models.Customer `json:"customer"`
	DiscountCode  string          `json:"discount_code"`
	MarketerCode  string          `json:"marketer_code"`
	PaymentMethod string          `json:"payment_method"`
}

func (in CheckoutInput) request(cart *checkout.Cart) (checkout.SubmitRequest, error) {
	req := checkout.SubmitRequest{
		Cart:         cart,
		Customer:     in.Customer,
		DiscountCode: in.DiscountCode,
		MarketerCode: in.MarketerCode,
	}
	if in.PaymentMethod == "" {
		return req, nil
	}
	method, err := models.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return req, &checkout.ValidationError{Field: "payment_method", Message: "is not supported"}
	}
	req.Method = method
	return req, nil
}

func quoteResponse(q checkout.Quote) gin.H {
	return gin.H{
		"subtotal":        q.Subtotal,
		"currency":        q.Currency,
		"discount":        q.Discount,
		"discount_amount": q.DiscountAmount(),
		"total":           q.Total(),
	}
}

// POST /checkout/quote
func QuoteCart(carts checkout.CartStorage, assembler *checkout.Assembler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input QuoteInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		cart, ok := cartControllers.OpenCart(c, carts)
		if !ok {
			return
		}

		q, err := assembler.Quote(c.Request.Context(), cart.Items(), input.DiscountCode)
		if errors.Is(err, checkout.ErrInvalidDiscountCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discount code", "quote": quoteResponse(q)})
			return
		}
		if err != nil {
			writeCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, quoteResponse(q))
	}
}

// POST /checkout/orders places an order paid outside the site (M-Pesa, bank
// transfer). The order waits for an admin to confirm the payment.
func PlaceOrder(carts checkout.CartStorage, assembler *checkout.Assembler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		cart, ok := cartControllers.OpenCart(c, carts)
		if !ok {
			return
		}
		req, err := input.request(cart)
		if err != nil {
			writeCheckoutError(c, err)
			return
		}
		if req.Method.Captured() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Card payments go through /checkout/paypal"})
			return
		}

		receipt, err := assembler.Submit(c.Request.Context(), req)
		if err != nil {
			writeCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusCreated, receipt)
	}
}

// POST /checkout/paypal/orders opens a PayPal order for the current total.
func CreatePayPalOrder(carts checkout.CartStorage, assembler *checkout.Assembler, processor PaymentProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input QuoteInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		cart, ok := cartControllers.OpenCart(c, carts)
		if !ok {
			return
		}
		if cart.Len() == 0 {
			writeCheckoutError(c, checkout.ErrEmptyCart)
			return
		}

		q, err := assembler.Quote(c.Request.Context(), cart.Items(), input.DiscountCode)
		if errors.Is(err, checkout.ErrInvalidDiscountCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discount code"})
			return
		}
		if err != nil {
			writeCheckoutError(c, err)
			return
		}

		id, err := processor.CreateOrder(c.Request.Context(), q.Total(), q.Currency)
		if err != nil {
			log.WithError(err).Error("PayPal order creation failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment processor unavailable"})
			return
		}
		resp := quoteResponse(q)
		resp["paypal_order_id"] = id
		c.JSON(http.StatusOK, resp)
	}
}

// POST /checkout/paypal/orders/:id/capture captures the card payment and,
// only when it completed, writes the order as Paid.
func CapturePayPalOrder(carts checkout.CartStorage, assembler *checkout.Assembler, processor PaymentProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		cart, ok := cartControllers.OpenCart(c, carts)
		if !ok {
			return
		}
		req, err := input.request(cart)
		if err != nil {
			writeCheckoutError(c, err)
			return
		}
		req.Method = models.PaymentPayPal
		if err := assembler.Validate(req); err != nil {
			writeCheckoutError(c, err)
			return
		}

		paypalOrderID := c.Param("id")
		capture, err := processor.CaptureOrder(c.Request.Context(), paypalOrderID)
		if err != nil {
			log.WithError(err).WithField("paypal_order", paypalOrderID).Error("PayPal capture failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment processor unavailable"})
			return
		}
		req.Payment = capture

		receipt, err := assembler.Submit(c.Request.Context(), req)
		if err != nil {
			if capture.Status == checkout.CaptureCompleted {
				log.WithError(err).WithFields(log.Fields{
					"paypal_order": paypalOrderID,
					"capture_id":   capture.CaptureID,
					"amount":       capture.Amount.String(),
				}).Error("Payment captured but order was not written")
			}
			writeCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusCreated, receipt)
	}
}

func writeCheckoutError(c *gin.Context, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
	case errors.Is(err, checkout.ErrPaymentNotCaptured), errors.Is(err, checkout.ErrPaymentMismatch):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("Checkout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order, please try again"})
	}
}
