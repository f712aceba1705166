package service

import (
	"fmt"
	"net/url"
	"strings"

	"tienda-joyas/models"
	"tienda-joyas/utils"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	orderGreeting = "¡Hola! Me gustaría hacer el siguiente pedido:\n\n"
	orderClosing  = "¿Podemos coordinar la compra? 😊"
	defaultQRSize = 256
)

// Checkout is the hand-off of a cart to the shop's WhatsApp chat
type Checkout struct {
	Summary string `json:"summary"`
	URL     string `json:"url"`
	// OrderID is set when the order log is enabled
	OrderID string `json:"orderId,omitempty"`
}

// CheckoutService builds WhatsApp order messages
type CheckoutService struct {
	phone string
}

// NewCheckoutService creates a CheckoutService for the shop phone number
func NewCheckoutService(phone string) *CheckoutService {
	return &CheckoutService{phone: phone}
}

// Build returns the order summary and chat link for a cart
func (s *CheckoutService) Build(cart models.CartView) (Checkout, error) {
	summary, err := OrderSummary(cart)
	if err != nil {
		return Checkout{}, err
	}
	return Checkout{Summary: summary, URL: WhatsAppURL(s.phone, summary)}, nil
}

// QR renders the chat link of a cart as a PNG QR code
func (s *CheckoutService) QR(cart models.CartView, size int) ([]byte, error) {
	checkout, err := s.Build(cart)
	if err != nil {
		return nil, err
	}
	return QRCode(checkout.URL, size)
}

// OrderSummary writes the plain text order: one line per item and the grand total
func OrderSummary(cart models.CartView) (string, error) {
	if len(cart.Items) == 0 {
		return "", ErrEmptyCart
	}

	var b strings.Builder
	b.WriteString(orderGreeting)
	for _, item := range cart.Items {
		fmt.Fprintf(&b, "• %s (%s) — %d x %s = %s\n",
			item.Name, item.Material, item.Qty,
			utils.FormatPrice(item.Price), utils.FormatPrice(item.Subtotal()))
	}
	fmt.Fprintf(&b, "\n*Total: %s*\n\n", utils.FormatPrice(cart.Total))
	b.WriteString(orderClosing)
	return b.String(), nil
}

// WhatsAppURL builds a wa.me deep link with the message as prefilled text
func WhatsAppURL(phone, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, text)
}

// QRCode encodes content as a PNG QR code of size pixels
func QRCode(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultQRSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
