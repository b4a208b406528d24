package checkout

import (
	"regexp"
	"time"

	"github.com/pkg/errors"
)

// CardInfo is the payment card supplied at checkout. Charges are
// simulated; the card is validated but never sent anywhere.
type CardInfo struct {
	Number          string `json:"number"`
	CVV             int    `json:"cvv"`
	ExpirationMonth int    `json:"expirationMonth"`
	ExpirationYear  int    `json:"expirationYear"`
}

// ValidateCard checks number format, card type and expiry.
func ValidateCard(card CardInfo) error {
	if !isValidCardNumber(card.Number) {
		return errors.New("credit card info is invalid")
	}

	cardType := getCardType(card.Number)
	if cardType != "visa" && cardType != "mastercard" {
		return errors.Errorf("sorry, we cannot process %s credit cards. Only VISA or MasterCard is accepted", cardType)
	}

	return validateExpiration(card.ExpirationMonth, card.ExpirationYear)
}

// validateExpiration checks the expiration date against the wall clock.
func validateExpiration(month, year int) error {
	now := time.Now()
	currentMonth := int(now.Month())
	currentYear := now.Year()

	if (currentYear*12 + currentMonth) > (year*12 + month) {
		return errors.Errorf("your credit card expired on %d/%d", month, year)
	}
	return nil
}

// isValidCardNumber checks the card number format (digits only, 13-19 digits).
func isValidCardNumber(cardNumber string) bool {
	matched, _ := regexp.MatchString(`^\d{13,19}$`, cardNumber)
	return matched
}

// getCardType determines the card type from the card number.
func getCardType(cardNumber string) string {
	// VISA: starts with 4.
	if matched, _ := regexp.MatchString(`^4`, cardNumber); matched {
		return "visa"
	}

	// MasterCard: starts with 51-55, 2221-2720.
	if matched, _ := regexp.MatchString(`^5[1-5]`, cardNumber); matched {
		return "mastercard"
	}
	if matched, _ := regexp.MatchString(`^2[2-7][2-9][0-9]`, cardNumber); matched {
		return "mastercard"
	}

	return "unknown"
}

// maskCard hides all but the last four digits for logging.
func maskCard(cardNumber string) string {
	if len(cardNumber) < 4 {
		return "****"
	}
	return "****" + cardNumber[len(cardNumber)-4:]
}
