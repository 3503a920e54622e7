package wallet

import "time"

// Supported wallet currencies. Balances are held in fils (1 JD = 1000 fils);
// the stablecoin is pegged 1:1 and uses the same minor unit.
const (
	CurrencyJD         = "JD"
	CurrencyStablecoin = "STABLECOIN"
)

// Wallet holds a user's two balances. Each user has exactly one wallet.
type Wallet struct {
	ID                    string
	UserID                string
	JDBalanceFils         int64
	StablecoinBalanceFils int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// BalanceFor returns the balance of the requested currency.
func (w Wallet) BalanceFor(currency string) int64 {
	if currency == CurrencyStablecoin {
		return w.StablecoinBalanceFils
	}
	return w.JDBalanceFils
}

// ValidCurrency reports whether the tag names a wallet currency.
func ValidCurrency(currency string) bool {
	return currency == CurrencyJD || currency == CurrencyStablecoin
}
