package openfinance

// Types in this package mirror the upstream Open Finance JSON shapes. Amounts
// stay float64 because the records are caches of remote data, not balances we
// account for locally.

// Account is a bank account exposed through AIS.
type Account struct {
	AccountID        string  `json:"account_id"`
	AccountName      string  `json:"account_name"`
	AccountNumber    string  `json:"account_number"`
	BankName         string  `json:"bank_name"`
	BankCode         string  `json:"bank_code"`
	AccountType      string  `json:"account_type"`
	Currency         string  `json:"currency"`
	Balance          float64 `json:"balance"`
	AvailableBalance float64 `json:"available_balance"`
	Status           string  `json:"status"`
	LastUpdated      string  `json:"last_updated"`
}

// Balance is a point-in-time account balance.
type Balance struct {
	Balance          float64 `json:"balance"`
	AvailableBalance float64 `json:"available_balance"`
}

// AccountTransaction is one upstream account statement line.
type AccountTransaction struct {
	TransactionID   string  `json:"transaction_id"`
	AccountID       string  `json:"account_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Description     string  `json:"description"`
	Merchant        string  `json:"merchant"`
	TransactionDate string  `json:"transaction_date"`
	ValueDate       string  `json:"value_date"`
	TransactionType string  `json:"transaction_type"`
	Category        string  `json:"category"`
	Status          string  `json:"status"`
}

// PaymentRequest initiates a PIS payment.
type PaymentRequest struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Recipient string  `json:"recipient"`
	Reference string  `json:"reference,omitempty"`
}

// Payment is the upstream view of an initiated payment.
type Payment struct {
	PaymentID           string  `json:"payment_id"`
	Status              string  `json:"status"`
	Amount              float64 `json:"amount,omitempty"`
	Currency            string  `json:"currency,omitempty"`
	Recipient           string  `json:"recipient,omitempty"`
	Reference           string  `json:"reference,omitempty"`
	CreatedAt           string  `json:"created_at,omitempty"`
	UpdatedAt           string  `json:"updated_at,omitempty"`
	EstimatedCompletion string  `json:"estimated_completion,omitempty"`
}

// RateSheet carries FX rates against a base currency.
type RateSheet struct {
	BaseCurrency string             `json:"base_currency"`
	Rates        map[string]float64 `json:"rates"`
	LastUpdated  string             `json:"last_updated"`
}

// Conversion is the result of an FX conversion quote.
type Conversion struct {
	FromCurrency    string  `json:"from_currency"`
	ToCurrency      string  `json:"to_currency"`
	OriginalAmount  float64 `json:"original_amount"`
	ConvertedAmount float64 `json:"converted_amount"`
	ExchangeRate    float64 `json:"exchange_rate"`
	ConversionDate  string  `json:"conversion_date"`
}

// Product is a financial product offered through FPS.
type Product struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	BankName     string  `json:"bank_name"`
	ProductType  string  `json:"product_type"`
	InterestRate float64 `json:"interest_rate"`
	MaxAmount    float64 `json:"max_amount,omitempty"`
	MinAmount    float64 `json:"min_amount,omitempty"`
	CreditLimit  float64 `json:"credit_limit,omitempty"`
	AnnualFee    float64 `json:"annual_fee,omitempty"`
	TermMonths   int     `json:"term_months,omitempty"`
	Description  string  `json:"description"`
	Eligibility  string  `json:"eligibility"`
	Status       string  `json:"status"`
}

// Application is a product application acknowledgement.
type Application struct {
	ApplicationID         string `json:"application_id"`
	ProductID             string `json:"product_id"`
	UserID                string `json:"user_id"`
	Status                string `json:"status"`
	SubmittedAt           string `json:"submitted_at"`
	EstimatedDecisionDate string `json:"estimated_decision_date,omitempty"`
}

// Consent is a data-access consent grant.
type Consent struct {
	ConsentID   string   `json:"consent_id"`
	UserID      string   `json:"user_id,omitempty"`
	Permissions []string `json:"permissions"`
	Status      string   `json:"status"`
	ConsentURL  string   `json:"consent_url,omitempty"`
	ExpiresAt   string   `json:"expires_at"`
	CreatedAt   string   `json:"created_at,omitempty"`
}
