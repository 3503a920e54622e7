package openfinance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sandbox fixtures mirror the gateway's published sandbox payloads so the
// rest of the stack behaves identically with or without upstream access.

func sandboxAccounts() []Account {
	now := time.Now().UTC().Format(time.RFC3339)
	return []Account{
		{
			AccountID:        "acc_001_jordan_bank",
			AccountName:      "Jordan Bank - Current Account",
			AccountNumber:    "1234567890",
			BankName:         "Jordan Bank",
			BankCode:         "JB001",
			AccountType:      "current",
			Currency:         "JOD",
			Balance:          2500.75,
			AvailableBalance: 2400.75,
			Status:           "active",
			LastUpdated:      now,
		},
		{
			AccountID:        "acc_002_arab_bank",
			AccountName:      "Arab Bank - Savings Account",
			AccountNumber:    "9876543210",
			BankName:         "Arab Bank",
			BankCode:         "AB002",
			AccountType:      "savings",
			Currency:         "JOD",
			Balance:          15000.00,
			AvailableBalance: 15000.00,
			Status:           "active",
			LastUpdated:      now,
		},
		{
			AccountID:        "acc_003_housing_bank",
			AccountName:      "Housing Bank - Business Account",
			AccountNumber:    "5555666677",
			BankName:         "Housing Bank",
			BankCode:         "HB003",
			AccountType:      "business",
			Currency:         "JOD",
			Balance:          8750.50,
			AvailableBalance: 8500.50,
			Status:           "active",
			LastUpdated:      now,
		},
	}
}

func sandboxBalance(accountID string) Balance {
	balances := map[string]Balance{
		"acc_001_jordan_bank":  {Balance: 2500.75, AvailableBalance: 2400.75},
		"acc_002_arab_bank":    {Balance: 15000.00, AvailableBalance: 15000.00},
		"acc_003_housing_bank": {Balance: 8750.50, AvailableBalance: 8500.50},
	}
	return balances[accountID]
}

func sandboxAccountTransactions(accountID string, limit int) []AccountTransaction {
	seed := []struct {
		amount      float64
		description string
		merchant    string
	}{
		{-250.00, "ATM Withdrawal", "Jordan Bank ATM"},
		{1500.00, "Salary Credit", "ABC Company"},
		{-75.50, "Grocery Shopping", "Carrefour"},
		{-120.00, "Fuel Purchase", "Total Station"},
		{500.00, "Bank Transfer", "Family Transfer"},
		{-45.25, "Restaurant", "Fakhr El-Din"},
		{-200.00, "Online Shopping", "Amazon"},
		{-35.00, "Mobile Recharge", "Zain"},
		{2000.00, "Investment Return", "Jordan Investment"},
		{-150.00, "Utility Payment", "EDCO"},
	}

	baseDate := time.Now().UTC().AddDate(0, 0, -30)
	out := make([]AccountTransaction, 0, len(seed))
	for i, tx := range seed {
		txType := "credit"
		if tx.amount < 0 {
			txType = "debit"
		}
		date := baseDate.AddDate(0, 0, i*3).Format(time.RFC3339)
		out = append(out, AccountTransaction{
			TransactionID:   fmt.Sprintf("tx_%s_%d", accountID, i+1),
			AccountID:       accountID,
			Amount:          tx.amount,
			Currency:        "JOD",
			Description:     tx.description,
			Merchant:        tx.merchant,
			TransactionDate: date,
			ValueDate:       date,
			TransactionType: txType,
			Category:        "general",
			Status:          "completed",
		})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sandboxPayment(req PaymentRequest) Payment {
	now := time.Now().UTC()
	currency := req.Currency
	if currency == "" {
		currency = "JOD"
	}
	return Payment{
		PaymentID:           "pmt_" + uuid.NewString()[:8],
		Status:              "pending",
		Amount:              req.Amount,
		Currency:            currency,
		Recipient:           req.Recipient,
		Reference:           req.Reference,
		CreatedAt:           now.Format(time.RFC3339),
		EstimatedCompletion: now.Add(5 * time.Minute).Format(time.RFC3339),
	}
}

func sandboxRates(baseCurrency string) RateSheet {
	return RateSheet{
		BaseCurrency: baseCurrency,
		Rates: map[string]float64{
			"USD": 1.41,
			"EUR": 1.29,
			"GBP": 1.13,
			"SAR": 5.28,
			"AED": 5.18,
			"KWD": 0.43,
			"QAR": 5.13,
		},
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
}

func sandboxConversion(fromCurrency, toCurrency string, amount float64) Conversion {
	rates := map[[2]string]float64{
		{"JOD", "USD"}:        1.41,
		{"USD", "JOD"}:        0.71,
		{"JOD", "EUR"}:        1.29,
		{"EUR", "JOD"}:        0.77,
		{"JOD", "STABLECOIN"}: 1.0,
		{"STABLECOIN", "JOD"}: 1.0,
	}
	rate, ok := rates[[2]string{fromCurrency, toCurrency}]
	if !ok {
		rate = 1.0
	}
	return Conversion{
		FromCurrency:    fromCurrency,
		ToCurrency:      toCurrency,
		OriginalAmount:  amount,
		ConvertedAmount: amount * rate,
		ExchangeRate:    rate,
		ConversionDate:  time.Now().UTC().Format(time.RFC3339),
	}
}

func sandboxProducts() []Product {
	return []Product{
		{
			ProductID:    "loan_001",
			ProductName:  "Personal Loan",
			BankName:     "Jordan Bank",
			ProductType:  "loan",
			InterestRate: 8.5,
			MaxAmount:    50000,
			MinAmount:    1000,
			TermMonths:   60,
			Description:  "Personal loan with competitive rates",
			Eligibility:  "Minimum income 500 JOD",
			Status:       "available",
		},
		{
			ProductID:    "cc_001",
			ProductName:  "Platinum Credit Card",
			BankName:     "Arab Bank",
			ProductType:  "credit_card",
			InterestRate: 18.0,
			CreditLimit:  10000,
			AnnualFee:    50,
			Description:  "Premium credit card with rewards",
			Eligibility:  "Minimum income 800 JOD",
			Status:       "available",
		},
		{
			ProductID:    "deposit_001",
			ProductName:  "High Yield Savings",
			BankName:     "Housing Bank",
			ProductType:  "deposit",
			InterestRate: 4.5,
			MinAmount:    1000,
			TermMonths:   12,
			Description:  "Fixed deposit with guaranteed returns",
			Eligibility:  "Minimum deposit 1000 JOD",
			Status:       "available",
		},
	}
}

func sandboxApplication(productID, userID string) Application {
	now := time.Now().UTC()
	return Application{
		ApplicationID:         "app_" + uuid.NewString()[:8],
		ProductID:             productID,
		UserID:                userID,
		Status:                "pending",
		SubmittedAt:           now.Format(time.RFC3339),
		EstimatedDecisionDate: now.AddDate(0, 0, 3).Format(time.RFC3339),
	}
}

func sandboxConsent(userID string, permissions []string) Consent {
	now := time.Now().UTC()
	consentID := "consent_" + uuid.NewString()[:8]
	return Consent{
		ConsentID:   consentID,
		UserID:      userID,
		Permissions: permissions,
		Status:      "granted",
		ConsentURL:  "https://sandbox.jopacc.com/consent/" + consentID,
		ExpiresAt:   now.AddDate(0, 0, 90).Format(time.RFC3339),
		CreatedAt:   now.Format(time.RFC3339),
	}
}
