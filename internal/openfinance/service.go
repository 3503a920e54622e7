package openfinance

import (
	"context"
	"errors"
	"time"
)

// Default permissions requested when a user links their bank accounts.
var defaultPermissions = []string{"accounts", "balances", "transactions"}

// Service coordinates the gateway client with the local cache.
type Service struct {
	client *Client
	repo   Repository
}

// NewService wires the open finance service.
func NewService(client *Client, repo Repository) *Service {
	return &Service{client: client, repo: repo}
}

// Client exposes the underlying gateway client for pass-through calls.
func (s *Service) Client() *Client { return s.client }

// ConnectResult is the outcome of linking a user's bank accounts.
type ConnectResult struct {
	Consent  Consent
	Accounts []LinkedAccount
}

// ConnectAccounts requests a consent grant, pulls the user's accounts and
// caches them locally.
func (s *Service) ConnectAccounts(ctx context.Context, userID string) (ConnectResult, error) {
	consent, err := s.client.RequestConsent(ctx, userID, defaultPermissions)
	if err != nil {
		return ConnectResult{}, err
	}

	expiresAt, _ := time.Parse(time.RFC3339, consent.ExpiresAt)
	if err := s.repo.SaveConsent(ctx, ConsentRecord{
		ConsentID: consent.ConsentID,
		UserID:    userID,
		Status:    consent.Status,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return ConnectResult{}, err
	}

	accounts, err := s.client.ListAccounts(ctx, consent.ConsentID)
	if err != nil {
		return ConnectResult{}, err
	}

	linked, err := s.cacheAccounts(ctx, userID, consent.ConsentID, accounts)
	if err != nil {
		return ConnectResult{}, err
	}
	return ConnectResult{Consent: consent, Accounts: linked}, nil
}

// Accounts returns the user's linked accounts, refreshing the cache from the
// gateway when a consent is on file.
func (s *Service) Accounts(ctx context.Context, userID string) ([]LinkedAccount, error) {
	consent, err := s.repo.LatestConsent(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return s.repo.ListAccounts(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	accounts, err := s.client.ListAccounts(ctx, consent.ConsentID)
	if err != nil {
		// Serve the cache when the gateway is unavailable.
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return s.repo.ListAccounts(ctx, userID)
		}
		return nil, err
	}
	return s.cacheAccounts(ctx, userID, consent.ConsentID, accounts)
}

// Dashboard aggregates linked accounts with an FX snapshot.
type Dashboard struct {
	Accounts     []LinkedAccount
	TotalBalance float64
	Currency     string
	Rates        RateSheet
}

// DashboardFor builds the open banking dashboard for a user.
func (s *Service) DashboardFor(ctx context.Context, userID string) (Dashboard, error) {
	accounts, err := s.Accounts(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	var total float64
	for _, a := range accounts {
		total += a.Balance
	}

	rates, err := s.client.Rates(ctx, "JOD")
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Accounts:     accounts,
		TotalBalance: total,
		Currency:     "JOD",
		Rates:        rates,
	}, nil
}

// AccountTransactions returns the statement for one linked account.
func (s *Service) AccountTransactions(ctx context.Context, userID, accountID string, limit int) ([]AccountTransaction, error) {
	consentID := ""
	if consent, err := s.repo.LatestConsent(ctx, userID); err == nil {
		consentID = consent.ConsentID
	}
	return s.client.AccountTransactions(ctx, accountID, consentID, limit)
}

func (s *Service) cacheAccounts(ctx context.Context, userID, consentID string, accounts []Account) ([]LinkedAccount, error) {
	now := time.Now().UTC()
	linked := make([]LinkedAccount, 0, len(accounts))
	for _, a := range accounts {
		la := LinkedAccount{
			UserID:           userID,
			AccountID:        a.AccountID,
			AccountName:      a.AccountName,
			BankName:         a.BankName,
			BankCode:         a.BankCode,
			AccountType:      a.AccountType,
			Currency:         a.Currency,
			Balance:          a.Balance,
			AvailableBalance: a.AvailableBalance,
			ConsentID:        consentID,
			LinkedAt:         now,
			UpdatedAt:        now,
		}
		if err := s.repo.UpsertAccount(ctx, la); err != nil {
			return nil, err
		}
		linked = append(linked, la)
	}
	return linked, nil
}
