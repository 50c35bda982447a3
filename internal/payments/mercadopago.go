package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type MercadoPago struct {
	preferences     preference.Client
	payments        payment.Client
	notificationURL string
	successURL      string
}

func NewMercadoPago(accessToken, notificationURL, successURL string) (*MercadoPago, error) {
	if accessToken == "" {
		return nil, ErrNotConfigured
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("payments: mercadopago config: %w", err)
	}

	return &MercadoPago{
		preferences:     preference.NewClient(cfg),
		payments:        payment.NewClient(cfg),
		notificationURL: notificationURL,
		successURL:      successURL,
	}, nil
}

func (m *MercadoPago) CreatePreference(ctx context.Context, in PreferenceInput) (*Preference, error) {
	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:      in.Title,
				Quantity:   1,
				UnitPrice:  centsToAmount(in.AmountCents),
				CurrencyID: in.Currency,
			},
		},
		ExternalReference: in.ExternalReference,
		NotificationURL:   m.notificationURL,
	}
	if m.successURL != "" {
		req.BackURLs = &preference.BackURLsRequest{
			Success: m.successURL,
			Pending: m.successURL,
			Failure: m.successURL,
		}
		req.AutoReturn = "approved"
	}

	res, err := m.preferences.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("payments: create preference: %w", err)
	}

	return &Preference{ID: res.ID, InitPoint: res.InitPoint}, nil
}

func (m *MercadoPago) GetPayment(ctx context.Context, id string) (*PaymentInfo, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("payments: invalid payment id %q", id)
	}

	res, err := m.payments.Get(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("payments: get payment %s: %w", id, err)
	}

	return &PaymentInfo{
		ID:                strconv.Itoa(res.ID),
		Status:            res.Status,
		ExternalReference: res.ExternalReference,
		AmountCents:       amountToCents(res.TransactionAmount),
		MethodID:          res.PaymentMethodID,
	}, nil
}

var _ Gateway = (*MercadoPago)(nil)
