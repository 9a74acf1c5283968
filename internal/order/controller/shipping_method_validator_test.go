package controller

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"easyorder/internal/domain"
)

type mockShippingMethodLister struct {
	AvailableMethodsFunc func(ctx context.Context, productID int, countryID, region, postcode string) []domain.ShippingMethod
	calls                int
}

func (m *mockShippingMethodLister) AvailableMethods(ctx context.Context, productID int, countryID, region, postcode string) []domain.ShippingMethod {
	m.calls++
	return m.AvailableMethodsFunc(ctx, productID, countryID, region, postcode)
}

func listerWith(codes ...string) *mockShippingMethodLister {
	return &mockShippingMethodLister{AvailableMethodsFunc: func(ctx context.Context, productID int, countryID, region, postcode string) []domain.ShippingMethod {
		methods := make([]domain.ShippingMethod, 0, len(codes))
		for _, code := range codes {
			methods = append(methods, domain.ShippingMethod{
				Code:        code,
				CarrierCode: domain.CarrierPrefix(code),
				Price:       decimal.NewFromInt(30),
			})
		}
		return methods
	}}
}

func TestShippingMethodValidator(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		available []string
		want      bool
		wantCalls int
	}{
		{name: "fallback method", method: "fallback_standard", want: true},
		{name: "known carrier", method: "aramex_express", want: true},
		{name: "exact available", method: "smsa_ground", available: []string{"smsa_ground"}, want: true, wantCalls: 1},
		{name: "carrier available", method: "smsa_custom", available: []string{"smsa_ground"}, want: true, wantCalls: 1},
		{name: "well formed token", method: "courier_sameday", available: []string{"smsa_ground"}, want: true, wantCalls: 1},
		{name: "nothing available well formed", method: "courier_sameday", want: true, wantCalls: 1},
		{name: "nothing available malformed", method: "bad-token!", want: false, wantCalls: 1},
		{name: "malformed token", method: "bad-token", available: []string{"smsa_ground"}, want: false, wantCalls: 1},
		{name: "single word", method: "courier", available: []string{"smsa_ground"}, want: false, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := listerWith(tt.available...)
			v := NewShippingMethodValidator(lister, zap.NewNop())

			got := v.Valid(context.Background(), tt.method, 12, "EG", "Cairo", "")

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCalls, lister.calls)
		})
	}
}
