package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"easyorder/internal/dto"
	apperrors "easyorder/internal/errors"
	"easyorder/internal/order/usecase"
)

type mockCalculateTotalUseCase struct {
	CalculateFunc func(ctx context.Context, in usecase.CalculateTotalInput) (*dto.CalculationResult, error)
}

func (m *mockCalculateTotalUseCase) Calculate(ctx context.Context, in usecase.CalculateTotalInput) (*dto.CalculationResult, error) {
	return m.CalculateFunc(ctx, in)
}

func newCalculateRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/easyorder/ajax/calculate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCalculateController_Success(t *testing.T) {
	var got usecase.CalculateTotalInput
	uc := &mockCalculateTotalUseCase{CalculateFunc: func(ctx context.Context, in usecase.CalculateTotalInput) (*dto.CalculationResult, error) {
		got = in
		return &dto.CalculationResult{
			ProductPrice: decimal.NewFromInt(100),
			Qty:          2,
			Subtotal:     decimal.NewFromInt(200),
			ShippingCost: decimal.NewFromFloat(40.5),
			Total:        decimal.NewFromFloat(240.5),
			Formatted:    dto.FormattedCalculation{Total: "EGP 240.50"},
		}, nil
	}}
	form := url.Values{
		"product_id":      {"12"},
		"qty":             {"2"},
		"shipping_method": {"flatrate_flatrate"},
		"country_id":      {"EG"},
		"region":          {"Cairo"},
	}
	rec := httptest.NewRecorder()

	NewCalculateController(uc, zap.NewNop()).Calculate(rec, newCalculateRequest(form))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.CalculateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 240.5, resp.Calculation.Total)
	assert.Equal(t, 40.5, resp.Calculation.ShippingCost)
	assert.Equal(t, "EGP 240.50", resp.Calculation.Formatted.Total)
	assert.Equal(t, usecase.CalculateTotalInput{
		ProductID:      12,
		Qty:            2,
		ShippingMethod: "flatrate_flatrate",
		CountryID:      "EG",
		Region:         "Cairo",
	}, got)
}

func TestCalculateController_Errors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
	}{
		{name: "localized", err: apperrors.NewLocalizedError("Required parameters are missing."), wantMessage: "Required parameters are missing."},
		{name: "unexpected", err: errors.New("connection refused"), wantMessage: "Unable to calculate total."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockCalculateTotalUseCase{CalculateFunc: func(ctx context.Context, in usecase.CalculateTotalInput) (*dto.CalculationResult, error) {
				return nil, tt.err
			}}
			rec := httptest.NewRecorder()

			NewCalculateController(uc, zap.NewNop()).Calculate(rec, newCalculateRequest(url.Values{}))

			resp := decodeFailure(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}
