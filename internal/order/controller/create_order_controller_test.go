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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"easyorder/internal/commons"
	"easyorder/internal/domain"
	"easyorder/internal/dto"
	apperrors "easyorder/internal/errors"
)

// Mock implementations
type mockCreateQuickOrderUseCase struct {
	CreateOrderFunc func(ctx context.Context, data domain.QuickOrderData) (*dto.QuickOrderResult, error)
	received        *domain.QuickOrderData
}

func (m *mockCreateQuickOrderUseCase) CreateOrder(ctx context.Context, data domain.QuickOrderData) (*dto.QuickOrderResult, error) {
	m.received = &data
	return m.CreateOrderFunc(ctx, data)
}

type mockMethodValidator struct {
	ValidFunc func(ctx context.Context, method string, productID int, countryID, region, postcode string) bool
}

func (m *mockMethodValidator) Valid(ctx context.Context, method string, productID int, countryID, region, postcode string) bool {
	return m.ValidFunc(ctx, method, productID, countryID, region, postcode)
}

type mockPaymentMethodLister struct {
	AvailableMethodsFunc func(ctx context.Context) []domain.PaymentMethod
}

func (m *mockPaymentMethodLister) AvailableMethods(ctx context.Context) []domain.PaymentMethod {
	return m.AvailableMethodsFunc(ctx)
}

const testFormKey = "k3y"

func validForm() url.Values {
	form := url.Values{}
	form.Set("product_id", "12")
	form.Set("qty", "2")
	form.Set("customer_name", "Mona Hassan")
	form.Set("customer_phone", "01012345678")
	form.Set("customer_email", "mona@example.com")
	form.Add("street[]", "12 Tahrir St")
	form.Add("street[]", "")
	form.Add("street[]", "Floor 3")
	form.Set("city", "Cairo")
	form.Set("country_id", "EG")
	form.Set("region", "Giza")
	form.Set("postcode", "12511")
	form.Set("shipping_method", "flatrate_flatrate")
	form.Set("payment_method", "cashondelivery")
	form.Set("super_attribute[93]", "52")
	form.Set(commons.FormKeyName, testFormKey)
	return form
}

func newCreateRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/easyorder/order/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: commons.FormKeyName, Value: testFormKey})
	return req
}

type createControllerFixture struct {
	useCase  *mockCreateQuickOrderUseCase
	shipping *mockMethodValidator
	payments *mockPaymentMethodLister
}

func newCreateControllerFixture() *createControllerFixture {
	return &createControllerFixture{
		useCase: &mockCreateQuickOrderUseCase{CreateOrderFunc: func(ctx context.Context, data domain.QuickOrderData) (*dto.QuickOrderResult, error) {
			return &dto.QuickOrderResult{
				OrderID:     501,
				IncrementID: "000000501",
				Message:     "Your order has been placed successfully.",
				RedirectURL: "https://shop.example.com/checkout/onepage/success?order_id=501",
			}, nil
		}},
		shipping: &mockMethodValidator{ValidFunc: func(ctx context.Context, method string, productID int, countryID, region, postcode string) bool {
			return true
		}},
		payments: &mockPaymentMethodLister{AvailableMethodsFunc: func(ctx context.Context) []domain.PaymentMethod {
			return []domain.PaymentMethod{{Code: "cashondelivery", Title: "Cash On Delivery"}, {Code: "checkmo", Title: "Check / Money order"}}
		}},
	}
}

func (f *createControllerFixture) serve(req *http.Request) *httptest.ResponseRecorder {
	ctrl := NewCreateOrderController(f.useCase, f.shipping, f.payments, zap.NewNop())
	rec := httptest.NewRecorder()
	ctrl.CreateOrder(rec, req)
	return rec
}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) dto.FailureResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.FailureResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// Unit Tests

func TestCreateOrder_Success(t *testing.T) {
	f := newCreateControllerFixture()

	rec := f.serve(newCreateRequest(validForm()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp dto.QuickOrderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, uint(501), resp.OrderID)
	assert.Equal(t, "000000501", resp.IncrementID)
	assert.Equal(t, "https://shop.example.com/checkout/onepage/success?order_id=501", resp.RedirectURL)

	data := f.useCase.received
	require.NotNil(t, data)
	assert.Equal(t, 12, data.ProductID)
	assert.Equal(t, 2, data.Qty)
	assert.Equal(t, "12 Tahrir St, Floor 3", data.Address)
	assert.Equal(t, "Giza", data.Region)
	assert.Equal(t, map[int]int{93: 52}, data.SuperAttributes)
}

func TestCreateOrder_RegionIDUsedWhenNoRegionText(t *testing.T) {
	f := newCreateControllerFixture()
	form := validForm()
	form.Del("region")
	form.Set("region_id", "1105")

	rec := f.serve(newCreateRequest(form))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1105", f.useCase.received.Region)
}

func TestCreateOrder_DefaultQuantity(t *testing.T) {
	f := newCreateControllerFixture()
	form := validForm()
	form.Del("qty")

	f.serve(newCreateRequest(form))

	assert.Equal(t, 1, f.useCase.received.Qty)
}

func TestCreateOrder_InvalidFormKey(t *testing.T) {
	f := newCreateControllerFixture()
	form := validForm()
	form.Set(commons.FormKeyName, "forged")

	resp := decodeFailure(t, f.serve(newCreateRequest(form)))

	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid form key.", resp.Message)
	assert.Nil(t, f.useCase.received)
}

func TestCreateOrder_Validation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(form url.Values)
		wantMessage string
	}{
		{name: "missing product", mutate: func(f url.Values) { f.Del("product_id") }, wantMessage: "Product ID is required."},
		{name: "missing name and phone reports name first", mutate: func(f url.Values) {
			f.Del("customer_name")
			f.Del("customer_phone")
		}, wantMessage: "Customer Name is required."},
		{name: "missing phone", mutate: func(f url.Values) { f.Set("customer_phone", "  ") }, wantMessage: "Customer Phone is required."},
		{name: "missing city", mutate: func(f url.Values) { f.Del("city") }, wantMessage: "City is required."},
		{name: "missing country", mutate: func(f url.Values) { f.Del("country_id") }, wantMessage: "Country is required."},
		{name: "missing shipping", mutate: func(f url.Values) { f.Del("shipping_method") }, wantMessage: "Shipping Method is required."},
		{name: "missing payment", mutate: func(f url.Values) { f.Del("payment_method") }, wantMessage: "Payment Method is required."},
		{name: "missing street", mutate: func(f url.Values) { f.Del("street[]") }, wantMessage: "Street address is required."},
		{name: "blank first street line", mutate: func(f url.Values) { f["street[]"] = []string{" ", "Floor 3"} }, wantMessage: "Street address is required."},
		{name: "non numeric product", mutate: func(f url.Values) { f.Set("product_id", "abc") }, wantMessage: "Invalid product ID."},
		{name: "negative product", mutate: func(f url.Values) { f.Set("product_id", "-4") }, wantMessage: "Invalid product ID."},
		{name: "zero quantity", mutate: func(f url.Values) { f.Set("qty", "0") }, wantMessage: "Invalid quantity."},
		{name: "text quantity", mutate: func(f url.Values) { f.Set("qty", "two") }, wantMessage: "Invalid quantity."},
		{name: "short phone", mutate: func(f url.Values) { f.Set("customer_phone", "0101234") }, wantMessage: "Phone number must be at least 8 digits."},
		{name: "email without at", mutate: func(f url.Values) { f.Set("customer_email", "mona.example.com") }, wantMessage: "Invalid email address."},
		{name: "missing region", mutate: func(f url.Values) { f.Del("region") }, wantMessage: "Region is required."},
		{name: "unavailable payment", mutate: func(f url.Values) { f.Set("payment_method", "stripe") }, wantMessage: "Selected payment method is not available."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCreateControllerFixture()
			form := validForm()
			tt.mutate(form)

			resp := decodeFailure(t, f.serve(newCreateRequest(form)))

			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Nil(t, f.useCase.received)
		})
	}
}

func TestCreateOrder_ShippingMethodRejected(t *testing.T) {
	f := newCreateControllerFixture()
	f.shipping.ValidFunc = func(ctx context.Context, method string, productID int, countryID, region, postcode string) bool {
		assert.Equal(t, 12, productID)
		assert.Equal(t, "EG", countryID)
		return false
	}

	resp := decodeFailure(t, f.serve(newCreateRequest(validForm())))

	assert.Equal(t, "Selected shipping method is not available. Please refresh and select again.", resp.Message)
}

func TestCreateOrder_ErrorShippingTokenSkipsValidation(t *testing.T) {
	f := newCreateControllerFixture()
	f.shipping.ValidFunc = func(ctx context.Context, method string, productID int, countryID, region, postcode string) bool {
		t.Fatal("validator called for the error token")
		return false
	}
	form := validForm()
	form.Set("shipping_method", "error")

	rec := f.serve(newCreateRequest(form))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "error", f.useCase.received.ShippingMethod)
}

func TestCreateOrder_EmptyPaymentListAllowsAnyMethod(t *testing.T) {
	f := newCreateControllerFixture()
	f.payments.AvailableMethodsFunc = func(ctx context.Context) []domain.PaymentMethod { return nil }
	form := validForm()
	form.Set("payment_method", "purchaseorder")

	f.serve(newCreateRequest(form))

	require.NotNil(t, f.useCase.received)
	assert.Equal(t, "purchaseorder", f.useCase.received.PaymentMethod)
}

func TestCreateOrder_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
	}{
		{
			name:        "localized",
			err:         apperrors.NewLocalizedError("Unable to create order: Quote has no items. Please add products to continue."),
			wantMessage: "Unable to create order: Quote has no items. Please add products to continue.",
		},
		{
			name:        "unexpected",
			err:         errors.New("sql: database is closed"),
			wantMessage: "An unexpected error occurred. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCreateControllerFixture()
			f.useCase.CreateOrderFunc = func(ctx context.Context, data domain.QuickOrderData) (*dto.QuickOrderResult, error) {
				return nil, tt.err
			}

			resp := decodeFailure(t, f.serve(newCreateRequest(validForm())))

			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestCreateOrder_JSONBody(t *testing.T) {
	f := newCreateControllerFixture()
	body := `{"product_id": 12, "customer_name": "Mona Hassan", "customer_phone": "01012345678",
		"street": ["12 Tahrir St"], "city": "Cairo", "country_id": "EG", "region": "Cairo",
		"shipping_method": "flatrate_flatrate", "payment_method": "checkmo", "form_key": "k3y"}`
	req := httptest.NewRequest(http.MethodPost, "/easyorder/order/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: commons.FormKeyName, Value: testFormKey})

	rec := f.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.useCase.received)
	assert.Equal(t, "checkmo", f.useCase.received.PaymentMethod)
	assert.Equal(t, "12 Tahrir St", f.useCase.received.Address)
}

func TestFormKey(t *testing.T) {
	ctrl := NewCreateOrderController(nil, nil, nil, zap.NewNop())
	rec := httptest.NewRecorder()

	ctrl.FormKey(rec, httptest.NewRequest(http.MethodGet, "/easyorder/form_key", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.FormKeyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.FormKey)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, resp.FormKey, cookies[0].Value)
}
