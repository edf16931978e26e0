package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
	"clinic-backend/internal/services"
)

func newBillingRouter(invoiceHandler *InvoiceHandler, paymentHandler *PaymentHandler) *mux.Router {
	r := mux.NewRouter()
	if invoiceHandler != nil {
		r.HandleFunc("/api/billing/invoices", invoiceHandler.CreateInvoice).Methods("POST")
		r.HandleFunc("/api/billing/invoices", invoiceHandler.ListInvoices).Methods("GET")
		r.HandleFunc("/api/billing/invoices/{id}", invoiceHandler.GetInvoice).Methods("GET")
	}
	if paymentHandler != nil {
		r.HandleFunc("/api/billing/payments", paymentHandler.RecordPayment).Methods("POST")
		r.HandleFunc("/api/billing/payments", paymentHandler.ListPayments).Methods("GET")
	}
	return r
}

func tenantRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	ctx := context.WithValue(req.Context(), middleware.TenantIDKey, 1)
	return req.WithContext(ctx)
}

func TestCreateInvoiceEndpoint(t *testing.T) {
	svc := services.NewInvoiceService(newFakeInvoiceStore(), nil)
	router := newBillingRouter(NewInvoiceHandler(svc, nil), nil)

	req := tenantRequest(t, "POST", "/api/billing/invoices", models.CreateInvoiceRequest{
		InvoiceNumber: "INV-001",
		PatientName:   "Asha Verma",
		Items: []models.CreateInvoiceItemRequest{
			{Description: "Consultation", Quantity: 1, UnitPrice: money("500.00")},
		},
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var detail models.InvoiceDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "INV-001", detail.Invoice.InvoiceNumber)
	assert.True(t, detail.Invoice.Total.Equal(money("500.00")))
}

func TestCreateInvoiceDuplicateReturns409(t *testing.T) {
	svc := services.NewInvoiceService(newFakeInvoiceStore(), nil)
	router := newBillingRouter(NewInvoiceHandler(svc, nil), nil)

	body := models.CreateInvoiceRequest{
		InvoiceNumber: "INV-001",
		Items: []models.CreateInvoiceItemRequest{
			{Description: "Consultation", Quantity: 1, UnitPrice: money("500.00")},
		},
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, tenantRequest(t, "POST", "/api/billing/invoices", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, tenantRequest(t, "POST", "/api/billing/invoices", body))
	require.Equal(t, http.StatusConflict, rec.Code)

	var errBody map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Contains(t, errBody, "error")
}

func TestCreateInvoiceValidationReturns400(t *testing.T) {
	svc := services.NewInvoiceService(newFakeInvoiceStore(), nil)
	router := newBillingRouter(NewInvoiceHandler(svc, nil), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, tenantRequest(t, "POST", "/api/billing/invoices", models.CreateInvoiceRequest{
		InvoiceNumber: "INV-001",
	}))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errBody map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.NotEmpty(t, errBody["error"])
}

func TestGetInvoiceEndpoint(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := services.NewInvoiceService(store, nil)
	router := newBillingRouter(NewInvoiceHandler(svc, nil), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, tenantRequest(t, "POST", "/api/billing/invoices", models.CreateInvoiceRequest{
		InvoiceNumber: "INV-001",
		Items: []models.CreateInvoiceItemRequest{
			{Description: "Consultation", Quantity: 1, UnitPrice: money("500.00")},
		},
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, tenantRequest(t, "GET", "/api/billing/invoices/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var detail models.InvoiceDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, 1, detail.Invoice.ID)
}

func TestGetInvoiceNotFoundReturns404(t *testing.T) {
	svc := services.NewInvoiceService(newFakeInvoiceStore(), nil)
	router := newBillingRouter(NewInvoiceHandler(svc, nil), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, tenantRequest(t, "GET", "/api/billing/invoices/42", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var errBody map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.NotEmpty(t, errBody["error"])
}

func TestGetInvoiceInvalidIDReturns400(t *testing.T) {
	svc := services.NewInvoiceService(newFakeInvoiceStore(), nil)
	router := newBillingRouter(NewInvoiceHandler(svc, nil), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, tenantRequest(t, "GET", "/api/billing/invoices/abc", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListInvoicesEmptyReturnsArray(t *testing.T) {
	svc := services.NewInvoiceService(newFakeInvoiceStore(), nil)
	router := newBillingRouter(NewInvoiceHandler(svc, nil), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, tenantRequest(t, "GET", "/api/billing/invoices", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list models.InvoiceList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.NotNil(t, list.Invoices)
	assert.Empty(t, list.Invoices)
}

func TestMissingTenantReturns400(t *testing.T) {
	svc := services.NewInvoiceService(newFakeInvoiceStore(), nil)
	router := newBillingRouter(NewInvoiceHandler(svc, nil), nil)

	req := httptest.NewRequest("GET", "/api/billing/invoices", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
