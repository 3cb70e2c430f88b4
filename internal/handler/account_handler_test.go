package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/dafibh/tally/tally-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestCreateAccount_Success(t *testing.T) {
	e := echo.New()
	accountRepo := testutil.NewMockAccountRepository()
	accountService := service.NewAccountService(accountRepo)
	handler := NewAccountHandler(accountService)

	reqBody := `{"code": "1300", "name": "Prepaid Rent", "type": "asset", "category": "Current Assets", "balance": "1200.5"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.CreateAccount(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Type != "Asset" {
		t.Errorf("Expected type 'Asset', got %s", response.Type)
	}
	if response.Balance != "1200.50" {
		t.Errorf("Expected balance '1200.50', got %s", response.Balance)
	}
	if response.Status != "active" {
		t.Errorf("Expected status 'active', got %s", response.Status)
	}
	if _, err := uuid.Parse(response.ID); err != nil {
		t.Errorf("Expected a UUID id, got %s", response.ID)
	}
}

func TestCreateAccount_FieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"code with letter", `{"code": "12a4", "name": "Cash", "type": "Asset"}`, "code"},
		{"three digit code", `{"code": "123", "name": "Cash", "type": "Asset"}`, "code"},
		{"missing name", `{"code": "1300", "name": "  ", "type": "Asset"}`, "name"},
		{"unknown type", `{"code": "1300", "name": "Cash", "type": "Bogus"}`, "type"},
		{"unknown status", `{"code": "1300", "name": "Cash", "type": "Asset", "status": "archived"}`, "status"},
		{"negative balance", `{"code": "1300", "name": "Cash", "type": "Asset", "balance": "-5"}`, "balance"},
		{"three decimals", `{"code": "1300", "name": "Cash", "type": "Asset", "balance": "1.234"}`, "balance"},
		{"not a number", `{"code": "1300", "name": "Cash", "type": "Asset", "balance": "abc"}`, "balance"},
		{"balance beyond int64 cents", `{"code": "1300", "name": "Cash", "type": "Asset", "balance": "184467440737095516.16"}`, "balance"},
		{"balance over maximum", `{"code": "1300", "name": "Cash", "type": "Asset", "balance": "1000000000000.01"}`, "balance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			rec := api.do(http.MethodPost, "/api/v1/accounts", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
			problem := decodeProblem(t, rec)
			if len(problem.Errors) != 1 || problem.Errors[0].Field != tt.field {
				t.Errorf("Expected a single %s error, got %+v", tt.field, problem.Errors)
			}
			if len(api.publisher.Events) != 0 {
				t.Errorf("Expected no events, got %v", api.publisher.Types())
			}
		})
	}
}

func TestCreateAccount_DuplicateCode(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/accounts", `{"code": "1000", "name": "Second Cash", "type": "Asset"}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", rec.Code)
	}
	if problem := decodeProblem(t, rec); problem.Type != ErrorTypeConflict {
		t.Errorf("Expected conflict problem type, got %s", problem.Type)
	}
}

func TestCreateAccount_PublishesEvent(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/accounts", `{"code": "4200", "name": "Interest Income", "type": "Revenue"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}
	types := api.publisher.Types()
	if len(types) != 1 || types[0] != "account.created" {
		t.Errorf("Expected [account.created], got %v", types)
	}
}

func TestGetAccounts_Filters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		codes []string
	}{
		{"all sorted by code", "", []string{"1000", "1100", "1200", "2000", "3000", "4000", "4100", "5000", "5100", "5200"}},
		{"search by name", "?search=CASH", []string{"1000"}},
		{"search by code", "?search=51", []string{"5100"}},
		{"by type", "?type=revenue", []string{"4000", "4100"}},
		{"by status", "?status=inactive", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			rec := api.do(http.MethodGet, "/api/v1/accounts"+tt.query, "")

			if rec.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", rec.Code)
			}
			var accounts []AccountResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &accounts); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			codes := make([]string, len(accounts))
			for i, a := range accounts {
				codes[i] = a.Code
			}
			if strings.Join(codes, ",") != strings.Join(tt.codes, ",") {
				t.Errorf("Expected codes %v, got %v", tt.codes, codes)
			}
		})
	}
}

func TestGetAccounts_InvalidType(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/accounts?type=Bogus", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetAccount(t *testing.T) {
	api := newTestAPI(t)
	cash := api.account(t, "1000")

	rec := api.do(http.MethodGet, "/api/v1/accounts/"+cash.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var response AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Balance != "50000.00" {
		t.Errorf("Expected balance '50000.00', got %s", response.Balance)
	}

	rec = api.do(http.MethodGet, "/api/v1/accounts/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for a malformed id, got %d", rec.Code)
	}

	rec = api.do(http.MethodGet, "/api/v1/accounts/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for an unknown id, got %d", rec.Code)
	}
}

func TestUpdateAccount(t *testing.T) {
	api := newTestAPI(t)
	cash := api.account(t, "1000")

	body := `{"code": "1000", "name": "Petty Cash", "type": "Asset", "category": "Current Assets", "balance": "50000", "status": "inactive"}`
	rec := api.do(http.MethodPut, "/api/v1/accounts/"+cash.ID.String(), body)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := api.account(t, "1000")
	if updated.Name != "Petty Cash" || updated.Status != domain.AccountStatusInactive {
		t.Errorf("Expected renamed inactive account, got %+v", updated)
	}
	if !updated.CreatedAt.Equal(cash.CreatedAt) {
		t.Errorf("Expected createdAt to be preserved")
	}
	types := api.publisher.Types()
	if len(types) != 1 || types[0] != "account.updated" {
		t.Errorf("Expected [account.updated], got %v", types)
	}
}

func TestUpdateAccount_CodeTaken(t *testing.T) {
	api := newTestAPI(t)
	cash := api.account(t, "1000")

	rec := api.do(http.MethodPut, "/api/v1/accounts/"+cash.ID.String(), `{"code": "1100", "name": "Cash", "type": "Asset"}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", rec.Code)
	}
}

func TestUpdateAccount_NotFound(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPut, "/api/v1/accounts/"+uuid.NewString(), `{"code": "1900", "name": "Ghost", "type": "Asset"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rec.Code)
	}
}

func TestDeleteAccount(t *testing.T) {
	api := newTestAPI(t)
	rent := api.account(t, "5200")

	rec := api.do(http.MethodDelete, "/api/v1/accounts/"+rent.ID.String(), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rec.Code)
	}
	if _, err := api.store.Accounts().GetByID(rent.ID); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Expected account to be gone, got %v", err)
	}

	rec = api.do(http.MethodDelete, "/api/v1/accounts/"+rent.ID.String(), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", rec.Code)
	}
}

func TestDeleteAccount_InUse(t *testing.T) {
	api := newTestAPI(t)
	cash := api.account(t, "1000")
	sales := api.account(t, "4000")

	body := `{"description": "Cash sale", "lines": [
		{"accountId": "` + cash.ID.String() + `", "debit": "250"},
		{"accountId": "` + sales.ID.String() + `", "credit": "250"}
	]}`
	if rec := api.do(http.MethodPost, "/api/v1/journal-entries", body); rec.Code != http.StatusCreated {
		t.Fatalf("Expected entry to post, got %d: %s", rec.Code, rec.Body.String())
	}

	rec := api.do(http.MethodDelete, "/api/v1/accounts/"+sales.ID.String(), "")

	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", rec.Code)
	}
}
