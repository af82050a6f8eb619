package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/testutil"
)

func TestHealth(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/health", "", "")

	mustStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["status"] != "ok" {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestAccountFlow_CreateAndListPerUser(t *testing.T) {
	app := setupApp(t)
	alice := app.token(t, "alice")
	bob := app.token(t, "bob")

	rec := app.request("POST", "/api/v1/accounts/",
		`{"name":"Carteira","type":"checking","currency":"BRL","initial_balance":100.0}`, alice)
	mustStatus(t, rec, http.StatusCreated)
	created := parseJSON(t, rec)
	if created["id"] == nil || created["name"] != "Carteira" {
		t.Fatalf("unexpected body: %v", created)
	}
	if created["initial_balance"] != "100.00" {
		t.Errorf("expected initial_balance 100.00, got %v", created["initial_balance"])
	}

	rec = app.request("GET", "/api/v1/accounts/", "", alice)
	mustStatus(t, rec, http.StatusOK)
	list := parseJSONArray(t, rec)
	if len(list) != 1 || list[0]["id"] != created["id"] {
		t.Fatalf("expected the created account, got %v", list)
	}

	rec = app.request("GET", "/api/v1/accounts/", "", bob)
	mustStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "[]" {
		t.Errorf("expected empty list for another user, got %s", rec.Body.String())
	}

	// No trailing slash reaches the same route.
	rec = app.request("GET", "/api/v1/accounts", "", alice)
	mustStatus(t, rec, http.StatusOK)
}

func TestOwnershipIsolation(t *testing.T) {
	app := setupApp(t)
	alice := app.token(t, "alice")
	bob := app.token(t, "bob")

	accountID := app.createID(t, "/api/v1/accounts/", `{"name":"A","type":"cash","currency":"USD"}`, alice)
	path := "/api/v1/accounts/" + accountID

	for _, tc := range []struct {
		method string
		body   string
	}{
		{"GET", ""},
		{"PUT", `{"name":"Stolen"}`},
		{"DELETE", ""},
	} {
		rec := app.request(tc.method, path, tc.body, bob)
		mustStatus(t, rec, http.StatusNotFound)
		testutil.AssertErrorCode(t, rec, "ACCOUNT_NOT_FOUND")
	}

	// Bob cannot hang a transaction off Alice's account either.
	rec := app.request("POST", "/api/v1/transactions/",
		`{"account_id":"`+accountID+`","type":"expense","amount":1,"date":"2024-03-01"}`, bob)
	mustStatus(t, rec, http.StatusNotFound)

	rec = app.request("GET", path, "", alice)
	mustStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["name"] != "A" {
		t.Errorf("account was modified by another user: %s", rec.Body.String())
	}
}

func TestPartialUpdatePreservesUntouchedFields(t *testing.T) {
	app := setupApp(t)
	token := app.token(t, "alice")

	id := app.createID(t, "/api/v1/accounts/", `{"name":"A","type":"savings","currency":"BRL"}`, token)

	rec := app.request("PUT", "/api/v1/accounts/"+id, `{"name":"B"}`, token)
	mustStatus(t, rec, http.StatusOK)
	updated := parseJSON(t, rec)
	if updated["name"] != "B" || updated["currency"] != "BRL" || updated["type"] != "savings" {
		t.Errorf("unexpected account after update: %v", updated)
	}

	rec = app.request("PUT", "/api/v1/accounts/"+id, `{"currency":null}`, token)
	mustStatus(t, rec, http.StatusBadRequest)
	testutil.AssertErrorCode(t, rec, "INVALID_INPUT")
}

func TestPartialUpdateRejectsEmptyValues(t *testing.T) {
	app := setupApp(t)
	token := app.token(t, "alice")

	accountID := app.createID(t, "/api/v1/accounts/", `{"name":"A","type":"savings","currency":"BRL"}`, token)
	categoryID := app.createID(t, "/api/v1/categories/", `{"name":"Food","type":"expense"}`, token)
	txID := app.createID(t, "/api/v1/transactions/",
		`{"account_id":"`+accountID+`","type":"expense","amount":10,"date":"2024-03-15"}`, token)

	tests := []struct {
		path  string
		body  string
		field string
		rule  string
	}{
		{"/api/v1/accounts/" + accountID, `{"name":""}`, "name", "min"},
		{"/api/v1/accounts/" + accountID, `{"type":""}`, "type", "account_type"},
		{"/api/v1/accounts/" + accountID, `{"currency":""}`, "currency", "iso4217"},
		{"/api/v1/categories/" + categoryID, `{"type":""}`, "type", "category_type"},
		{"/api/v1/categories/" + categoryID, `{"name":""}`, "name", "min"},
		{"/api/v1/transactions/" + txID, `{"type":""}`, "type", "transaction_type"},
		{"/api/v1/transactions/" + txID, `{"account_id":""}`, "account_id", "uuid"},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			rec := app.request("PUT", tt.path, tt.body, token)
			mustStatus(t, rec, http.StatusBadRequest)
			testutil.AssertErrorCode(t, rec, "INVALID_INPUT")
			testutil.AssertErrorField(t, rec, tt.field, tt.rule)
		})
	}

	rec := app.request("GET", "/api/v1/accounts/"+accountID, "", token)
	mustStatus(t, rec, http.StatusOK)
	account := parseJSON(t, rec)
	if account["name"] != "A" || account["type"] != "savings" || account["currency"] != "BRL" {
		t.Errorf("rejected updates must not be stored: %v", account)
	}

	rec = app.request("GET", "/api/v1/transactions/"+txID, "", token)
	mustStatus(t, rec, http.StatusOK)
	if tx := parseJSON(t, rec); tx["type"] != "expense" {
		t.Errorf("rejected updates must not be stored: %v", tx)
	}
}

func TestTransactionFlow_TagsRoundTrip(t *testing.T) {
	app := setupApp(t)
	token := app.token(t, "alice")

	accountID := app.createID(t, "/api/v1/accounts/", `{"name":"A","type":"cash","currency":"USD"}`, token)

	txID := app.createID(t, "/api/v1/transactions/",
		`{"account_id":"`+accountID+`","type":"expense","amount":12.5,"date":"2024-03-15","tags":["food","lunch"]}`, token)

	rec := app.request("GET", "/api/v1/transactions/"+txID, "", token)
	mustStatus(t, rec, http.StatusOK)
	tx := parseJSON(t, rec)
	tags, _ := tx["tags"].([]interface{})
	if len(tags) != 2 || tags[0] != "food" || tags[1] != "lunch" {
		t.Errorf("expected [food lunch], got %v", tx["tags"])
	}
	if tx["amount"] != "12.50" || tx["date"] != "2024-03-15" {
		t.Errorf("unexpected transaction: %v", tx)
	}

	for _, body := range []string{
		`{"account_id":"` + accountID + `","type":"income","amount":1,"date":"2024-03-15","tags":null}`,
		`{"account_id":"` + accountID + `","type":"income","amount":1,"date":"2024-03-15"}`,
		`{"account_id":"` + accountID + `","type":"income","amount":1,"date":"2024-03-15","tags":[]}`,
	} {
		id := app.createID(t, "/api/v1/transactions/", body, token)
		rec := app.request("GET", "/api/v1/transactions/"+id, "", token)
		mustStatus(t, rec, http.StatusOK)
		if got, present := parseJSON(t, rec)["tags"]; !present || got != nil {
			t.Errorf("body %s: expected tags null, got %v", body, got)
		}
	}

	rec = app.request("PUT", "/api/v1/transactions/"+txID, `{"tags":null}`, token)
	mustStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["tags"] != nil {
		t.Errorf("expected tags cleared, got %s", rec.Body.String())
	}
}

func TestCascadeAndNullify(t *testing.T) {
	app := setupApp(t)
	token := app.token(t, "alice")

	accountID := app.createID(t, "/api/v1/accounts/", `{"name":"A","type":"cash","currency":"USD"}`, token)
	categoryID := app.createID(t, "/api/v1/categories/", `{"name":"Food","type":"expense"}`, token)
	childID := app.createID(t, "/api/v1/categories/", `{"name":"Lunch","type":"expense","parent_id":"`+categoryID+`"}`, token)
	txID := app.createID(t, "/api/v1/transactions/",
		`{"account_id":"`+accountID+`","category_id":"`+categoryID+`","type":"expense","amount":5,"date":"2024-03-15"}`, token)
	budgetID := app.createID(t, "/api/v1/budgets/",
		`{"month":"2024-03-01","category_id":"`+categoryID+`","limit_amount":200}`, token)

	rec := app.request("DELETE", "/api/v1/categories/"+categoryID, "", token)
	mustStatus(t, rec, http.StatusNoContent)

	rec = app.request("GET", "/api/v1/transactions/"+txID, "", token)
	mustStatus(t, rec, http.StatusOK)
	if tx := parseJSON(t, rec); tx["category_id"] != nil {
		t.Errorf("expected category_id null, got %v", tx["category_id"])
	}

	rec = app.request("GET", "/api/v1/categories/"+childID, "", token)
	mustStatus(t, rec, http.StatusOK)
	if child := parseJSON(t, rec); child["parent_id"] != nil {
		t.Errorf("expected parent_id null, got %v", child["parent_id"])
	}

	rec = app.request("GET", "/api/v1/budgets/"+budgetID, "", token)
	mustStatus(t, rec, http.StatusNotFound)

	rec = app.request("DELETE", "/api/v1/accounts/"+accountID, "", token)
	mustStatus(t, rec, http.StatusNoContent)

	rec = app.request("GET", "/api/v1/transactions/"+txID, "", token)
	mustStatus(t, rec, http.StatusNotFound)

	rec = app.request("DELETE", "/api/v1/accounts/"+accountID, "", token)
	mustStatus(t, rec, http.StatusNotFound)
}

func TestBudgetFlow_MonthFilter(t *testing.T) {
	app := setupApp(t)
	token := app.token(t, "alice")

	categoryID := app.createID(t, "/api/v1/categories/", `{"name":"Food","type":"expense"}`, token)
	march := app.createID(t, "/api/v1/budgets/",
		`{"month":"2024-03-17","category_id":"`+categoryID+`","limit_amount":100}`, token)
	app.createID(t, "/api/v1/budgets/",
		`{"month":"2024-04-01","category_id":"`+categoryID+`","limit_amount":150}`, token)

	rec := app.request("GET", "/api/v1/budgets/?month=2024-03-01", "", token)
	mustStatus(t, rec, http.StatusOK)
	list := parseJSONArray(t, rec)
	if len(list) != 1 || list[0]["id"] != march {
		t.Fatalf("expected only the March budget, got %v", list)
	}
	if list[0]["month"] != "2024-03-01" {
		t.Errorf("expected month normalised to 2024-03-01, got %v", list[0]["month"])
	}

	rec = app.request("GET", "/api/v1/budgets/", "", token)
	mustStatus(t, rec, http.StatusOK)
	if len(parseJSONArray(t, rec)) != 2 {
		t.Errorf("expected both budgets without a filter")
	}
}

func TestTransactionFlow_Filters(t *testing.T) {
	app := setupApp(t)
	token := app.token(t, "alice")

	checking := app.createID(t, "/api/v1/accounts/", `{"name":"C","type":"checking","currency":"USD"}`, token)
	savings := app.createID(t, "/api/v1/accounts/", `{"name":"S","type":"savings","currency":"USD"}`, token)
	food := app.createID(t, "/api/v1/categories/", `{"name":"Food","type":"expense"}`, token)

	post := func(account, date, category string) {
		body := `{"account_id":"` + account + `","type":"expense","amount":3,"date":"` + date + `"`
		if category != "" {
			body += `,"category_id":"` + category + `"`
		}
		app.createID(t, "/api/v1/transactions/", body+"}", token)
	}
	post(checking, "2024-01-10", food)
	post(checking, "2024-02-10", "")
	post(savings, "2024-02-20", food)

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?start_date=2024-02-01", 2},
		{"?end_date=2024-02-10", 2},
		{"?start_date=2024-02-10&end_date=2024-02-10", 1},
		{"?account_id=" + checking, 2},
		{"?category_id=" + food, 2},
		{"?account_id=" + savings + "&category_id=" + food, 1},
		{"?page=2&page_size=2", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := app.request("GET", "/api/v1/transactions/"+tt.query, "", token)
			mustStatus(t, rec, http.StatusOK)
			if got := len(parseJSONArray(t, rec)); got != tt.want {
				t.Errorf("expected %d transactions, got %d", tt.want, got)
			}
		})
	}
}

func TestCategoryCycleRejected(t *testing.T) {
	app := setupApp(t)
	token := app.token(t, "alice")

	root := app.createID(t, "/api/v1/categories/", `{"name":"Root","type":"expense"}`, token)
	child := app.createID(t, "/api/v1/categories/", `{"name":"Child","type":"expense","parent_id":"`+root+`"}`, token)

	rec := app.request("PUT", "/api/v1/categories/"+root, `{"parent_id":"`+child+`"}`, token)
	mustStatus(t, rec, http.StatusBadRequest)
	testutil.AssertErrorCode(t, rec, "CATEGORY_CYCLE")
}

func TestAuthentication(t *testing.T) {
	app := setupApp(t)

	expired := app.Issuer.Sign(t, app.Issuer.Claims("alice", "a@example.com", -time.Minute))
	wrongAud := app.Issuer.Claims("alice", "a@example.com", time.Hour)
	wrongAud["aud"] = "someone-else"

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong audience", "Bearer " + app.Issuer.Sign(t, wrongAud)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/accounts/", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			app.Handler.ServeHTTP(rec, req)

			mustStatus(t, rec, http.StatusUnauthorized)
			testutil.AssertErrorCode(t, rec, "UNAUTHORIZED")
		})
	}

	t.Run("me returns the token identity", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/users/me", "", app.token(t, "alice"))
		mustStatus(t, rec, http.StatusOK)
		me := parseJSON(t, rec)
		if me["id"] != "alice" || me["email"] != "alice@example.com" {
			t.Errorf("unexpected identity: %v", me)
		}
	})
}

func TestCORSPreflight(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/accounts/", http.NoBody)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("expected allowed origin, got %q", got)
	}
	if rec.Code == http.StatusUnauthorized {
		t.Errorf("preflight must not require a token")
	}
}
