package figshare

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

// adminServer emulates the institutional endpoints used by aggregation.
func adminServer(t *testing.T, accounts []Account, failArticlesFor int64) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/institution/accounts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(accounts)
	})
	mux.HandleFunc("/institution/groups", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Group{{ID: 7, Name: "Research Data"}})
	})
	mux.HandleFunc("/institution/roles/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GroupRoles{
			"7": {{ID: 11, Name: "Member"}, {ID: 49, Name: "Reviewer"}},
		})
	})
	mux.HandleFunc("/articles", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("impersonate") == "2" && failArticlesFor == 2 {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]Article{{ID: 1}, {ID: 2}})
	})
	mux.HandleFunc("/projects", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Project{{ID: 1}})
	})
	mux.HandleFunc("/collections", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Collection{})
	})
	return mux
}

func TestAccountDetailsIsolatesSubQueryFailure(t *testing.T) {
	accounts := []Account{
		{ID: 1, Email: "a@example.edu"},
		{ID: 2, Email: "b@example.edu"},
		{ID: 3, Email: "c@example.edu"},
	}
	client, _ := newTestClient(t, adminServer(t, accounts, 2))

	details, err := client.AccountDetails(context.Background(), AccountFilter{})
	if err != nil {
		t.Fatalf("account details: %v", err)
	}
	if len(details) != 3 {
		t.Fatalf("expected 3 records, got %d", len(details))
	}
	for i, want := range []int64{1, 2, 3} {
		if details[i].ID != want {
			t.Fatalf("order not preserved: %v", details)
		}
	}
	if details[1].Articles != 0 {
		t.Fatalf("failing account should have zero articles, got %d", details[1].Articles)
	}
	if details[0].Articles != 2 || details[2].Articles != 2 {
		t.Fatalf("healthy accounts should have counts: %+v", details)
	}
	if details[1].Projects != 1 {
		t.Fatalf("other sub-queries must still run for failing account: %+v", details[1])
	}
}

func TestAccountDetailsRoleFailureZeroesRecord(t *testing.T) {
	accounts := []Account{
		{ID: 1, Email: "a@example.edu"},
		{ID: 2, Email: "b@example.edu"},
		{ID: 3, Email: "c@example.edu"},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/institution/accounts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(accounts)
	})
	mux.HandleFunc("/institution/groups", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Group{{ID: 7, Name: "Research Data"}})
	})
	mux.HandleFunc("/institution/roles/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/institution/roles/2" {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(GroupRoles{
			"7": {{ID: 11, Name: "Member"}, {ID: 49, Name: "Reviewer"}},
		})
	})
	var counted []string
	countAll := func(w http.ResponseWriter, r *http.Request) {
		counted = append(counted, r.URL.Query().Get("impersonate"))
		json.NewEncoder(w).Encode([]Article{{ID: 1}, {ID: 2}})
	}
	mux.HandleFunc("/articles", countAll)
	mux.HandleFunc("/projects", countAll)
	mux.HandleFunc("/collections", countAll)

	client, _ := newTestClient(t, mux)
	details, err := client.AccountDetails(context.Background(), AccountFilter{})
	if err != nil {
		t.Fatalf("account details: %v", err)
	}
	if len(details) != 3 {
		t.Fatalf("expected 3 records, got %d", len(details))
	}
	failed := details[1]
	if failed.Articles != 0 || failed.Projects != 0 || failed.Collections != 0 {
		t.Fatalf("role failure must leave counts at zero, got %+v", failed)
	}
	if failed.Group != "" || failed.Admin || failed.Reviewer {
		t.Fatalf("role failure must leave flags at zero, got %+v", failed)
	}
	if details[0].Articles != 2 || details[2].Articles != 2 {
		t.Fatalf("healthy accounts must keep their counts: %+v", details)
	}
	for _, id := range counted {
		if id == "2" {
			t.Fatalf("counts were queried for the account whose roles failed: %v", counted)
		}
	}
}

func TestAccountDetailsResolvesGroupAndFlags(t *testing.T) {
	client, _ := newTestClient(t, adminServer(t, []Account{{ID: 1, Email: "a@example.edu"}}, 0))

	details, err := client.AccountDetails(context.Background(), AccountFilter{})
	if err != nil {
		t.Fatalf("account details: %v", err)
	}
	record := details[0]
	if record.Group != "Research Data" {
		t.Fatalf("group id not replaced by name: %q", record.Group)
	}
	if !record.Reviewer || record.Admin {
		t.Fatalf("unexpected flags: %+v", record)
	}
}

func TestAccountDetailsEmptyInstitution(t *testing.T) {
	client, _ := newTestClient(t, adminServer(t, []Account{}, 0))

	details, err := client.AccountDetails(context.Background(), AccountFilter{})
	if err != nil {
		t.Fatalf("zero accounts must not error: %v", err)
	}
	if len(details) != 0 {
		t.Fatalf("expected empty record set, got %d", len(details))
	}
}

func TestAccountFilterExcludesBeforePerAccountCalls(t *testing.T) {
	var impersonated []string
	mux := http.NewServeMux()
	mux.HandleFunc("/institution/accounts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Account{
			{ID: 1, Email: "data-management@example.edu"},
			{ID: 2, Email: "jdoe-test@example.edu"},
			{ID: 3, Email: "real@example.edu"},
		})
	})
	mux.HandleFunc("/institution/groups", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/institution/roles/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	catchAll := func(w http.ResponseWriter, r *http.Request) {
		impersonated = append(impersonated, r.URL.Query().Get("impersonate"))
		w.Write([]byte(`[]`))
	}
	mux.HandleFunc("/articles", catchAll)
	mux.HandleFunc("/projects", catchAll)
	mux.HandleFunc("/collections", catchAll)

	client, _ := newTestClient(t, mux)
	filter := AccountFilter{
		ExcludeEmails:     []string{"data-management@example.edu"},
		ExcludeSubstrings: []string{"-test@"},
	}
	details, err := client.AccountDetails(context.Background(), filter)
	if err != nil {
		t.Fatalf("account details: %v", err)
	}
	if len(details) != 1 || details[0].ID != 3 {
		t.Fatalf("expected only the real account, got %+v", details)
	}
	for _, id := range impersonated {
		if id != "3" {
			t.Fatalf("excluded account was queried: %v", impersonated)
		}
	}
}

func TestResolveRoles(t *testing.T) {
	roles := GroupRoles{
		"12": {{ID: 2, Name: "Administrator"}},
		"34": {{ID: 11, Name: "Member"}},
	}
	groupID, flags := ResolveRoles(roles)
	if groupID != "34" {
		t.Fatalf("expected group 34, got %q", groupID)
	}
	if !flags.Admin || flags.Reviewer {
		t.Fatalf("unexpected flags: %+v", flags)
	}
}

func TestAccountFilterMatching(t *testing.T) {
	filter := AccountFilter{
		ExcludeEmails:     []string{"Admin@Example.edu"},
		ExcludeSubstrings: []string{"-test@"},
	}
	cases := map[string]bool{
		"admin@example.edu":    true,
		"jdoe-test@school.edu": true,
		"jdoe@school.edu":      false,
	}
	for email, want := range cases {
		if got := filter.Excludes(email); got != want {
			t.Fatalf("Excludes(%q) = %v, want %v", email, got, want)
		}
	}
	if (AccountFilter{}).Excludes("anyone@example.edu") {
		t.Fatal("empty filter must not exclude")
	}
}
