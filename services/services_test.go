package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	rentroam "github.com/rentroam/rentroam-go"
	"github.com/rentroam/rentroam-go/api"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(srv.URL)
}

func TestVehiclesListBareArray(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Write([]byte(`[{"id":"v1","name":"City Hatch","price_per_day":30,"available":true}]`))
	})

	list, err := NewVehicles(c).List(context.Background(), rentroam.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotPath != "/api/vehicles" {
		t.Errorf("path = %q", gotPath)
	}
	if len(list) != 1 || list[0].ID != "v1" {
		t.Errorf("list = %+v", list)
	}
}

func TestVehiclesListEnveloped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"vehicles":[{"id":"v1"},{"id":"v2"}]}`))
	})

	list, err := NewVehicles(c).List(context.Background(), rentroam.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("len = %d, want 2", len(list))
	}
}

func TestVehiclesListQueryParams(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})

	_, err := NewVehicles(c).List(context.Background(), rentroam.ListOptions{Page: 2, PageSize: 10, Query: "suv"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotQuery != "page=2&pageSize=10&q=suv" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestVehiclesListCollapsesConcurrentCalls(t *testing.T) {
	var calls atomic.Int32
	arrived := make(chan struct{})
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(arrived)
		}
		<-release
		w.Write([]byte(`[{"id":"v1"}]`))
	})
	v := NewVehicles(c)

	const callers = 3
	results := make(chan int, callers)
	errs := make(chan error, callers)
	var started sync.WaitGroup
	started.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			started.Done()
			list, err := v.List(context.Background(), rentroam.ListOptions{})
			results <- len(list)
			errs <- err
		}()
	}

	// The flight stays open until release, so every caller that reaches
	// List before then joins it instead of issuing its own request.
	started.Wait()
	<-arrived
	time.Sleep(20 * time.Millisecond)
	close(release)

	for i := 0; i < callers; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("List: %v", err)
		}
		if n := <-results; n != 1 {
			t.Errorf("list len = %d, want 1", n)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("backend saw %d requests, want 1", got)
	}
}

func TestVehiclesSetAvailability(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Write([]byte(`{}`))
	})

	if err := NewVehicles(c).SetAvailability(context.Background(), "v1", false); err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/api/vehicles/v1/availability" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if !strings.Contains(gotBody, `"available":false`) {
		t.Errorf("body = %s", gotBody)
	}
}

func TestVehiclesGetRequiresID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the backend")
	})
	if _, err := NewVehicles(c).Get(context.Background(), ""); err == nil {
		t.Error("empty id accepted")
	}
}

func TestBookingsCreate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/bookings" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"bk-1","vehicle_id":"v1","customer_id":"7","status":"confirmed"}`))
	})

	b, err := NewBookings(c).Create(context.Background(), &rentroam.BookingRequest{
		VehicleID: "v1", CustomerID: "7", StartDate: "2026-09-01", EndDate: "2026-09-03",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ID != "bk-1" || b.Status != "confirmed" {
		t.Errorf("booking = %+v", b)
	}

	if _, err := NewBookings(c).Create(context.Background(), nil); err == nil {
		t.Error("nil request accepted")
	}
}

func TestBookingsForCustomer(t *testing.T) {
	var gotURI string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		w.Write([]byte(`{"bookings":[{"id":"bk-1"}]}`))
	})

	list, err := NewBookings(c).ForCustomer(context.Background(), "7", 5)
	if err != nil {
		t.Fatalf("ForCustomer: %v", err)
	}
	if gotURI != "/api/customers/7/bookings?limit=5" {
		t.Errorf("uri = %q", gotURI)
	}
	if len(list) != 1 || list[0].ID != "bk-1" {
		t.Errorf("list = %+v", list)
	}
}

func TestKYCStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/customers/7/kyc" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"kyc":{"customer_id":"7","status":"approved"}}`))
	})

	doc, err := NewKYC(c).Status(context.Background(), "7")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if doc.Status != rentroam.KYCApproved {
		t.Errorf("status = %q", doc.Status)
	}
}

func TestKYCStatusBareRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"customer_id":"7","status":"pending"}`))
	})

	doc, err := NewKYC(c).Status(context.Background(), "7")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if doc.Status != rentroam.KYCPending {
		t.Errorf("status = %q", doc.Status)
	}
}

func TestKYCSubmitMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if _, hdr, err := r.FormFile("aadhar"); err != nil || hdr.Filename != "aadhar.png" {
			t.Errorf("aadhar file: %v", err)
		}
		if _, hdr, err := r.FormFile("license"); err != nil || hdr.Filename != "license.png" {
			t.Errorf("license file: %v", err)
		}
		if v := r.FormValue("note"); v != "resubmission" {
			t.Errorf("note = %q", v)
		}
		w.Write([]byte(`{"kyc":{"customer_id":"7","status":"submitted"}}`))
	})

	doc, err := NewKYC(c).Submit(context.Background(), "7", rentroam.KYCSubmission{
		Aadhar:  &rentroam.FileUpload{Filename: "aadhar.png", Content: strings.NewReader("img-a")},
		License: &rentroam.FileUpload{Filename: "license.png", Content: strings.NewReader("img-l")},
		Fields:  map[string]string{"note": "resubmission"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if doc.Status != rentroam.KYCSubmitted {
		t.Errorf("status = %q", doc.Status)
	}
}

func TestKYCSubmitRequiresDocument(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the backend")
	})
	if _, err := NewKYC(c).Submit(context.Background(), "7", rentroam.KYCSubmission{}); err == nil {
		t.Error("empty submission accepted")
	}
}

func TestAdminStats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admins/stats" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"total_customers":10,"total_owners":3,"total_vehicles":12,"total_bookings":40,"pending_kyc":2}`))
	})

	stats, err := NewAdmin(c).Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalCustomers != 10 || stats.PendingKYC != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestAdminCustomers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admins/customers" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"customers":[{"id":7,"email":"a@b.com"}]}`))
	})

	list, err := NewAdmin(c).Customers(context.Background())
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if len(list) != 1 || list[0].ID != "7" {
		t.Errorf("list = %+v", list)
	}
}

func TestAdminReviewKYC(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Write([]byte(`{}`))
	})

	if err := NewAdmin(c).ReviewKYC(context.Background(), "7", rentroam.KYCApproved, "ok"); err != nil {
		t.Fatalf("ReviewKYC: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/api/admins/kyc/7" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if !strings.Contains(gotBody, `"status":"approved"`) || !strings.Contains(gotBody, `"note":"ok"`) {
		t.Errorf("body = %s", gotBody)
	}
}

func TestAccountsSignup(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/owners/signup" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if v := r.FormValue("email"); v != "o@b.com" {
			t.Errorf("email = %q", v)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"t9","user":{"id":"9","email":"o@b.com"}}`))
	})

	res, err := NewAccounts(c).Signup(context.Background(), rentroam.RoleOwner, rentroam.SignupSubmission{
		Fields: map[string]string{"email": "o@b.com", "password": "pw"},
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if res.Token != "t9" {
		t.Errorf("token = %q", res.Token)
	}
	if res.Identity == nil || res.Identity.Role != rentroam.RoleOwner {
		t.Errorf("identity = %+v (role should default to the signup role)", res.Identity)
	}

	if _, err := NewAccounts(c).Signup(context.Background(), rentroam.RoleGuest, rentroam.SignupSubmission{
		Fields: map[string]string{"email": "x"},
	}); err == nil {
		t.Error("guest signup accepted")
	}
}

func TestAccountsOwnerStats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/owners/9/stats" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"total_vehicles":4,"total_bookings":17,"total_earnings":2100.5}`))
	})

	stats, err := NewAccounts(c).OwnerStats(context.Background(), "9")
	if err != nil {
		t.Fatalf("OwnerStats: %v", err)
	}
	if stats.TotalVehicles != 4 || stats.TotalEarnings != 2100.5 {
		t.Errorf("stats = %+v", stats)
	}
}
