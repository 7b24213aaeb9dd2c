//go:build browser

package web_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"

	web "studio/internal/adapters/http"
	"studio/internal/adapters/storage"
	calendarStore "studio/internal/adapters/storage/calendar"
	"studio/internal/domain/account"
	"studio/internal/domain/calendar"
)

const browserToken = "browser-smoke-token"

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	Store   calendarStore.Store
	Browser playwright.Browser
}

// newTestApp wires the full handler chain over a temp SQLite database.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(ctx, db); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}
	store := calendarStore.NewSQLiteStore(db)

	hash, err := account.HashToken(browserToken, 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	srv := httptest.NewServer(web.NewMux(ctx, &web.Stores{CalendarStore: store}, web.Options{
		Credentials:        []account.Credential{{Name: "front-desk", Role: calendar.RoleStudio, Hash: hash}},
		RateLimitPerSecond: 100,
	}))
	t.Cleanup(srv.Close)

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
	})

	return &testApp{BaseURL: srv.URL, Store: store, Browser: browser}
}

// login signs in through the token form and waits for the calendar.
func (a *testApp) login(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })

	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=token]").Fill(browserToken); err != nil {
		t.Fatalf("failed to fill token: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click sign in: %v", err)
	}
	if err := page.WaitForURL("**/calendar*", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to calendar: %v", err)
	}
	return page
}

// TestCalendar_CreateFromForm logs in, adds a kiln firing and sees it in the day view.
func TestCalendar_CreateFromForm(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	page := app.login(t)

	if _, err := page.Goto(app.BaseURL + "/calendar?view=day&date=2025-06-25"); err != nil {
		t.Fatalf("failed to open day view: %v", err)
	}
	if _, err := page.Locator("#create-item select[name=type]").SelectOption(playwright.SelectOptionValues{
		Values: playwright.StringSlice("kiln"),
	}); err != nil {
		t.Fatalf("failed to pick type: %v", err)
	}
	if err := page.Locator("#create-item input[name=title]").Fill("Glaze firing"); err != nil {
		t.Fatalf("failed to fill title: %v", err)
	}
	if err := page.Locator("#create-item input[name=time]").Fill("09:00"); err != nil {
		t.Fatalf("failed to fill time: %v", err)
	}
	if err := page.Locator("#create-item button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to submit: %v", err)
	}

	if err := page.Locator(".chip >> text=Glaze firing").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatal("created item not shown in day view")
	}

	items, err := app.Store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Date != "2025-06-25" || items[0].Time != "09:00" {
		t.Errorf("unexpected stored items %+v", items)
	}
}

// TestCalendar_ToggleHidesCategory checks the filter bar round-trips through the URL.
func TestCalendar_ToggleHidesCategory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	if err := app.Store.Append(context.Background(), calendar.Item{
		ID: "k1", Type: calendar.CategoryKiln, Title: "Bisque load", Date: "2025-06-25", Color: "orange",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	page := app.login(t)

	if _, err := page.Goto(app.BaseURL + "/calendar?view=week&date=2025-06-25"); err != nil {
		t.Fatalf("failed to open week view: %v", err)
	}
	if err := page.Locator(".chip >> text=Bisque load").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatal("seeded item not shown")
	}
	if err := page.Locator(".toggles a[data-category=kiln]").Click(); err != nil {
		t.Fatalf("failed to toggle kiln: %v", err)
	}
	if err := page.WaitForURL("**hide=kiln*"); err != nil {
		t.Fatalf("toggle did not update URL: %v", err)
	}
	n, err := page.Locator(".chip >> text=Bisque load").Count()
	if err != nil || n != 0 {
		t.Errorf("expected kiln item hidden, found %d (%v)", n, err)
	}
}
