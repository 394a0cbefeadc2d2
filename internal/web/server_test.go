package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/techentum/mod-report/components/autosave"
	"github.com/techentum/mod-report/internal/auth"
	"github.com/techentum/mod-report/internal/domain"
	"github.com/techentum/mod-report/internal/store"
	"github.com/techentum/mod-report/internal/store/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	mem := memory.NewStore()
	manager := auth.NewManager(mem, "test-secret", "modreport_test")
	server, err := New(mem, manager)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return ts, mem
}

// newClient returns a cookie-keeping client bound to the test server.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

// noFollow stops the client at the first redirect so tests can inspect it.
func noFollow(client *http.Client) *http.Client {
	copied := *client
	copied.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &copied
}

func register(t *testing.T, client *http.Client, baseURL, name, email string) {
	t.Helper()
	res, err := client.PostForm(baseURL+"/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {"hunter2"},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("register: expected 200 after redirects, got %d", res.StatusCode)
	}
	if res.Request.URL.Path != "/dashboard" {
		t.Fatalf("register should land on the dashboard, got %s", res.Request.URL.Path)
	}
}

// createShift opens a shift and returns its ID parsed from the redirect.
func createShift(t *testing.T, client *http.Client, baseURL string) int64 {
	t.Helper()
	res, err := noFollow(client).PostForm(baseURL+"/shift/new", url.Values{
		"date":      {"2025-06-01"},
		"schedule":  {"7a-3p"},
		"occupancy": {"82"},
	})
	if err != nil {
		t.Fatalf("create shift: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusFound {
		t.Fatalf("create shift: expected redirect, got %d", res.StatusCode)
	}
	location := res.Header.Get("Location")
	var id int64
	if _, err := fmt.Sscanf(location, "/shift/%d", &id); err != nil {
		t.Fatalf("create shift: unexpected redirect %q", location)
	}
	return id
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func TestIndexRedirects(t *testing.T) {
	ts, _ := newTestServer(t)
	client := newClient(t)

	res, err := noFollow(client).Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	res.Body.Close()
	if loc := res.Header.Get("Location"); loc != "/login" {
		t.Fatalf("anonymous index should go to /login, got %q", loc)
	}

	register(t, client, ts.URL, "Avery", "avery@example.com")

	res2, err := noFollow(client).Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	res2.Body.Close()
	if loc := res2.Header.Get("Location"); loc != "/dashboard" {
		t.Fatalf("signed-in index should go to /dashboard, got %q", loc)
	}
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	ts, _ := newTestServer(t)
	client := newClient(t)

	for _, path := range []string{"/dashboard", "/shift/new", "/shift/1", "/report/1"} {
		res, err := noFollow(client).Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusFound || res.Header.Get("Location") != "/login" {
			t.Fatalf("GET %s: expected redirect to /login, got %d %q",
				path, res.StatusCode, res.Header.Get("Location"))
		}
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts, _ := newTestServer(t)
	client := newClient(t)
	register(t, client, ts.URL, "Avery", "avery@example.com")

	other := newClient(t)
	res, err := noFollow(other).PostForm(ts.URL+"/login", url.Values{
		"email":    {"avery@example.com"},
		"password": {"wrong"},
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	res.Body.Close()
	if loc := res.Header.Get("Location"); loc != "/login" {
		t.Fatalf("bad login should bounce back to /login, got %q", loc)
	}
}

func TestShiftDetailCarriesAutosaveWiring(t *testing.T) {
	ts, _ := newTestServer(t)
	client := newClient(t)
	register(t, client, ts.URL, "Avery", "avery@example.com")
	id := createShift(t, client, ts.URL)

	res, err := client.Get(fmt.Sprintf("%s/shift/%d", ts.URL, id))
	if err != nil {
		t.Fatalf("GET shift: %v", err)
	}
	body := readBody(t, res)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if !strings.Contains(body, fmt.Sprintf(`data-save-endpoint="/shift/%d/close"`, id)) {
		t.Fatal("wrap-up form should carry the save endpoint attribute")
	}
	if !strings.Contains(body, "data-autosave") {
		t.Fatal("wrap-up form should carry the autosave marker attribute")
	}
	if !strings.Contains(body, `src="/assets/autosave.js"`) {
		t.Fatal("page should load the autosave script")
	}
}

func TestAutosaveScriptIsServed(t *testing.T) {
	ts, _ := newTestServer(t)
	client := newClient(t)

	res, err := client.Get(ts.URL + "/assets/autosave.js")
	if err != nil {
		t.Fatalf("GET script: %v", err)
	}
	body := readBody(t, res)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/javascript") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(body, "setTimeout(save, 800)") {
		t.Fatal("script should debounce with the default quiet period")
	}
}

func TestBackgroundSaveKeepsShiftOpen(t *testing.T) {
	ts, mem := newTestServer(t)
	client := newClient(t)
	register(t, client, ts.URL, "Avery", "avery@example.com")
	id := createShift(t, client, ts.URL)

	form := url.Values{
		"quality_assurance": {"Pool deck needs a mop."},
		"shift_notes":       {"Quiet evening."},
	}
	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/shift/%d/close", ts.URL, id), strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "autosave")

	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("background save: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("background save should answer 204, got %d", res.StatusCode)
	}

	shift, err := mem.ShiftByID(context.Background(), id)
	if err != nil {
		t.Fatalf("ShiftByID: %v", err)
	}
	if !shift.IsOpen() {
		t.Fatal("background save must not close the shift")
	}
	if shift.QualityAssurance != "Pool deck needs a mop." {
		t.Fatalf("draft fields should persist, got %q", shift.QualityAssurance)
	}
}

func TestSubmitClosesShift(t *testing.T) {
	ts, mem := newTestServer(t)
	client := newClient(t)
	register(t, client, ts.URL, "Avery", "avery@example.com")
	id := createShift(t, client, ts.URL)

	res, err := noFollow(client).PostForm(fmt.Sprintf("%s/shift/%d/close", ts.URL, id), url.Values{
		"nps_score":   {"72"},
		"shift_notes": {"Handed off to night MOD."},
	})
	if err != nil {
		t.Fatalf("close shift: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", res.StatusCode)
	}
	if loc := res.Header.Get("Location"); loc != fmt.Sprintf("/report/%d", id) {
		t.Fatalf("closing should land on the report, got %q", loc)
	}

	shift, err := mem.ShiftByID(context.Background(), id)
	if err != nil {
		t.Fatalf("ShiftByID: %v", err)
	}
	if shift.IsOpen() {
		t.Fatal("submitting the wrap-up form should close the shift")
	}
	if shift.NPSScore == nil || *shift.NPSScore != 72 {
		t.Fatalf("wrap-up numbers should persist, got %v", shift.NPSScore)
	}
}

func TestAddIncident(t *testing.T) {
	ts, mem := newTestServer(t)
	client := newClient(t)
	register(t, client, ts.URL, "Avery", "avery@example.com")
	id := createShift(t, client, ts.URL)

	res, err := noFollow(client).PostForm(fmt.Sprintf("%s/shift/%d/incident", ts.URL, id), url.Values{
		"incident_time": {"14:30"},
		"code":          {"Code Brown"},
		"location":      {"Wave pool"},
		"notes":         {"Cleared within ten minutes."},
	})
	if err != nil {
		t.Fatalf("add incident: %v", err)
	}
	res.Body.Close()
	if loc := res.Header.Get("Location"); loc != fmt.Sprintf("/shift/%d", id) {
		t.Fatalf("expected redirect back to the shift, got %q", loc)
	}

	sections, err := mem.SectionsForShift(context.Background(), id)
	if err != nil {
		t.Fatalf("SectionsForShift: %v", err)
	}
	if len(sections.Incidents) != 1 {
		t.Fatalf("expected 1 incident, got %d", len(sections.Incidents))
	}
	if sections.Incidents[0].Time != "14:30" {
		t.Fatalf("unexpected incident time %q", sections.Incidents[0].Time)
	}
}

func TestIncidentValidation(t *testing.T) {
	ts, mem := newTestServer(t)
	client := newClient(t)
	register(t, client, ts.URL, "Avery", "avery@example.com")
	id := createShift(t, client, ts.URL)

	// Missing location flashes an error and records nothing.
	res, err := noFollow(client).PostForm(fmt.Sprintf("%s/shift/%d/incident", ts.URL, id), url.Values{
		"incident_time": {"14:30"},
		"code":          {"Code Brown"},
	})
	if err != nil {
		t.Fatalf("add incident: %v", err)
	}
	res.Body.Close()
	if loc := res.Header.Get("Location"); loc != fmt.Sprintf("/shift/%d", id) {
		t.Fatalf("expected redirect back to the shift, got %q", loc)
	}

	sections, err := mem.SectionsForShift(context.Background(), id)
	if err != nil {
		t.Fatalf("SectionsForShift: %v", err)
	}
	if len(sections.Incidents) != 0 {
		t.Fatalf("invalid incident should not be stored, got %d", len(sections.Incidents))
	}
}

func TestOpenShiftIsPrivate(t *testing.T) {
	ts, _ := newTestServer(t)
	owner := newClient(t)
	register(t, owner, ts.URL, "Avery", "avery@example.com")
	id := createShift(t, owner, ts.URL)

	other := newClient(t)
	register(t, other, ts.URL, "Blake", "blake@example.com")

	res, err := other.Get(fmt.Sprintf("%s/shift/%d", ts.URL, id))
	if err != nil {
		t.Fatalf("GET shift: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("non-editor should get 403, got %d", res.StatusCode)
	}

	res2, err := other.Get(fmt.Sprintf("%s/report/%d", ts.URL, id))
	if err != nil {
		t.Fatalf("GET report: %v", err)
	}
	res2.Body.Close()
	if res2.StatusCode != http.StatusForbidden {
		t.Fatalf("open shift report should be 403 for others, got %d", res2.StatusCode)
	}
}

func TestClosedReportIsVisibleToEveryone(t *testing.T) {
	ts, _ := newTestServer(t)
	owner := newClient(t)
	register(t, owner, ts.URL, "Avery", "avery@example.com")
	id := createShift(t, owner, ts.URL)
	res, err := owner.PostForm(fmt.Sprintf("%s/shift/%d/close", ts.URL, id), url.Values{})
	if err != nil {
		t.Fatalf("close shift: %v", err)
	}
	res.Body.Close()

	other := newClient(t)
	register(t, other, ts.URL, "Blake", "blake@example.com")

	res2, err := other.Get(fmt.Sprintf("%s/report/%d", ts.URL, id))
	if err != nil {
		t.Fatalf("GET report: %v", err)
	}
	body := readBody(t, res2)
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("closed report should be readable, got %d", res2.StatusCode)
	}
	if !strings.Contains(body, "Avery") {
		t.Fatal("report should name the MOD")
	}
}

func TestSharedEditorCanEdit(t *testing.T) {
	ts, mem := newTestServer(t)
	owner := newClient(t)
	register(t, owner, ts.URL, "Avery", "avery@example.com")
	id := createShift(t, owner, ts.URL)

	editor := newClient(t)
	register(t, editor, ts.URL, "Blake", "blake@example.com")

	res, err := noFollow(owner).PostForm(fmt.Sprintf("%s/shift/%d/editors", ts.URL, id), url.Values{
		"email": {"blake@example.com"},
	})
	if err != nil {
		t.Fatalf("add editor: %v", err)
	}
	res.Body.Close()
	if loc := res.Header.Get("Location"); loc != fmt.Sprintf("/shift/%d", id) {
		t.Fatalf("expected redirect back to the shift, got %q", loc)
	}

	res2, err := editor.Get(fmt.Sprintf("%s/shift/%d", ts.URL, id))
	if err != nil {
		t.Fatalf("GET shift as editor: %v", err)
	}
	res2.Body.Close()
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("shared editor should see the shift, got %d", res2.StatusCode)
	}

	res3, err := noFollow(editor).PostForm(fmt.Sprintf("%s/shift/%d/high-paw", ts.URL, id), url.Values{
		"pack_members": {"Jordan"},
		"department":   {"Aquatics"},
		"description":  {"Caught a slide jam before it backed up."},
	})
	if err != nil {
		t.Fatalf("add high paw: %v", err)
	}
	res3.Body.Close()

	sections, err := mem.SectionsForShift(context.Background(), id)
	if err != nil {
		t.Fatalf("SectionsForShift: %v", err)
	}
	if len(sections.HighPaws) != 1 {
		t.Fatalf("shared editor's entry should be stored, got %d", len(sections.HighPaws))
	}
}

func TestCommentIsSanitized(t *testing.T) {
	ts, mem := newTestServer(t)
	owner := newClient(t)
	register(t, owner, ts.URL, "Avery", "avery@example.com")
	id := createShift(t, owner, ts.URL)
	res, err := owner.PostForm(fmt.Sprintf("%s/shift/%d/close", ts.URL, id), url.Values{})
	if err != nil {
		t.Fatalf("close shift: %v", err)
	}
	res.Body.Close()

	res2, err := noFollow(owner).PostForm(fmt.Sprintf("%s/report/%d/comment", ts.URL, id), url.Values{
		"body": {`Great shift <script>alert("x")</script><b>team</b>`},
	})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	res2.Body.Close()
	if loc := res2.Header.Get("Location"); loc != fmt.Sprintf("/report/%d", id) {
		t.Fatalf("expected redirect to the report, got %q", loc)
	}

	comments, err := mem.CommentsForShift(context.Background(), id)
	if err != nil {
		t.Fatalf("CommentsForShift: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	if strings.Contains(comments[0].Body, "<script>") {
		t.Fatalf("script tags must be stripped, got %q", comments[0].Body)
	}
	if !strings.Contains(comments[0].Body, "<b>team</b>") {
		t.Fatalf("benign markup should survive, got %q", comments[0].Body)
	}
}

func TestCustomAutosaveComponentIsWiredThrough(t *testing.T) {
	mem := memory.NewStore()
	manager := auth.NewManager(mem, "test-secret", "modreport_test")
	component := autosave.New(
		autosave.WithRoutePath("/static/save.js"),
		autosave.WithHeader("X-Background", "save"),
	)
	server, err := New(mem, manager, WithAutosave(component))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	client := newClient(t)

	// The script answers at the configured path, not the package default.
	res, err := client.Get(ts.URL + "/static/save.js")
	if err != nil {
		t.Fatalf("GET script: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("configured script path should answer 200, got %d", res.StatusCode)
	}
	res2, err := client.Get(ts.URL + "/assets/autosave.js")
	if err != nil {
		t.Fatalf("GET default path: %v", err)
	}
	res2.Body.Close()
	if res2.StatusCode == http.StatusOK {
		t.Fatal("default script path should not be mounted on a reconfigured server")
	}

	register(t, client, ts.URL, "Avery", "avery@example.com")
	id := createShift(t, client, ts.URL)

	// Pages reference the configured path.
	res3, err := client.Get(fmt.Sprintf("%s/shift/%d", ts.URL, id))
	if err != nil {
		t.Fatalf("GET shift: %v", err)
	}
	if body := readBody(t, res3); !strings.Contains(body, `src="/static/save.js"`) {
		t.Fatal("pages should load the script from the configured path")
	}

	// The configured header marks a background save.
	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/shift/%d/close", ts.URL, id),
		strings.NewReader(url.Values{"shift_notes": {"draft"}}.Encode()))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Background", "save")
	res4, err := client.Do(req)
	if err != nil {
		t.Fatalf("background save: %v", err)
	}
	res4.Body.Close()
	if res4.StatusCode != http.StatusNoContent {
		t.Fatalf("configured marker should answer 204, got %d", res4.StatusCode)
	}
	shift, err := mem.ShiftByID(context.Background(), id)
	if err != nil {
		t.Fatalf("ShiftByID: %v", err)
	}
	if !shift.IsOpen() {
		t.Fatal("background save with the configured marker must not close the shift")
	}
}

// flakyShiftStore fails OpenShiftForUser on demand to exercise the error
// path.
type flakyShiftStore struct {
	store.Store
	failing bool
}

func (f *flakyShiftStore) OpenShiftForUser(ctx context.Context, userID int64) (*domain.Shift, error) {
	if f.failing {
		return nil, errors.New("store offline")
	}
	return f.Store.OpenShiftForUser(ctx, userID)
}

func TestNewShiftStoreFailureDoesNotCreateShift(t *testing.T) {
	mem := memory.NewStore()
	flaky := &flakyShiftStore{Store: mem}
	manager := auth.NewManager(mem, "test-secret", "modreport_test")
	server, err := New(flaky, manager)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	client := newClient(t)
	register(t, client, ts.URL, "Avery", "avery@example.com")

	flaky.failing = true
	res, err := noFollow(client).PostForm(ts.URL+"/shift/new", url.Values{
		"date":     {"2025-06-01"},
		"schedule": {"7a-3p"},
	})
	if err != nil {
		t.Fatalf("create shift: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("store failure should answer 500, got %d", res.StatusCode)
	}

	// The failure must not be mistaken for "no open shift".
	user, err := mem.UserByEmail(context.Background(), "avery@example.com")
	if err != nil {
		t.Fatalf("UserByEmail: %v", err)
	}
	if _, err := mem.OpenShiftForUser(context.Background(), user.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("no shift should have been created, got %v", err)
	}
}

func TestSecondOpenShiftIsRefused(t *testing.T) {
	ts, mem := newTestServer(t)
	client := newClient(t)
	register(t, client, ts.URL, "Avery", "avery@example.com")
	id := createShift(t, client, ts.URL)

	res, err := noFollow(client).PostForm(ts.URL+"/shift/new", url.Values{
		"date":     {"2025-06-02"},
		"schedule": {"3p-11p"},
	})
	if err != nil {
		t.Fatalf("second shift: %v", err)
	}
	res.Body.Close()
	if loc := res.Header.Get("Location"); loc != fmt.Sprintf("/shift/%d", id) {
		t.Fatalf("second open shift should bounce to the existing one, got %q", loc)
	}

	user, err := mem.UserByEmail(context.Background(), "avery@example.com")
	if err != nil {
		t.Fatalf("UserByEmail: %v", err)
	}
	shift, err := mem.OpenShiftForUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("OpenShiftForUser: %v", err)
	}
	if shift.Status != domain.ShiftOpen || shift.Schedule != "7a-3p" {
		t.Fatalf("original shift should be untouched, got %+v", shift)
	}
}
