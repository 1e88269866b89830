package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/websocket"
	"github.com/kapu/collabhub-go/internal/dashboard"
	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/session"
	"github.com/kapu/collabhub-go/internal/social"
	"github.com/kapu/collabhub-go/internal/steps"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	steps.PasswordCost = bcrypt.MinCost
}

const (
	influencerSignUp = `{"email":"asha@example.com","phone":"9876543210","password":"password123","confirmPassword":"password123","fullName":"Asha Rao","agreeToTerms":true}`
	influencerKYC    = `{"panNumber":"ABCDE1234F","aadhaarNumber":"123412341234","panDocument":{"id":"p"},"aadhaarDocument":{"id":"a"},"selfieDocument":{"id":"s"}}`
	influencerSocial = `{"socialAccounts":{"instagram":{"username":"asha","connected":true,"stats":{"followers":1200}}}}`
	influencerBio    = `{"bio":"Home cook sharing regional recipes from Maharashtra every single week.","tags":["Food"],"sampleWorks":[{"file":{"id":"w1","contentType":"image/jpeg"}},{"file":{"id":"w2","contentType":"video/mp4"}}]}`
	brandSignUp      = `{"email":"ops@acme.in","phone":"9876543210","password":"password123","confirmPassword":"password123","companyName":"Acme","agreeToTerms":true}`
	brandKYC         = `{"companyName":"Acme","gstNumber":"27ABCDE1234F1Z5","panNumber":"ABCDE1234F","registeredAddress":"1 MG Road, Pune","directorName":"R Mehta","directorPan":"FGHIJ5678K","gstDocument":{"id":"g"},"panDocument":{"id":"p"},"addressProof":{"id":"a"},"directorIdProof":{"id":"d"}}`
	brandPayment     = `{"selectedPlan":"annual","paymentMethod":"card","paymentDetails":{"cardNumber":"4111 1111 1111 1111","expiryDate":"12/29","cvv":"123","holderName":"R Mehta"}}`
)

type testServer struct {
	*httptest.Server
	sessions *session.Manager
}

func newTestServer(t *testing.T, health map[string]HealthCheck) *testServer {
	t.Helper()
	mock, err := dashboard.NewMock()
	if err != nil {
		t.Fatalf("mock dashboards: %v", err)
	}
	sessions := session.NewManager(session.Config{VerificationDelay: 10 * time.Millisecond}, nil, nil, zap.NewNop())
	handler := NewRouter(Deps{
		Sessions:   sessions,
		Registry:   steps.DefaultRegistry(),
		Dashboards: dashboard.NewStoreOverlay(mock, zap.NewNop()),
		Social:     social.NewService(nil, zap.NewNop()),
		Health:     health,
		Logger:     zap.NewNop(),
	})
	ts := &testServer{Server: httptest.NewServer(handler), sessions: sessions}
	t.Cleanup(func() {
		ts.Close()
		sessions.Close(context.Background())
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

func (ts *testServer) newSession(t *testing.T) string {
	t.Helper()
	status, body := ts.do(t, http.MethodPost, "/api/sessions", "")
	if status != http.StatusCreated {
		t.Fatalf("create session: %d %v", status, body)
	}
	return body["id"].(string)
}

var fileIDPattern = regexp.MustCompile(`"id":"([^"]+)"`)

// withUploads stores a file in the session for every file id in body and
// rewrites the ids to the ones the session issued.
func (ts *testServer) withUploads(t *testing.T, sid, body string) string {
	t.Helper()
	s, err := ts.sessions.Get(sid)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	issued := map[string]string{}
	return fileIDPattern.ReplaceAllStringFunc(body, func(m string) string {
		id := fileIDPattern.FindStringSubmatch(m)[1]
		if _, ok := issued[id]; !ok {
			ref, err := s.AddUpload(id+".jpg", "image/jpeg", strings.NewReader("fake image"))
			if err != nil {
				t.Fatalf("upload %s: %v", id, err)
			}
			issued[id] = ref.ID
		}
		return `"id":"` + issued[id] + `"`
	})
}

func (ts *testServer) expect(t *testing.T, method, path, body string, want int) map[string]any {
	t.Helper()
	status, out := ts.do(t, method, path, body)
	if status != want {
		t.Fatalf("%s %s: expected %d, got %d %v", method, path, want, status, out)
	}
	return out
}

func (ts *testServer) waitForStep(t *testing.T, sid string, index int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		_, st := ts.do(t, http.MethodGet, "/api/sessions/"+sid+"/onboarding", "")
		if cur, ok := st["currentStep"].(map[string]any); ok && int(cur["index"].(float64)) == index && st["processing"] == false {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for step %d, state %v", index, st)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (ts *testServer) waitForView(t *testing.T, sid string, view domain.View) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		_, snap := ts.do(t, http.MethodGet, "/api/sessions/"+sid, "")
		if snap["view"] == string(view) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s, snapshot %v", view, snap)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (ts *testServer) completeBrand(t *testing.T, sid string) {
	t.Helper()
	base := "/api/sessions/" + sid + "/onboarding"
	ts.expect(t, http.MethodPost, base, `{"userType":"brand"}`, http.StatusCreated)
	ts.expect(t, http.MethodPost, base+"/submit", brandSignUp, http.StatusOK)
	ts.expect(t, http.MethodPost, base+"/submit", ts.withUploads(t, sid, brandKYC), http.StatusAccepted)
	ts.waitForStep(t, sid, 3)
	ts.expect(t, http.MethodPost, base+"/submit", brandPayment, http.StatusAccepted)
	ts.waitForView(t, sid, domain.ViewBrandDashboard)
}

func TestLandingPage(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if h1 := strings.TrimSpace(doc.Find("h1").Text()); h1 != "Connect. Create. Collaborate." {
		t.Fatalf("unexpected headline %q", h1)
	}
	var types []string
	doc.Find("button[data-user-type]").Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr("data-user-type")
		types = append(types, v)
	})
	if strings.Join(types, ",") != "influencer,brand" {
		t.Fatalf("unexpected get-started buttons %v", types)
	}
	if n := doc.Find("#influencer li").Length(); n != 3 {
		t.Fatalf("expected 3 creator benefits, got %d", n)
	}
	if n := doc.Find(".feature").Length(); n != 3 {
		t.Fatalf("expected 3 feature cards, got %d", n)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, map[string]HealthCheck{
		"redis": func(context.Context) error { return nil },
	})
	if body := ts.expect(t, http.MethodGet, "/healthz", "", http.StatusOK); body["status"] != "ok" {
		t.Fatalf("unexpected health %v", body)
	}

	degraded := newTestServer(t, map[string]HealthCheck{
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	})
	body := degraded.expect(t, http.MethodGet, "/healthz", "", http.StatusServiceUnavailable)
	if body["status"] != "degraded" || body["postgres"] != "connection refused" {
		t.Fatalf("unexpected health %v", body)
	}
}

func TestCatalog(t *testing.T) {
	ts := newTestServer(t, nil)

	body := ts.expect(t, http.MethodGet, "/api/catalog/steps?userType=influencer", "", http.StatusOK)
	list := body["steps"].([]any)
	if len(list) != 4 || body["displayName"] != "Creator" {
		t.Fatalf("unexpected influencer steps %v", body)
	}
	kyc := list[1].(map[string]any)
	if kyc["kind"] != "kyc" || kyc["delayed"] != true || kyc["processingLabel"] == "" {
		t.Fatalf("unexpected kyc entry %v", kyc)
	}
	ts.expect(t, http.MethodGet, "/api/catalog/steps?userType=agency", "", http.StatusBadRequest)

	plans := ts.expect(t, http.MethodGet, "/api/catalog/plans", "", http.StatusOK)["plans"].([]any)
	monthly := plans[0].(map[string]any)
	annual := plans[1].(map[string]any)
	if monthly["discountPercent"] != float64(25) || annual["discountPercent"] != float64(38) || annual["popular"] != true {
		t.Fatalf("unexpected plans %v", plans)
	}

	tags := ts.expect(t, http.MethodGet, "/api/catalog/tags", "", http.StatusOK)["tags"].([]any)
	if len(tags) != 20 || tags[0] != "Fitness" {
		t.Fatalf("unexpected tags %v", tags)
	}
}

func TestInfluencerJourney(t *testing.T) {
	ts := newTestServer(t, nil)
	sid := ts.newSession(t)
	base := "/api/sessions/" + sid + "/onboarding"

	ts.expect(t, http.MethodGet, "/api/sessions/"+sid+"/dashboard", "", http.StatusConflict)

	st := ts.expect(t, http.MethodPost, base, `{"userType":"Influencer"}`, http.StatusCreated)
	if st["stepCount"] != float64(4) {
		t.Fatalf("unexpected flow state %v", st)
	}

	res := ts.expect(t, http.MethodPost, base+"/submit", influencerSignUp, http.StatusOK)
	if res["outcome"] != "advanced" {
		t.Fatalf("unexpected signup result %v", res)
	}

	bad := strings.Replace(influencerKYC, "ABCDE1234F", "ABC123", 1)
	errBody := ts.expect(t, http.MethodPost, base+"/submit", bad, http.StatusUnprocessableEntity)
	fields := errBody["fields"].(map[string]any)
	if errBody["code"] != "VALIDATION_ERROR" || fields["panNumber"] != "Please enter a valid PAN number" {
		t.Fatalf("unexpected validation body %v", errBody)
	}

	notUploaded := ts.expect(t, http.MethodPost, base+"/submit", influencerKYC, http.StatusUnprocessableEntity)
	if fields := notUploaded["fields"].(map[string]any); fields["panDocument"] != "PAN document is required" || len(fields) != 3 {
		t.Fatalf("documents must name uploads held by the session, got %v", notUploaded)
	}

	ts.expect(t, http.MethodPost, base+"/submit", ts.withUploads(t, sid, influencerKYC), http.StatusAccepted)
	busy := ts.expect(t, http.MethodPost, base+"/back", "", http.StatusConflict)
	if busy["code"] != "FLOW_ERROR" {
		t.Fatalf("unexpected busy body %v", busy)
	}
	ts.waitForStep(t, sid, 3)

	ts.expect(t, http.MethodPost, base+"/submit", influencerSocial, http.StatusOK)
	done := ts.expect(t, http.MethodPost, base+"/submit", ts.withUploads(t, sid, influencerBio), http.StatusOK)
	if done["outcome"] != "completed" {
		t.Fatalf("unexpected final result %v", done)
	}

	snap := ts.expect(t, http.MethodGet, "/api/sessions/"+sid, "", http.StatusOK)
	if snap["view"] != "influencer-dashboard" || snap["userType"] != "influencer" {
		t.Fatalf("unexpected snapshot %v", snap)
	}

	dash := ts.expect(t, http.MethodGet, "/api/sessions/"+sid+"/dashboard", "", http.StatusOK)
	profile := dash["profile"].(map[string]any)
	if profile["name"] != "Asha Rao" || profile["completionPercentage"] != float64(85) {
		t.Fatalf("dashboard must show the onboarded profile, got %v", profile)
	}

	prof := ts.expect(t, http.MethodGet, "/api/sessions/"+sid+"/profile", "", http.StatusOK)
	inf := prof["influencer"].(map[string]any)
	if inf["socialAccounts"].(map[string]any)["instagram"] != "asha" || prof["brand"] != nil {
		t.Fatalf("unexpected profile %v", prof)
	}

	patched := ts.expect(t, http.MethodPatch, "/api/sessions/"+sid+"/profile/influencer", `{"bio":"Updated bio"}`, http.StatusOK)
	if patched["influencer"].(map[string]any)["bio"] != "Updated bio" {
		t.Fatalf("unexpected patch result %v", patched)
	}

	ts.expect(t, http.MethodPost, base+"/submit", influencerSignUp, http.StatusConflict)
	ts.expect(t, http.MethodGet, "/api/sessions/"+sid+"/dashboard/discovery", "", http.StatusConflict)

	out := ts.expect(t, http.MethodPost, "/api/sessions/"+sid+"/logout", "", http.StatusOK)
	if out["view"] != "landing" || out["userType"] != nil {
		t.Fatalf("unexpected logout snapshot %v", out)
	}
}

func TestBrandDiscovery(t *testing.T) {
	ts := newTestServer(t, nil)
	sid := ts.newSession(t)
	ts.completeBrand(t, sid)

	dash := ts.expect(t, http.MethodGet, "/api/sessions/"+sid+"/dashboard", "", http.StatusOK)
	if p := dash["profile"].(map[string]any); p["companyName"] != "Acme" || p["subscriptionPlan"] != "annual" {
		t.Fatalf("unexpected brand profile %v", p)
	}

	found := ts.expect(t, http.MethodGet, "/api/sessions/"+sid+"/dashboard/discovery?niche=gaming", "", http.StatusOK)
	list := found["influencers"].([]any)
	if len(list) != 1 || list[0].(map[string]any)["name"] != "Tech Reviewer" {
		t.Fatalf("unexpected discovery %v", found)
	}
	ts.expect(t, http.MethodGet, "/api/sessions/"+sid+"/dashboard/discovery?minFollowers=x", "", http.StatusBadRequest)
}

func TestBackOutOfOnboarding(t *testing.T) {
	ts := newTestServer(t, nil)
	sid := ts.newSession(t)
	base := "/api/sessions/" + sid + "/onboarding"

	ts.expect(t, http.MethodPost, base, `{"userType":"brand"}`, http.StatusCreated)
	ts.expect(t, http.MethodPost, base, `{"userType":"brand"}`, http.StatusConflict)
	out := ts.expect(t, http.MethodPost, base+"/back", "", http.StatusOK)
	if out["outcome"] != "abandoned" || out["view"] != "landing" {
		t.Fatalf("unexpected back result %v", out)
	}
	ts.expect(t, http.MethodGet, base, "", http.StatusConflict)
	ts.expect(t, http.MethodPost, base, `{"userType":"admin"}`, http.StatusUnprocessableEntity)
	ts.expect(t, http.MethodPost, base, `{"userType":"brand","extra":1}`, http.StatusBadRequest)
}

func TestSubmitRejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t, nil)
	sid := ts.newSession(t)
	base := "/api/sessions/" + sid + "/onboarding"
	ts.expect(t, http.MethodPost, base, `{"userType":"influencer"}`, http.StatusCreated)

	body := ts.expect(t, http.MethodPost, base+"/submit", `{"email":`, http.StatusBadRequest)
	if body["code"] != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error body %v", body)
	}
	ts.expect(t, http.MethodPost, base+"/submit", `{"unknownField":true}`, http.StatusBadRequest)
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)
	sid := ts.newSession(t)

	snap := ts.expect(t, http.MethodGet, "/api/sessions/"+sid, "", http.StatusOK)
	if snap["view"] != "landing" {
		t.Fatalf("new sessions start on landing, got %v", snap)
	}
	ts.expect(t, http.MethodDelete, "/api/sessions/"+sid, "", http.StatusNoContent)
	body := ts.expect(t, http.MethodGet, "/api/sessions/"+sid, "", http.StatusNotFound)
	if body["code"] != "SESSION_ERROR" {
		t.Fatalf("unexpected error body %v", body)
	}
	ts.expect(t, http.MethodGet, "/api/nothing", "", http.StatusNotFound)
}

func TestUploadRoundTrip(t *testing.T) {
	ts := newTestServer(t, nil)
	sid := ts.newSession(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "sample.txt")
	_, _ = part.Write([]byte("sample work"))
	_ = mw.Close()

	resp, err := http.Post(ts.URL+"/api/sessions/"+sid+"/uploads", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		File domain.FileRef `json:"file"`
		URL  string         `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.File.Name != "sample.txt" || created.File.Size != 11 {
		t.Fatalf("unexpected ref %+v", created.File)
	}

	got, err := http.Get(ts.URL + created.URL)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer got.Body.Close()
	data, _ := io.ReadAll(got.Body)
	if got.StatusCode != http.StatusOK || string(data) != "sample work" {
		t.Fatalf("unexpected download %d %q", got.StatusCode, data)
	}

	ts.expect(t, http.MethodGet, "/api/sessions/"+sid+"/uploads/missing", "", http.StatusNotFound)
}

func TestSocialConnect(t *testing.T) {
	ts := newTestServer(t, nil)
	sid := ts.newSession(t)
	base := "/api/sessions/" + sid + "/social"

	out := ts.expect(t, http.MethodPost, base+"/instagram/connect", `{"username":"@Asha"}`, http.StatusOK)
	acc := out["account"].(map[string]any)
	if acc["connected"] != true || acc["username"] != "asha" || acc["platform"] != "instagram" {
		t.Fatalf("unexpected account %v", acc)
	}
	ts.expect(t, http.MethodPost, base+"/myspace/connect", `{"username":"asha"}`, http.StatusNotFound)
	ts.expect(t, http.MethodPost, base+"/twitter/connect", `{"username":""}`, http.StatusUnprocessableEntity)

	batch := ts.expect(t, http.MethodPost, base+"/connect", `{"accounts":[{"platform":"YouTube","username":"asha"},{"platform":"twitter","username":"asha_x"}]}`, http.StatusOK)
	results := batch["results"].([]any)
	if len(results) != 2 || results[0].(map[string]any)["account"].(map[string]any)["platform"] != "youtube" {
		t.Fatalf("unexpected batch %v", batch)
	}
	ts.expect(t, http.MethodPost, base+"/connect", `{"accounts":[]}`, http.StatusUnprocessableEntity)

	ts.expect(t, http.MethodGet, base+"/youtube/authorize", "", http.StatusNotImplemented)
}

func TestYouTubeAuthorizeRedirects(t *testing.T) {
	mock, _ := dashboard.NewMock()
	sessions := session.NewManager(session.Config{}, nil, nil, zap.NewNop())
	defer sessions.Close(context.Background())
	yo, err := social.NewYouTubeOAuth(social.OAuthConfig{ClientID: "cid", ClientSecret: "secret", RedirectURL: "http://localhost/oauth/youtube/callback"}, zap.NewNop())
	if err != nil {
		t.Fatalf("oauth: %v", err)
	}
	handler := NewRouter(Deps{Sessions: sessions, Dashboards: mock, Social: social.NewService(nil, zap.NewNop()), YouTubeOAuth: yo})

	s := sessions.Create()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+s.ID()+"/social/youtube/authorize", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "accounts.google.com") || !strings.Contains(loc, "state="+s.ID()) {
		t.Fatalf("unexpected consent url %s", loc)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth/youtube/callback?state="+s.ID()+".forged&code=x", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("forged state must be rejected, got %d", rec.Code)
	}
}

func TestEventStream(t *testing.T) {
	ts := newTestServer(t, nil)
	sid := ts.newSession(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/" + sid + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	s, err := ts.sessions.Get(sid)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for s.Hub().Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("stream never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ts.expect(t, http.MethodPost, "/api/sessions/"+sid+"/onboarding", `{"userType":"brand"}`, http.StatusCreated)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var e domain.Event
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatalf("read: %v", err)
	}
	if e.Type != domain.EventViewChanged || e.View != domain.ViewOnboarding || e.SessionID != sid {
		t.Fatalf("unexpected event %+v", e)
	}

	ts.expect(t, http.MethodDelete, "/api/sessions/"+sid, "", http.StatusNoContent)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Fatalf("expected close frame after session end, got %v", err)
			}
			break
		}
	}
}

func TestRecovererReturns500(t *testing.T) {
	h := recoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body errorBody
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if rec.Code != http.StatusInternalServerError || body.Code != "APP_ERROR" {
		t.Fatalf("unexpected response %d %+v", rec.Code, body)
	}
}
