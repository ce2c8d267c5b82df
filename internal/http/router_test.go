package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/losaltoshacks/registration-backend/internal/data/repos"
	"github.com/losaltoshacks/registration-backend/internal/data/repos/testutil"
	httpH "github.com/losaltoshacks/registration-backend/internal/http/handlers"
	httpMW "github.com/losaltoshacks/registration-backend/internal/http/middleware"
	"github.com/losaltoshacks/registration-backend/internal/observability"
	"github.com/losaltoshacks/registration-backend/internal/services"
)

type captureNotifier struct {
	mu   sync.Mutex
	last services.Confirmation
}

func (n *captureNotifier) SendConfirmation(_ context.Context, c services.Confirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = c
	return nil
}

type harness struct {
	t        *testing.T
	router   *gin.Engine
	token    string
	notifier *captureNotifier
}

func newHarness(t *testing.T, redirect string) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics := observability.NewMetrics("test")
	n := &captureNotifier{}

	evs := repos.NewEmailVerificationRepo(db, log)
	attendees := services.NewRegistrantService(db, log, services.AttendeeSchema, repos.NewAttendeeRepo(db, log), evs, n, metrics)
	mentors := services.NewRegistrantService(db, log, services.MentorSchema, repos.NewMentorRepo(db, log), evs, n, metrics)
	guests := services.NewRegistrantService(db, log, services.GuestSchema, repos.NewGuestRepo(db, log), evs, n, metrics)
	chaperones := services.NewRegistrantService(db, log, services.ChaperoneSchema, repos.NewChaperoneRepo(db, log), evs, n, metrics)

	auth := services.NewAuthService(log, "router-secret", "", 0, false)
	token, err := auth.Issue("organizer@losaltoshacks.com")
	require.NoError(t, err)

	r := NewRouter(RouterConfig{
		Log:              log,
		Metrics:          metrics,
		AuthMiddleware:   httpMW.NewAuthMiddleware(log, auth),
		WaiverAuth:       httpMW.BasicCredentials{Username: "docusign", Password: "pw"},
		AttendeeHandler:  httpH.NewAttendeeHandler(attendees, redirect),
		MentorHandler:    httpH.NewMentorHandler(mentors, redirect),
		GuestHandler:     httpH.NewGuestHandler(guests),
		ChaperoneHandler: httpH.NewChaperoneHandler(chaperones),
		DayOfHandler: httpH.NewDayOfHandler(
			services.NewDayOfService(db, log, repos.NewSignInRepo(db, log), metrics, attendees, mentors, guests, chaperones)),
		WaiverHandler: httpH.NewWaiverHandler(
			services.NewWaiverService(db, log, repos.NewWaiverReceiptRepo(db, log), metrics, attendees, mentors, guests, chaperones)),
		SubscriptionHandler: httpH.NewSubscriptionHandler(
			services.NewSubscriptionService(log, repos.NewEmailSubscriptionRepo(db, log))),
		DiscordHandler: httpH.NewDiscordHandler(services.NewDiscordService(attendees, mentors, chaperones)),
		HealthHandler:  httpH.NewHealthHandler(nil),
	})
	return &harness{t: t, router: r, token: token, notifier: n}
}

func (h *harness) do(method, path string, body any, authed bool) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode[V any](t *testing.T, rec *httptest.ResponseRecorder) V {
	t.Helper()
	var v V
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func attendeeBody(email string) map[string]any {
	return map[string]any{
		"first_name":            "Ada",
		"surname":               "Lovelace",
		"email":                 email,
		"age":                   17,
		"school":                "Los Altos High School",
		"grade":                 11,
		"student_phone_number":  "650-555-0100",
		"gender":                "female",
		"tshirt_size":           "M",
		"guardian_name":         "Grace Hopper",
		"guardian_email":        "grace@example.com",
		"guardian_phone_number": "650-555-0199",
	}
}

func (h *harness) signupAttendee(email string) string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/registration/v1/signup", attendeeBody(email), false)
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode[[]map[string]any](h.t, h.do(http.MethodGet, "/registration/v1/list", nil, true))
	for _, row := range list {
		if row["email"] == email {
			return row["id"].(string)
		}
	}
	h.t.Fatalf("attendee %s not listed", email)
	return ""
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, "")
	rec := h.do(http.MethodGet, "/healthcheck", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	h.signupAttendee("ada@example.com")
	rec = h.do(http.MethodGet, "/metrics", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_signups_total{kind="attendee",outcome="created"} 1`)
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	h := newHarness(t, "")
	for _, path := range []string{"/registration/v1/list", "/guest/v1/list", "/dayof/v1/sign-in", "/email_list/v1/subscriptions"} {
		rec := h.do(http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := h.do(http.MethodPost, "/guest/v1/signup", map[string]any{"name": "S", "email": "s@example.com", "kind": "sponsor"}, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "guest signup is organiser-only")
}

func TestSignupVerifyModifyHistory(t *testing.T) {
	h := newHarness(t, "https://losaltoshacks.com/confirmed")
	id := h.signupAttendee("ada@example.com")

	rec := h.do(http.MethodPost, "/registration/v1/signup", attendeeBody("ada@example.com"), false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Attendee already added (by email)", decode[map[string]string](t, rec)["message"])

	rec = h.do(http.MethodGet, fmt.Sprintf("/registration/v1/verify/%s/wrong", id), nil, false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = h.do(http.MethodGet, fmt.Sprintf("/registration/v1/verify/%s/%s", id, h.notifier.last.Token), nil, false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://losaltoshacks.com/confirmed", rec.Header().Get("Location"))

	rec = h.do(http.MethodPost, "/registration/v1/modify/"+id, map[string]any{"school": "MVHS"}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, rec))

	rec = h.do(http.MethodPost, "/registration/v1/modify/"+id, map[string]any{"school": "MVHS"}, true)
	assert.Equal(t, "unchanged", decode[map[string]string](t, rec)["message"])

	rec = h.do(http.MethodPost, "/registration/v1/modify/"+id, map[string]any{"guardian_name": ""}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "guardian_info_required", decode[map[string]string](t, rec)["code"])

	rec = h.do(http.MethodGet, "/registration/v1/history/"+id, nil, true)
	history := decode[[]map[string]any](t, rec)
	require.Len(t, history, 2)
	assert.Equal(t, true, history[0]["outdated"])
	assert.Equal(t, "MVHS", history[1]["school"])
	assert.Equal(t, true, history[1]["email_verified"])
	assert.NotContains(t, rec.Body.String(), "email_token")

	rec = h.do(http.MethodGet, "/registration/v1/history/not-a-uuid", nil, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Attendee does not exist", decode[map[string]string](t, rec)["message"])
}

func TestSignupValidation(t *testing.T) {
	h := newHarness(t, "")
	body := attendeeBody("bad-email")
	rec := h.do(http.MethodPost, "/registration/v1/signup", body, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decode[map[string]string](t, rec)["code"])

	body = attendeeBody("kid@example.com")
	delete(body, "guardian_email")
	rec = h.do(http.MethodPost, "/registration/v1/signup", body, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Minors must provide guardian information", decode[map[string]string](t, rec)["message"])
}

func TestPublicSignupCannotSetOrganiserFields(t *testing.T) {
	h := newHarness(t, "")
	body := attendeeBody("ada@example.com")
	body["signed_waiver"] = true
	body["acceptance_status"] = "accepted"
	rec := h.do(http.MethodPost, "/registration/v1/signup", body, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rows := decode[[]map[string]any](t, h.do(http.MethodGet, "/registration/v1/list", nil, true))
	require.Len(t, rows, 1)
	assert.Equal(t, false, rows[0]["signed_waiver"])
	assert.Equal(t, "none", rows[0]["acceptance_status"])

	mentor := map[string]any{
		"name":              "Linus",
		"phone":             "650-555-0110",
		"email":             "linus@example.com",
		"over_18":           true,
		"tshirt_size":       "L",
		"signed_waiver":     true,
		"acceptance_status": "queue",
	}
	rec = h.do(http.MethodPost, "/mentor/v1/signup", mentor, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rows = decode[[]map[string]any](t, h.do(http.MethodGet, "/mentor/v1/list", nil, true))
	require.Len(t, rows, 1)
	assert.Equal(t, false, rows[0]["signed_waiver"])
	assert.Equal(t, "none", rows[0]["acceptance_status"])
	assert.Nil(t, rows[0]["skillset"], "skillset is optional")
}

func TestSearch(t *testing.T) {
	h := newHarness(t, "")
	id := h.signupAttendee("ada@example.com")
	h.signupAttendee("bob@example.com")
	rec := h.do(http.MethodPost, "/registration/v1/modify/"+id, map[string]any{"grade": 12}, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rows := decode[[]map[string]any](t, h.do(http.MethodPost, "/registration/v1/search", map[string]any{"query": "ADA@"}, true))
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0]["id"])

	rows = decode[[]map[string]any](t, h.do(http.MethodPost, "/registration/v1/search",
		map[string]any{"query": map[string]any{"id": id, "outdated": "*"}}, true))
	assert.Len(t, rows, 2)

	rows = decode[[]map[string]any](t, h.do(http.MethodPost, "/registration/v1/search",
		map[string]any{"query": map[string]any{"grade": 11}}, true))
	require.Len(t, rows, 1)
	assert.Equal(t, "bob@example.com", rows[0]["email"])

	rec = h.do(http.MethodPost, "/registration/v1/search", map[string]any{"query": 5}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = h.do(http.MethodPost, "/registration/v1/search", map[string]any{}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteThenList(t *testing.T) {
	h := newHarness(t, "")
	rec := h.do(http.MethodPost, "/guest/v1/signup", map[string]any{"name": "Sam", "email": "sam@example.com", "kind": "judge"}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rows := decode[[]map[string]any](t, h.do(http.MethodGet, "/guest/v1/list", nil, true))
	require.Len(t, rows, 1)
	id := rows[0]["id"].(string)

	rec = h.do(http.MethodGet, "/guest/v1/delete/"+id, nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	rows = decode[[]map[string]any](t, h.do(http.MethodGet, "/guest/v1/list", nil, true))
	assert.Empty(t, rows)
	rec = h.do(http.MethodGet, "/guest/v1/delete/"+id, nil, true)
	assert.Equal(t, "Guest does not exist", decode[map[string]string](t, rec)["message"])
}

func TestDayOfFlow(t *testing.T) {
	h := newHarness(t, "")
	id := h.signupAttendee("ada@example.com")

	rec := h.do(http.MethodPost, "/dayof/v1/sign-in", map[string]any{"user_id": id, "badge_data": "X"}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	meal := map[string]any{"badge_data": "X", "meal_number": 1, "allowed_servings": 1}
	rec = h.do(http.MethodPost, "/dayof/v1/meal", meal, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Servings received incremented", decode[map[string]string](t, rec)["message"])
	rec = h.do(http.MethodPost, "/dayof/v1/meal", meal, true)
	assert.Equal(t, "meal_limit_exceeded", decode[map[string]string](t, rec)["code"])

	counts := decode[map[string]int](t, h.do(http.MethodGet, "/dayof/v1/sign-in", nil, true))
	assert.Equal(t, map[string]int{"attendee": 1, "mentor": 0, "guest": 0, "chaperone": 0}, counts)

	rec = h.do(http.MethodPost, "/dayof/v1/sign-out", map[string]any{"badge_data": "X"}, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(http.MethodPost, "/dayof/v1/sign-out", map[string]any{"badge_data": "X"}, true)
	assert.Equal(t, "User already signed out", decode[map[string]string](t, rec)["message"])
}

func TestWaiverCallback(t *testing.T) {
	h := newHarness(t, "")
	h.signupAttendee("kid@example.com")

	xml := `<DocuSignEnvelopeInformation xmlns="http://www.docusign.net/API/3.0"><EnvelopeStatus>` +
		`<RecipientStatuses><RecipientStatus><Email>kid@example.com</Email></RecipientStatus>` +
		`<RecipientStatus><Email>grace@example.com</Email></RecipientStatus></RecipientStatuses>` +
		`</EnvelopeStatus></DocuSignEnvelopeInformation>`

	post := func(body string, user, pass string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/waiver/v1/sign", strings.NewReader(body))
		req.Header.Set("Content-Type", "text/xml")
		if user != "" {
			req.SetBasicAuth(user, pass)
		}
		rec := httptest.NewRecorder()
		h.router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, post(xml, "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, post(xml, "docusign", "nope").Code)

	rec := post("<nope/>", "docusign", "pw")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad xml", decode[map[string]string](t, rec)["message"])

	rec = post(xml, "docusign", "pw")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rows := decode[[]map[string]any](t, h.do(http.MethodGet, "/registration/v1/list", nil, true))
	require.Len(t, rows, 1)
	assert.Equal(t, true, rows[0]["signed_waiver"])

	receipts := decode[[]map[string]any](t, h.do(http.MethodGet, "/waiver/v1/receipts?email=kid@example.com", nil, true))
	require.Len(t, receipts, 1)
	assert.Equal(t, "grace@example.com", receipts[0]["guardian_email"])
}

func TestEmailListAndDiscord(t *testing.T) {
	h := newHarness(t, "")
	for i := 0; i < 2; i++ {
		rec := h.do(http.MethodPost, "/email_list/v1/subscribe", map[string]any{"email": "fan@example.com"}, false)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	emails := decode[[]string](t, h.do(http.MethodGet, "/email_list/v1/subscriptions", nil, true))
	assert.Equal(t, []string{"fan@example.com"}, emails)

	rec := h.do(http.MethodPost, "/registration/v1/discord-verify", map[string]any{"email": "ghost@example.com"}, true)
	assert.Equal(t, "Email not found in database", decode[map[string]string](t, rec)["message"])

	rec = h.do(http.MethodPost, "/chaperone/v1/signup",
		map[string]any{"name": "Casey", "email": "casey@example.com", "kind": "chaperone"}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	role := decode[map[string]string](t, h.do(http.MethodPost, "/registration/v1/discord-verify", map[string]any{"email": "casey@example.com"}, true))
	assert.Equal(t, map[string]string{"role": "chaperone", "name": "Casey"}, role)
}
