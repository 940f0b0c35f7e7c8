package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/backend/core/booking"
)

func newBookingBody(app *testApp, mutate ...func(m map[string]interface{})) []byte {
	m := map[string]interface{}{
		"tutor_id": app.tut.ID,
		"child_id": app.chd.ID,
		"subject":  "Math",
		"date":     "2026-03-02",
		"time":     "15:00",
		"duration": 60,
	}
	for _, fn := range mutate {
		fn(m)
	}
	data, _ := json.Marshal(m)
	return data
}

func Test_bookingApi_create(t *testing.T) {
	app := setupApp(t)
	parentToken := app.token(t, app.parent)
	tutorToken := app.token(t, app.tutorUsr)

	tests := []httpTest{
		{
			name: "anonymous is rejected", method: http.MethodPost, path: "/v1/bookings",
			body: newBookingBody(app), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "tutors cannot book", method: http.MethodPost, path: "/v1/bookings",
			body: newBookingBody(app), token: tutorToken, wantCode: http.StatusForbidden,
		},
		{
			name: "missing fields", method: http.MethodPost, path: "/v1/bookings",
			body: []byte(`{}`), token: parentToken, wantCode: http.StatusBadRequest,
		},
		{
			name: "bad date format", method: http.MethodPost, path: "/v1/bookings",
			body:  newBookingBody(app, func(m map[string]interface{}) { m["date"] = "02/03/2026" }),
			token: parentToken, wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown tutor", method: http.MethodPost, path: "/v1/bookings",
			body:  newBookingBody(app, func(m map[string]interface{}) { m["tutor_id"] = "nope" }),
			token: parentToken, wantCode: http.StatusNotFound,
		},
		{
			name: "subject not offered", method: http.MethodPost, path: "/v1/bookings",
			body:     newBookingBody(app, func(m map[string]interface{}) { m["subject"] = "Chemistry" }),
			token:    parentToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: booking.ErrSubjectNotOffered.Error()}),
		},
		{
			name: "disallowed duration", method: http.MethodPost, path: "/v1/bookings",
			body:     newBookingBody(app, func(m map[string]interface{}) { m["duration"] = 45 }),
			token:    parentToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: booking.ErrInvalidDuration.Error()}),
		},
		{
			name: "slot not offered", method: http.MethodPost, path: "/v1/bookings",
			body:     newBookingBody(app, func(m map[string]interface{}) { m["time"] = "09:00" }),
			token:    parentToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: booking.ErrSlotUnavailable.Error()}),
		},
		{
			name: "past date", method: http.MethodPost, path: "/v1/bookings",
			body:     newBookingBody(app, func(m map[string]interface{}) { m["date"] = "2026-02-23" }),
			token:    parentToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: booking.ErrDateInPast.Error()}),
		},
		{
			name: "ok", method: http.MethodPost, path: "/v1/bookings",
			body: newBookingBody(app), token: parentToken, wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var b booking.Booking
				if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
					t.Fatalf("unmarshalling response failed: %v", err)
				}
				assert.Equal(t, booking.StatusPending, b.Status)
				assert.Equal(t, 40.0, b.Price)
				assert.Equal(t, app.parent.ID, b.ParentID)
			}
		})
	}
}

func Test_bookingApi_lifecycle(t *testing.T) {
	app := setupApp(t)
	parentToken := app.token(t, app.parent)
	tutorToken := app.token(t, app.tutorUsr)
	adminToken := app.token(t, app.admin)

	createBooking := func(t *testing.T) booking.Booking {
		req, rec := newAuthRequest(http.MethodPost, "/v1/bookings", parentToken, newBookingBody(app))
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("creating booking failed: %v %s", rec.Code, rec.Body.String())
		}
		var b booking.Booking
		if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
			t.Fatalf("unmarshalling booking failed: %v", err)
		}
		return b
	}

	t.Run("approve then complete", func(t *testing.T) {
		b := createBooking(t)

		// a parent may not approve
		req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/bookings/%s/approve", b.ID), parentToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/bookings/%s/approve", b.ID), tutorToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		// approving twice conflicts
		req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/bookings/%s/approve", b.ID), tutorToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code)

		// completion is admin-only
		req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/bookings/%s/complete", b.ID), tutorToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/bookings/%s/complete", b.ID), adminToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var got booking.Booking
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling booking failed: %v", err)
		}
		assert.Equal(t, booking.StatusCompleted, got.Status)
	})

	t.Run("decline", func(t *testing.T) {
		b := createBooking(t)

		req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/bookings/%s/decline", b.ID), tutorToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var got booking.Booking
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling booking failed: %v", err)
		}
		assert.Equal(t, booking.StatusCancelled, got.Status)
	})

	t.Run("cancel", func(t *testing.T) {
		b := createBooking(t)

		// a tutor may not cancel
		req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/bookings/%s/cancel", b.ID), tutorToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/bookings/%s/cancel", b.ID), parentToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		// terminal bookings conflict
		req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/bookings/%s/cancel", b.ID), parentToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown booking", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/bookings/nope/cancel", parentToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_bookingApi_query(t *testing.T) {
	app := setupApp(t)
	parentToken := app.token(t, app.parent)
	tutorToken := app.token(t, app.tutorUsr)
	adminToken := app.token(t, app.admin)

	// another parent with their own booking
	otherParent := app.createParent(t, "omar@test.local")
	otherToken := app.token(t, otherParent.usr)

	req, rec := newAuthRequest(http.MethodPost, "/v1/bookings", parentToken, newBookingBody(app))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	body := newBookingBody(app, func(m map[string]interface{}) { m["child_id"] = otherParent.chd.ID })
	req, rec = newAuthRequest(http.MethodPost, "/v1/bookings", otherToken, body)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	count := func(t *testing.T, token, path string) int {
		req, rec := newAuthRequest(http.MethodGet, path, token)
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("listing bookings failed: %v %s", rec.Code, rec.Body.String())
		}
		var bookings []booking.Booking
		if err := json.Unmarshal(rec.Body.Bytes(), &bookings); err != nil {
			t.Fatalf("unmarshalling bookings failed: %v", err)
		}
		return len(bookings)
	}

	// parents only see their own bookings
	assert.Equal(t, 1, count(t, parentToken, "/v1/bookings"))
	assert.Equal(t, 1, count(t, otherToken, "/v1/bookings"))
	// scoping beats query params
	assert.Equal(t, 1, count(t, parentToken, "/v1/bookings?parent_id="+otherParent.usr.ID))
	// the tutor sees both, the admin everything
	assert.Equal(t, 2, count(t, tutorToken, "/v1/bookings"))
	assert.Equal(t, 2, count(t, adminToken, "/v1/bookings"))
	assert.Equal(t, 0, count(t, adminToken, "/v1/bookings?status="+booking.StatusConfirmed))
}

func Test_bookingApi_earnings(t *testing.T) {
	app := setupApp(t)
	parentToken := app.token(t, app.parent)
	tutorToken := app.token(t, app.tutorUsr)
	adminToken := app.token(t, app.admin)

	req, rec := newAuthRequest(http.MethodPost, "/v1/bookings", parentToken, newBookingBody(app))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	var b booking.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("unmarshalling booking failed: %v", err)
	}

	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/bookings/%s/approve", b.ID), tutorToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/bookings/%s/complete", b.ID), adminToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	tt := httpTest{
		name: "earnings", method: http.MethodGet, path: "/v1/bookings/earnings", token: tutorToken,
		wantCode: http.StatusOK, wantData: marchallObj(t, booking.Earnings{Total: 40, Sessions: 1}),
	}
	req, rec = newAuthRequest(tt.method, tt.path, tt.token)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)

	// parents have no earnings view
	req, rec = newAuthRequest(http.MethodGet, "/v1/bookings/earnings", parentToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
