package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_notificationApi(t *testing.T) {
	app := setupApp(t)
	parentToken := app.token(t, app.parent)
	tutorToken := app.token(t, app.tutorUsr)

	feed := func(t *testing.T, token string) NotificationsResponse {
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications", token)
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("fetching notifications failed: %v %s", rec.Code, rec.Body.String())
		}
		var resp NotificationsResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling notifications failed: %v", err)
		}
		return resp
	}

	// empty feed to start with
	resp := feed(t, parentToken)
	assert.Empty(t, resp.Notifications)
	assert.Equal(t, 0, resp.UnreadCount)

	// a booking notifies both parties
	req, rec := newAuthRequest(http.MethodPost, "/v1/bookings", parentToken, newBookingBody(app))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	resp = feed(t, parentToken)
	if assert.Len(t, resp.Notifications, 1) {
		assert.Equal(t, "Booking Confirmed!", resp.Notifications[0].Title)
		assert.False(t, resp.Notifications[0].Read)
	}
	assert.Equal(t, 1, resp.UnreadCount)

	tutResp := feed(t, tutorToken)
	if assert.Len(t, tutResp.Notifications, 1) {
		assert.Equal(t, "New Booking Request", tutResp.Notifications[0].Title)
	}

	// feeds are private
	req, rec = newAuthRequest(http.MethodPost, "/v1/notifications/"+tutResp.Notifications[0].ID+"/read", parentToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, feed(t, tutorToken).UnreadCount) // unchanged

	// mark one read
	req, rec = newAuthRequest(http.MethodPost, "/v1/notifications/"+resp.Notifications[0].ID+"/read", parentToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, feed(t, parentToken).UnreadCount)

	// mark all read
	req, rec = newAuthRequest(http.MethodPost, "/v1/notifications/read", tutorToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, feed(t, tutorToken).UnreadCount)
}
