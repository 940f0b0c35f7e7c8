package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/backend/core/tutor"
)

func Test_tutorApi_query(t *testing.T) {
	app := setupApp(t)
	parentToken := app.token(t, app.parent)

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodGet, path: "/v1/tutors",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "all tutors", method: http.MethodGet, path: "/v1/tutors",
			token: parentToken, wantCode: http.StatusOK,
		},
		{
			name: "filter by subject", method: http.MethodGet, path: "/v1/tutors?subject=math",
			token: parentToken, wantCode: http.StatusOK,
		},
		{
			name: "filter with no match", method: http.MethodGet, path: "/v1/tutors?subject=chemistry",
			token: parentToken, wantCode: http.StatusOK, wantData: []byte(`[]`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK && tt.wantData == nil {
				var tutors []tutor.Tutor
				if err := json.Unmarshal(rec.Body.Bytes(), &tutors); err != nil {
					t.Fatalf("unmarshalling tutors failed: %v", err)
				}
				if assert.Len(t, tutors, 1) {
					assert.Equal(t, app.tut.ID, tutors[0].ID)
				}
			}
		})
	}
}

func Test_tutorApi_retrieve(t *testing.T) {
	app := setupApp(t)
	parentToken := app.token(t, app.parent)

	req, rec := newAuthRequest(http.MethodGet, "/v1/tutors/"+app.tut.ID, parentToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var tut tutor.Tutor
	if err := json.Unmarshal(rec.Body.Bytes(), &tut); err != nil {
		t.Fatalf("unmarshalling tutor failed: %v", err)
	}
	assert.Equal(t, "Math made friendly", tut.Headline)

	req, rec = newAuthRequest(http.MethodGet, "/v1/tutors/nope", parentToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_tutorApi_availability(t *testing.T) {
	app := setupApp(t)
	parentToken := app.token(t, app.parent)

	tests := []httpTest{
		{
			name: "full table", method: http.MethodGet,
			path:  fmt.Sprintf("/v1/tutors/%s/availability", app.tut.ID),
			token: parentToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string][]string{"monday": {"15:00", "16:00"}}),
		},
		{
			name: "one day", method: http.MethodGet,
			path:  fmt.Sprintf("/v1/tutors/%s/availability/monday", app.tut.ID),
			token: parentToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, SlotsResponse{Day: "monday", Slots: []string{"15:00", "16:00"}}),
		},
		{
			name: "unset day is empty", method: http.MethodGet,
			path:  fmt.Sprintf("/v1/tutors/%s/availability/friday", app.tut.ID),
			token: parentToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, SlotsResponse{Day: "friday", Slots: []string{}}),
		},
		{
			name: "unknown weekday", method: http.MethodGet,
			path:  fmt.Sprintf("/v1/tutors/%s/availability/moonday", app.tut.ID),
			token: parentToken, wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_tutorApi_setSlots(t *testing.T) {
	app := setupApp(t)
	parentToken := app.token(t, app.parent)
	tutorToken := app.token(t, app.tutorUsr)

	body := marchallObj(t, tutor.SlotUpdate{Slots: []string{"10:00", "09:00", "10:00"}})

	// parents may not edit availability
	req, rec := newAuthRequest(http.MethodPut, "/v1/tutors/me/availability/tuesday", parentToken, body)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// stored slots come back deduplicated and sorted
	tt := httpTest{
		name: "replace day", method: http.MethodPut, path: "/v1/tutors/me/availability/tuesday",
		body: body, token: tutorToken, wantCode: http.StatusOK,
		wantData: marchallObj(t, SlotsResponse{Day: "tuesday", Slots: []string{"09:00", "10:00"}}),
	}
	req, rec = newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)

	// malformed times are rejected
	badBody := marchallObj(t, tutor.SlotUpdate{Slots: []string{"25:00"}})
	req, rec = newAuthRequest(http.MethodPut, "/v1/tutors/me/availability/tuesday", tutorToken, badBody)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req, rec = newAuthRequest(http.MethodPut, "/v1/tutors/me/availability/moonday", tutorToken, body)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_tutorApi_updateMe(t *testing.T) {
	app := setupApp(t)
	tutorToken := app.token(t, app.tutorUsr)

	rate := 55.0
	body := marchallObj(t, tutor.UpdateTutor{Headline: "Calculus specialist", HourlyRate: &rate})
	req, rec := newAuthRequest(http.MethodPut, "/v1/tutors/me", tutorToken, body)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var tut tutor.Tutor
	if err := json.Unmarshal(rec.Body.Bytes(), &tut); err != nil {
		t.Fatalf("unmarshalling tutor failed: %v", err)
	}
	assert.Equal(t, "Calculus specialist", tut.Headline)
	assert.Equal(t, 55.0, tut.HourlyRate)
	// unset fields keep their values
	assert.Equal(t, []string{"Math", "Physics"}, tut.Subjects)
}
