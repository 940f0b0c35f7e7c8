package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/backend/core/child"
)

func Test_childApi(t *testing.T) {
	app := setupApp(t)
	parentToken := app.token(t, app.parent)
	tutorToken := app.token(t, app.tutorUsr)
	other := app.createParent(t, "omar@test.local")
	otherToken := app.token(t, other.usr)

	t.Run("create", func(t *testing.T) {
		tests := []httpTest{
			{
				name: "tutors have no children endpoint", method: http.MethodPost, path: "/v1/children",
				body:  marchallObj(t, child.NewChild{Name: "X", Age: 10}),
				token: tutorToken, wantCode: http.StatusForbidden,
			},
			{
				name: "age out of range", method: http.MethodPost, path: "/v1/children",
				body:  marchallObj(t, child.NewChild{Name: "Toddler", Age: 2}),
				token: parentToken, wantCode: http.StatusBadRequest,
			},
			{
				name: "ok", method: http.MethodPost, path: "/v1/children",
				body:  marchallObj(t, child.NewChild{Name: "Sara", Age: 15, Grade: "10th"}),
				token: parentToken, wantCode: http.StatusCreated,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
				app.server.ServeHTTP(rec, req)
				checkCodeAndData(t, tt, rec)
			})
		}
	})

	t.Run("query is scoped to the parent", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/children", parentToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var children []child.Child
		if err := json.Unmarshal(rec.Body.Bytes(), &children); err != nil {
			t.Fatalf("unmarshalling children failed: %v", err)
		}
		assert.Len(t, children, 2) // Eli from the fixtures + Sara

		req, rec = newAuthRequest(http.MethodGet, "/v1/children", otherToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		if err := json.Unmarshal(rec.Body.Bytes(), &children); err != nil {
			t.Fatalf("unmarshalling children failed: %v", err)
		}
		assert.Len(t, children, 1)
	})

	t.Run("another parent's child reads as not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/children/"+other.chd.ID, parentToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("update", func(t *testing.T) {
		age := 13
		body := marchallObj(t, child.UpdateChild{Age: &age, Notes: "Prefers afternoons"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/children/"+app.chd.ID, parentToken, body)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var chd child.Child
		if err := json.Unmarshal(rec.Body.Bytes(), &chd); err != nil {
			t.Fatalf("unmarshalling child failed: %v", err)
		}
		assert.Equal(t, 13, chd.Age)
		assert.Equal(t, "Prefers afternoons", chd.Notes)
		assert.Equal(t, "Eli", chd.Name)
	})
}
