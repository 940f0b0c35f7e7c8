package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/backend/core"
	"github.com/tutorhub/backend/core/booking"
	"github.com/tutorhub/backend/core/child"
	"github.com/tutorhub/backend/core/tutor"
	"github.com/tutorhub/backend/core/user"
	emailsvc "github.com/tutorhub/backend/services/email"
	notifsvc "github.com/tutorhub/backend/services/notification"
	inmemdb "github.com/tutorhub/backend/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

type testApp struct {
	server Server
	deps   ServerDeps

	tutorUsr user.User
	tut      tutor.Tutor
	parent   user.User
	chd      child.Child
	admin    user.User
}

// "now" is Sunday 2026-03-01; bookings in fixtures target Monday 2026-03-02.
var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setupApp(t *testing.T) *testApp {
	t.Helper()

	prevNow := tutor.NowFunc
	tutor.NowFunc = func() time.Time { return testNow }
	t.Cleanup(func() { tutor.NowFunc = prevNow })

	conf := core.NewTestConfig()
	db := inmemdb.Open()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	notifs := notifsvc.NewMemorySink()

	usrSvc := user.NewService(inmemdb.NewUserRepository(db), mailSvc, conf)
	tutSvc := tutor.NewService(inmemdb.NewTutorRepository(db))
	chdSvc := child.NewService(inmemdb.NewChildRepository(db))
	bkgSvc := booking.NewService(inmemdb.NewBookingRepository(db), tutSvc, chdSvc, usrSvc, notifs, mailSvc, conf)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	tutor.InitValidators(validate, translator)

	deps := ServerDeps{
		Conf:       conf,
		Logger:     testLogger{},
		UserSvc:    usrSvc,
		TutorSvc:   tutSvc,
		ChildSvc:   chdSvc,
		BookingSvc: bkgSvc,
		Notifs:     notifs,
		Validate:   validate,
		Translator: translator,
	}

	app := &testApp{server: NewServer(deps), deps: deps}
	app.seed(t)
	return app
}

func (app *testApp) seed(t *testing.T) {
	t.Helper()
	var err error

	app.tutorUsr, err = app.deps.UserSvc.Create(user.NewUser{
		Name: "Amina Okafor", Email: "amina@test.local", Role: user.RoleTutor,
		Password: "Secret123", PasswordConfirm: "Secret123",
	})
	if err != nil {
		t.Fatalf("seed() failed: %v", err)
	}
	app.tut, err = app.deps.TutorSvc.Create(tutor.NewTutor{
		UserID: app.tutorUsr.ID, Headline: "Math made friendly",
		Subjects: []string{"Math", "Physics"}, HourlyRate: 40,
	})
	if err != nil {
		t.Fatalf("seed() failed: %v", err)
	}
	if _, err = app.deps.TutorSvc.SetSlots(app.tut.ID, "monday", []string{"15:00", "16:00"}); err != nil {
		t.Fatalf("seed() failed: %v", err)
	}

	app.parent, err = app.deps.UserSvc.Create(user.NewUser{
		Name: "Nadia Kasongo", Email: "nadia@test.local", Role: user.RoleParent,
		Password: "Secret123", PasswordConfirm: "Secret123",
	})
	if err != nil {
		t.Fatalf("seed() failed: %v", err)
	}
	app.chd, err = app.deps.ChildSvc.Create(app.parent.ID, child.NewChild{Name: "Eli", Age: 12})
	if err != nil {
		t.Fatalf("seed() failed: %v", err)
	}

	app.admin, err = app.deps.UserSvc.Create(user.NewUser{
		Name: "Root", Email: "root@test.local", Role: user.RoleAdmin,
		Password: "Secret123", PasswordConfirm: "Secret123",
	})
	if err != nil {
		t.Fatalf("seed() failed: %v", err)
	}
}

type parentFixture struct {
	usr user.User
	chd child.Child
}

func (app *testApp) createParent(t *testing.T, email string) parentFixture {
	t.Helper()

	usr, err := app.deps.UserSvc.Create(user.NewUser{
		Name: "Omar Diallo", Email: email, Role: user.RoleParent,
		Password: "Secret123", PasswordConfirm: "Secret123",
	})
	if err != nil {
		t.Fatalf("createParent() failed: %v", err)
	}
	chd, err := app.deps.ChildSvc.Create(usr.ID, child.NewChild{Name: "Aya", Age: 10})
	if err != nil {
		t.Fatalf("createParent() failed: %v", err)
	}
	return parentFixture{usr: usr, chd: chd}
}

func (app *testApp) token(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(app.deps.Conf, GetUserClaims(app.deps.Conf, usr))
	if err != nil {
		t.Fatalf("token() failed: %v", err)
	}
	return token
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// testLogger drops everything; API tests assert on responses, not logs.
type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}
