package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/tutorhub/backend/core"
)

// apiClient is a thin HTTP client for the API's admin endpoints.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newApiClient(conf *core.Config, baseURL, token string) *apiClient {
	if baseURL == "" {
		baseURL = "http://" + conf.Server.Host
	}
	return &apiClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) do(method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return errors.Wrap(err, "encoding request body")
		}
	}

	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "calling API")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := ioutil.ReadAll(resp.Body)
		return errors.Errorf("%s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(data))
	}
	if out != nil {
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "decoding response body")
		}
	}
	return nil
}

// Commands

func (cli *commandLine) login(email, pwd string) error {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": core.CleanString(email, true /* lower */), "password": pwd}
	if err := cli.client.do(http.MethodPost, "/v1/users/login", body, &resp); err != nil {
		return err
	}
	fmt.Println(resp.Token)
	return nil
}

func (cli *commandLine) addUser(name, email, role, pwd string) error {
	body := map[string]string{
		"name":             name,
		"email":            core.CleanString(email, true /* lower */),
		"role":             core.CleanString(role, true /* lower */),
		"password":         pwd,
		"password_confirm": pwd,
	}
	var usr map[string]interface{}
	if err := cli.client.do(http.MethodPost, "/v1/users", body, &usr); err != nil {
		return err
	}
	fmt.Printf("created user %v (%v)\n", usr["id"], usr["email"])
	return nil
}

func (cli *commandLine) setActive(id string, active bool) error {
	body := map[string]interface{}{"is_active": active}
	if err := cli.client.do(http.MethodPut, "/v1/users/"+id, body, nil); err != nil {
		return err
	}
	if active {
		fmt.Printf("user %s activated\n", id)
	} else {
		fmt.Printf("user %s deactivated\n", id)
	}
	return nil
}
