/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/jerry-enebeli/paydocs"
	model2 "github.com/jerry-enebeli/paydocs/api/model"
	"github.com/jerry-enebeli/paydocs/config"
	"github.com/jerry-enebeli/paydocs/database/mocks"
	"github.com/jerry-enebeli/paydocs/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	if s.Response == nil || resp.Body.Len() == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(resp.Body.Bytes(), s.Response); err != nil {
		return nil, err
	}
	return resp, nil
}

type testServer struct {
	router     *gin.Engine
	datasource *mocks.MockDataSource
	renderer   *paydocs.MockRenderer
}

func setupRouter(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cnf := &config.Configuration{
		ProjectName: "Paydocs Server",
		CompanyName: "Acme Ltd",
		Drafts:      config.DraftConfig{TTLSeconds: 3600, LockTimeoutMs: 2000},
	}
	config.MockConfig(cnf)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ds := &mocks.MockDataSource{}
	renderer := &paydocs.MockRenderer{}
	p, err := paydocs.New(cnf, ds, client, renderer)
	require.NoError(t, err)

	api := NewAPI(p)
	require.NotNil(t, api)
	return &testServer{router: api.Router(), datasource: ds, renderer: renderer}
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(payload)
}

func amountOf(t *testing.T, v string) *model.Amount {
	t.Helper()
	a, err := model.ParseAmount(v)
	require.NoError(t, err)
	return &a
}

func fakeAccount() model2.Account {
	return model2.Account{
		AccountHolder: gofakeit.Name(),
		AccountNumber: gofakeit.Numerify("##########"),
		BankName:      gofakeit.Company(),
		Currency:      "USD",
	}
}

func TestHealth(t *testing.T) {
	s := setupRouter(t)
	var response string
	resp, err := SetUpTestRequest(TestRequest{Router: s.router, Method: http.MethodGet, Route: "/", Response: &response})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "server running...", response)
}
