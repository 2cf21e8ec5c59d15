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
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jerry-enebeli/paydocs"
	"github.com/jerry-enebeli/paydocs/api/middleware"
	"github.com/jerry-enebeli/paydocs/config"
	"github.com/jerry-enebeli/paydocs/internal/apierror"
	"github.com/jerry-enebeli/paydocs/internal/notification"
	"github.com/jerry-enebeli/paydocs/model"
)

type Api struct {
	paydocs *paydocs.Paydocs
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	router.POST("/ledgers/compute", a.ComputeLedger)

	router.POST("/statements/drafts", a.CreateDraft)
	router.GET("/statements/drafts/:id", a.GetDraft)
	router.DELETE("/statements/drafts/:id", a.DeleteDraft)
	router.PUT("/statements/drafts/:id/account", a.UpdateDraftAccount)
	router.PUT("/statements/drafts/:id/initial-balance", a.SetDraftInitialBalance)
	router.POST("/statements/drafts/:id/transactions", a.AddDraftTransaction)
	router.DELETE("/statements/drafts/:id/transactions/:txn_id", a.RemoveDraftTransaction)
	router.POST("/statements/drafts/:id/generate", a.GenerateDraftStatement)

	router.POST("/statements/generate", a.GenerateStatement)
	router.GET("/statements/recent", a.GetRecentStatements)
	router.GET("/statements/:id", a.GetStatement)

	router.POST("/payslips/compute", a.ComputePayslip)
	router.POST("/payslips/generate", a.GeneratePayslip)
	router.GET("/payslips/recent", a.GetRecentPayslips)

	return a.router
}

func NewAPI(p *paydocs.Paydocs) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{paydocs: p, router: r}
}

// respondError writes err as an APIError with the matching status code.
// Server side failures are also reported through the notifier.
func respondError(c *gin.Context, err error) {
	apiErr := apierror.FromError(err)
	status := apierror.MapErrorToHTTPStatus(apiErr)
	if status >= http.StatusInternalServerError {
		notification.NotifyError(err)
	}
	c.AbortWithStatusJSON(status, apiErr)
}

func respondDocument(c *gin.Context, id string, doc model.Document) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Header("X-Document-Id", id)
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}
