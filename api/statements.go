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
	"net/http"

	model2 "github.com/jerry-enebeli/paydocs/api/model"

	"github.com/gin-gonic/gin"
)

func (a Api) GenerateStatement(c *gin.Context) {
	var req model2.GenerateStatement
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateGenerateStatement(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	account, err := req.Account.ToAccountDetails()
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := a.paydocs.GenerateStatement(c.Request.Context(), account, req.InitialBalance, req.Transactions)
	if err != nil {
		respondError(c, err)
		return
	}

	respondDocument(c, resp.Statement.StatementID, resp.Document)
}

func (a Api) GetStatement(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.paydocs.GetStatement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetRecentStatements(c *gin.Context) {
	var query model2.RecentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := query.ValidateRecentQuery(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.paydocs.GetRecentStatements(c.Request.Context(), query.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
