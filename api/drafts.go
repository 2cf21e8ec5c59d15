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
	"github.com/jerry-enebeli/paydocs/model"

	"github.com/gin-gonic/gin"
)

func (a Api) CreateDraft(c *gin.Context) {
	var req model2.CreateDraft
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateCreateDraft(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	account, err := req.Account.ToAccountDetails()
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := a.paydocs.CreateDraft(c.Request.Context(), account, req.InitialBalance)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetDraft(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.paydocs.GetDraft(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) DeleteDraft(c *gin.Context) {
	id := c.Param("id")
	if err := a.paydocs.DeleteDraft(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (a Api) UpdateDraftAccount(c *gin.Context) {
	var req model2.Account
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateAccount(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	account, err := req.ToAccountDetails()
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := a.paydocs.UpdateDraftAccount(c.Request.Context(), c.Param("id"), account)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) SetDraftInitialBalance(c *gin.Context) {
	var req model2.SetInitialBalance
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateSetInitialBalance(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.paydocs.SetDraftInitialBalance(c.Request.Context(), c.Param("id"), *req.InitialBalance)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AddDraftTransaction accepts either a signed amount or the amount_in/amount_out pair.
func (a Api) AddDraftTransaction(c *gin.Context) {
	var entry model.TransactionEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.paydocs.AddDraftTransaction(c.Request.Context(), c.Param("id"), entry)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) RemoveDraftTransaction(c *gin.Context) {
	resp, err := a.paydocs.RemoveDraftTransaction(c.Request.Context(), c.Param("id"), c.Param("txn_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateDraftStatement renders the draft and streams the file back.
func (a Api) GenerateDraftStatement(c *gin.Context) {
	var req model2.GenerateDraftStatement
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
			return
		}
	}
	if err := req.ValidateGenerateDraftStatement(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	var override *model.AccountDetails
	if req.Account != nil {
		account, err := req.Account.ToAccountDetails()
		if err != nil {
			respondError(c, err)
			return
		}
		override = &account
	}

	resp, err := a.paydocs.GenerateDraftStatement(c.Request.Context(), c.Param("id"), override)
	if err != nil {
		respondError(c, err)
		return
	}

	respondDocument(c, resp.Statement.StatementID, resp.Document)
}
