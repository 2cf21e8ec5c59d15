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

// ComputeLedger returns the balance-annotated ledger for a list of entries
// without storing anything.
func (a Api) ComputeLedger(c *gin.Context) {
	var req model2.ComputeLedger
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := req.ValidateComputeLedger(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.paydocs.ComputeLedger(req.InitialBalance, req.Transactions)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"initial_balance": resp.InitialBalance,
		"closing_balance": resp.ClosingBalance(),
		"summary":         resp.Summary(),
		"lines":           resp.Lines,
	})
}
