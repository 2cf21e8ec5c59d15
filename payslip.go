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

package paydocs

import (
	"context"

	"github.com/jerry-enebeli/paydocs/internal/notification"
	"github.com/jerry-enebeli/paydocs/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type GeneratedPayslip struct {
	Payslip  model.PayslipDocument
	Document model.Document
}

// ComputePayslip validates slip and returns its totals.
func (p *Paydocs) ComputePayslip(slip model.Payslip) (model.PayslipTotals, error) {
	slip.ApplyDefaults()
	if err := slip.Validate(); err != nil {
		return model.PayslipTotals{}, err
	}
	return slip.Totals(), nil
}

// GeneratePayslip renders slip through the document service and archives it.
// An empty companyName falls back to the configured company.
func (p *Paydocs) GeneratePayslip(ctx context.Context, companyName string, slip model.Payslip) (*GeneratedPayslip, error) {
	slip.ApplyDefaults()
	if err := slip.Validate(); err != nil {
		return nil, err
	}
	if companyName == "" {
		companyName = p.companyName
	}

	doc := model.PayslipDocument{
		PayslipID:   model.GenerateUUIDWithSuffix("payslip"),
		CompanyName: companyName,
		Payslip:     slip,
		Totals:      slip.Totals(),
		GeneratedAt: p.now().UTC(),
	}

	rendered, err := p.renderer.RenderPayslip(ctx, doc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to render payslip %s", doc.PayslipID)
	}

	if err := p.datasource.RecordPayslip(ctx, doc.ToRecord()); err != nil {
		notification.NotifyError(errors.Wrapf(err, "failed to archive payslip %s", doc.PayslipID))
	}

	logrus.WithFields(logrus.Fields{
		"payslip_id":  doc.PayslipID,
		"employee_id": slip.EmployeeID,
		"period":      slip.Period,
	}).Info("payslip generated")
	return &GeneratedPayslip{Payslip: doc, Document: rendered}, nil
}

func (p *Paydocs) GetRecentPayslips(ctx context.Context, limit int) ([]model.PayslipRecord, error) {
	return p.datasource.GetRecentPayslips(ctx, limit)
}
