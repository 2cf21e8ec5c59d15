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

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jerry-enebeli/paydocs/ledger"
	"github.com/jerry-enebeli/paydocs/model"
	"github.com/spf13/cobra"
)

type ledgerInput struct {
	InitialBalance model.Amount             `json:"initial_balance"`
	Transactions   []model.TransactionEntry `json:"transactions"`
}

type ledgerOutput struct {
	model.Ledger
	ClosingBalance model.Amount  `json:"closing_balance"`
	Summary        model.Summary `json:"summary"`
}

func ledgerCommands() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "offline ledger tools",
		// no configuration is needed to compute a ledger
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	cmd.AddCommand(ledgerComputeCommand())
	return cmd
}

func ledgerComputeCommand() *cobra.Command {
	var file, scheme string

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "compute a balance-annotated ledger from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return computeLedger(in, cmd.OutOrStdout(), scheme)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON file with initial_balance and transactions, - for stdin")
	cmd.Flags().StringVar(&scheme, "id-scheme", "", "transaction id scheme: timestamp or uuid")

	return cmd
}

func computeLedger(r io.Reader, w io.Writer, scheme string) error {
	var input ledgerInput
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return fmt.Errorf("error reading ledger input: %w", err)
	}

	ids, err := ledger.NewIDGenerator(scheme)
	if err != nil {
		return err
	}

	computed, err := ledger.NewCalculator(ids).AddTransactions(ledger.Empty(input.InitialBalance), input.Transactions)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ledgerOutput{
		Ledger:         computed,
		ClosingBalance: computed.ClosingBalance(),
		Summary:        computed.Summary(),
	})
}
