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
	"fmt"
	"os"

	"github.com/jerry-enebeli/paydocs/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Paydocs represents the CLI application, encapsulating the root Cobra command.
type Paydocs struct {
	cmd *cobra.Command
}

// paydocsInstance carries the loaded configuration between the root command and its subcommands.
type paydocsInstance struct {
	configFile string
	cnf        *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration file before any command that needs it.
func preRun(app *paydocsInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(app.configFile); err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}
		app.cnf = cnf
		return nil
	}
}

func NewCLI() *Paydocs {
	p := &paydocsInstance{}

	rootCmd := &cobra.Command{
		Use:          "paydocs",
		Short:        "Bank statement and payslip document service",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&p.configFile, "config", "./paydocs.json", "Configuration file for paydocs")
	rootCmd.PersistentPreRunE = preRun(p)

	rootCmd.AddCommand(serverCommands(p))
	rootCmd.AddCommand(migrateCommands(p))
	rootCmd.AddCommand(configCommands(p))
	rootCmd.AddCommand(ledgerCommands())

	return &Paydocs{cmd: rootCmd}
}

func (p Paydocs) executeCLI() {
	if err := p.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
