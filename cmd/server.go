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
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caddyserver/certmagic"
	"github.com/gin-gonic/gin"
	"github.com/jerry-enebeli/paydocs"
	"github.com/jerry-enebeli/paydocs/api"
	"github.com/jerry-enebeli/paydocs/config"
	"github.com/jerry-enebeli/paydocs/internal/notification"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	certStoragePath = "./certmagic"
	shutdownTimeout = 10 * time.Second
)

// serveTLS starts an HTTPS server with certificates managed by CertMagic.
// Without a configured domain the certificate is issued for localhost.
func serveTLS(ctx context.Context, r *gin.Engine, conf config.ServerConfig) error {
	certmagic.DefaultACME.Agreed = true
	certmagic.DefaultACME.Email = conf.Email
	cfg := certmagic.NewDefault()
	cfg.Storage = &certmagic.FileStorage{Path: certStoragePath}

	domains := []string{conf.Domain}
	if conf.Domain == "" {
		log.Println("No domain specified, defaulting to localhost")
		domains = []string{"localhost"}
	}

	if err := cfg.ManageSync(ctx, domains); err != nil {
		return err
	}

	server := &http.Server{
		Addr:      ":" + conf.Port,
		Handler:   r,
		TLSConfig: cfg.TLSConfig(),
	}

	logrus.Infof("Starting HTTPS server on %s", conf.Port)
	return run(ctx, server, func() error { return server.ListenAndServeTLS("", "") })
}

func serve(ctx context.Context, r *gin.Engine, conf config.ServerConfig) error {
	server := &http.Server{
		Addr:              ":" + conf.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logrus.Infof("Starting server on http://localhost:%s", conf.Port)
	return run(ctx, server, server.ListenAndServe)
}

// run blocks until listen fails or ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, server *http.Server, listen func() error) error {
	errCh := make(chan error, 1)
	go func() {
		if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logrus.Info("shutting down server")
	return server.Shutdown(shutdownCtx)
}

func initializeRouter(cfg *config.Configuration) (*gin.Engine, error) {
	service, err := paydocs.NewPaydocs(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating paydocs: %v", err)
	}

	a := api.NewAPI(service)
	if a == nil {
		return nil, errors.New("error creating api: config not loaded")
	}
	return a.Router(), nil
}

func serverCommands(p *paydocsInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start paydocs server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			router, err := initializeRouter(p.cnf)
			if err != nil {
				notification.NotifyError(err)
				return err
			}

			if p.cnf.Server.SSL {
				return serveTLS(ctx, router, p.cnf.Server)
			}
			return serve(ctx, router, p.cnf.Server)
		},
	}

	return cmd
}
