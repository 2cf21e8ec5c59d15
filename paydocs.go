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
	"embed"
	"fmt"
	"time"

	"github.com/jerry-enebeli/paydocs/config"
	"github.com/jerry-enebeli/paydocs/database"
	"github.com/jerry-enebeli/paydocs/internal/cache"
	"github.com/jerry-enebeli/paydocs/internal/docgen"
	redis_db "github.com/jerry-enebeli/paydocs/internal/redis-db"
	"github.com/jerry-enebeli/paydocs/ledger"
	"github.com/redis/go-redis/v9"
)

const (
	draftCachePrefix     = "paydocs:drafts:"
	statementCachePrefix = "paydocs:statements:"
	recordLocalCacheSize = 10000
)

//go:embed sql/*.sql
var SQLFiles embed.FS

// Paydocs computes statement ledgers and payslips, keeps statement drafts and
// hands finished documents to the document service.
type Paydocs struct {
	datasource  database.IDataSource
	redis       redis.UniversalClient
	drafts      cache.Cache
	renderer    docgen.Renderer
	calculator  *ledger.Calculator
	companyName string
	draftTTL    time.Duration
	lockTTL     time.Duration
	lockWait    time.Duration
	now         func() time.Time
}

// NewPaydocs connects redis and postgres from the loaded configuration and wires the service.
func NewPaydocs(configuration *config.Configuration) (*Paydocs, error) {
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)}, configuration.Redis.SkipTLSVerify)
	if err != nil {
		return nil, err
	}
	db, err := database.NewDataSource(configuration, NewRecordCache(redisClient.Client()))
	if err != nil {
		return nil, err
	}
	return New(configuration, db, redisClient.Client(), docgen.NewClient(configuration.DocumentService))
}

// New builds the service from explicit dependencies.
func New(cnf *config.Configuration, db database.IDataSource, redisClient redis.UniversalClient, renderer docgen.Renderer) (*Paydocs, error) {
	ids, err := ledger.NewIDGenerator(cnf.Drafts.IDScheme)
	if err != nil {
		return nil, err
	}

	lockTTL := time.Duration(cnf.Drafts.LockTimeoutMs) * time.Millisecond
	if lockTTL <= 0 {
		lockTTL = time.Duration(config.DEFAULT_DRAFT_LOCK_TIMEOUT) * time.Millisecond
	}
	draftTTL := time.Duration(cnf.Drafts.TTLSeconds) * time.Second
	if draftTTL <= 0 {
		draftTTL = time.Duration(config.DEFAULT_DRAFT_TTL) * time.Second
	}

	return &Paydocs{
		datasource:  db,
		redis:       redisClient,
		drafts:      cache.NewRedisCache(redisClient, cache.Options{Prefix: draftCachePrefix}),
		renderer:    renderer,
		calculator:  ledger.NewCalculator(ids),
		companyName: cnf.CompanyName,
		draftTTL:    draftTTL,
		lockTTL:     lockTTL,
		lockWait:    lockTTL,
		now:         time.Now,
	}, nil
}

// NewRecordCache is the read-through cache for archived records. Records are
// immutable, so an in-process TinyLFU layer is safe here.
func NewRecordCache(redisClient redis.UniversalClient) cache.Cache {
	return cache.NewRedisCache(redisClient, cache.Options{
		Prefix:    statementCachePrefix,
		LocalSize: recordLocalCacheSize,
		LocalTTL:  time.Minute,
	})
}
