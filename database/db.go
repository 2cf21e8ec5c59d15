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

package database

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/jerry-enebeli/paydocs/config"
	"github.com/jerry-enebeli/paydocs/internal/cache"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	// DefaultRecentLimit matches the size of the "recent documents" panels.
	DefaultRecentLimit = 5
	MaxRecentLimit     = 100

	recordCacheTTL = time.Hour
)

var instance *Datasource
var once sync.Once

// Datasource is the postgres archive of generated statements and payslips.
// Cache, when set, holds archived records by id; records never change once written.
type Datasource struct {
	Conn  *sql.DB
	Cache cache.Cache
}

func NewDataSource(configuration *config.Configuration, recordCache cache.Cache) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	con.Cache = recordCache
	return con, nil
}

// GetDBConnection opens the shared connection pool once per process.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		once = sync.Once{}
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		log.Printf("database Connection error ❌: %v", err)
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to reach database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		return MaxRecentLimit
	}
	return limit
}
