// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package osmx provides read-only access to OpenStreetMap elements stored in
// an LMDB environment.
//
// An Environment is opened once per store. Reads happen through a Snapshot,
// a read transaction that sees the store as it was when the snapshot began,
// no matter what writers commit afterwards. Element tables and the location
// index are views bound to one snapshot:
//
//	env, err := osmx.Open("planet.osmx")
//	...
//	defer env.Close()
//
//	err = env.View(func(s *osmx.Snapshot) error {
//		nodes, err := osmx.NewNodes(s)
//		if err != nil {
//			return err
//		}
//		node, ok, err := nodes.Get(100)
//		...
//	})
package osmx

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/bmatsuo/lmdb-go/lmdb"

	"m4o.io/osmx/internal/codec"
	"m4o.io/osmx/model"
)

// Environment is an open store. It is safe for concurrent use; the snapshots
// it hands out are not.
type Environment struct {
	path   string
	logger *slog.Logger
	tables map[string]lmdb.DBI // handles of the tables present in the store

	mu      sync.Mutex
	env     *lmdb.Env
	live    int  // snapshots begun and not yet aborted
	closing bool // Close was called
}

// Open opens the store at path, configured with opts.
func Open(path string, opts ...EnvironmentOption) (*Environment, error) {
	cfg := defaultEnvironmentConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	env, err := lmdb.NewEnv()
	if err != nil {
		return nil, fmt.Errorf("cannot create environment: %w", err)
	}

	if err = configure(env, &cfg); err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("cannot configure environment %s: %w", path, err)
	}

	if err = env.Open(path, cfg.flags(), defaultFileMode); err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("cannot open environment %s: %w", path, err)
	}

	tables, err := openTables(env)
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("cannot open tables of %s: %w", path, err)
	}

	cfg.logger.Debug("opened environment", "path", path, "readOnly", cfg.readOnly, "tables", len(tables))

	return &Environment{
		path:   path,
		logger: cfg.logger,
		tables: tables,
		env:    env,
	}, nil
}

// openTables opens the handle of every table once. LMDB forbids opening
// handles from concurrent transactions, and a handle only outlives the
// transaction that opened it when that transaction commits.
func openTables(env *lmdb.Env) (map[string]lmdb.DBI, error) {
	names := []string{codec.LocationsTable}
	for _, typ := range model.ElementTypes {
		names = append(names, codec.TableName(typ))
	}

	txn, err := env.BeginTxn(nil, lmdb.Readonly)
	if err != nil {
		return nil, err
	}

	tables := make(map[string]lmdb.DBI, len(names))

	for _, name := range names {
		dbi, err := txn.OpenDBI(name, codec.IntegerKey)
		if lmdb.IsNotFound(err) {
			continue
		} else if err != nil {
			txn.Abort()
			return nil, fmt.Errorf("table %s: %w", name, err)
		}

		tables[name] = dbi
	}

	if err = txn.Commit(); err != nil {
		return nil, err
	}

	return tables, nil
}

func configure(env *lmdb.Env, cfg *environmentOptions) error {
	if err := env.SetMaxDBs(cfg.maxDBs); err != nil {
		return fmt.Errorf("max dbs: %w", err)
	}

	if err := env.SetMaxReaders(cfg.maxReaders); err != nil {
		return fmt.Errorf("max readers: %w", err)
	}

	if cfg.mapSize > 0 {
		if err := env.SetMapSize(cfg.mapSize); err != nil {
			return fmt.Errorf("map size: %w", err)
		}
	}

	return nil
}

// Path returns the path the environment was opened with.
func (e *Environment) Path() string {
	return e.path
}

// Begin starts a read-only snapshot. Every Begin must be paired with an
// Abort; see View for a scoped alternative.
func (e *Environment) Begin() (*Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closing {
		return nil, ErrClosed
	}

	txn, err := e.env.BeginTxn(nil, lmdb.Readonly)
	if err != nil {
		return nil, fmt.Errorf("cannot begin snapshot: %w", err)
	}

	// values are only read while the snapshot is live
	txn.RawRead = true

	e.live++

	return &Snapshot{env: e, txn: txn}, nil
}

// View runs fn with a snapshot that is aborted when fn returns, however it
// returns.
func (e *Environment) View(fn func(s *Snapshot) error) error {
	s, err := e.Begin()
	if err != nil {
		return err
	}
	defer s.Abort()

	return fn(s)
}

// Close releases the store. It is safe to call more than once. When
// snapshots are still live the store stays mapped until the last of them is
// aborted, but no new snapshot can begin.
func (e *Environment) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closing {
		return nil
	}

	e.closing = true

	if e.live > 0 {
		e.logger.Info("deferring environment close until snapshots are aborted",
			"path", e.path, "snapshots", e.live)

		return nil
	}

	return e.closeLocked()
}

// release is called by Snapshot.Abort.
func (e *Environment) release() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.live--

	if e.closing && e.live == 0 {
		if err := e.closeLocked(); err != nil {
			e.logger.Error("unable to close environment", "path", e.path, "error", err)
		}
	}
}

func (e *Environment) closeLocked() error {
	env := e.env
	e.env = nil

	if err := env.Close(); err != nil {
		return fmt.Errorf("cannot close environment %s: %w", e.path, err)
	}

	e.logger.Debug("closed environment", "path", e.path)

	return nil
}
