// Package jsonl persists collections as JSONL files in a data folder.
//
// Each collection is stored in "<folder>/<name>.jsonl", one record per line in the
// collection natural order. Every committed change rewrites the file atomically.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/etnz/finance"
	"github.com/etnz/finance/store"
	"github.com/sirupsen/logrus"
)

// DB is the pair of collections of the finance tracker stored in a folder.
type DB struct {
	Dir          string
	Transactions *store.Memory[finance.Transaction]
	Holdings     *store.Memory[finance.Holding]
}

// Open loads the collections stored in dir. A missing folder is created on first write.
func Open(dir string, log logrus.FieldLogger) (*DB, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		log.WithField("dir", dir).Warn("data folder does not exist yet, it will be created on first change")
	}
	txs, err := Load(dir, store.Transactions, log)
	if err != nil {
		return nil, err
	}
	holdings, err := Load(dir, store.Holdings, log)
	if err != nil {
		return nil, err
	}
	return &DB{Dir: dir, Transactions: txs, Holdings: holdings}, nil
}

// Load reads the collection described by schema from dir and keeps the file in sync with it.
func Load[T store.Record](dir string, schema store.Schema[T], log logrus.FieldLogger) (*store.Memory[T], error) {
	path := filepath.Join(dir, schema.Name+".jsonl")
	m := store.NewMemory(schema)

	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("could not open collection file %q: %w", path, err)
	default:
		defer f.Close()
		records, err := Decode[T](f)
		if err != nil {
			return nil, fmt.Errorf("could not decode collection file %q: %w", path, err)
		}
		if err := m.Put(context.Background(), records...); err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"file": path, "records": len(records)}).Debug("collection loaded")
	}

	m.SetPersister(func(records []T) error {
		if err := save(path, records); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"file": path, "records": len(records)}).Debug("collection saved")
		return nil
	})
	return m, nil
}

// Decode reads one record per non empty line.
func Decode[T any](r io.Reader) ([]T, error) {
	var records []T
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(lineBytes, &v); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return records, nil
}

// Encode writes one record per line.
func Encode[T any](w io.Writer, records []T) error {
	for _, v := range records {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	return nil
}

// save replaces the file at path with records, through a temporary file in the same folder.
func save[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for %q: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("error opening temporary file for %q: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := Encode(w, records); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("error replacing %q: %w", path, err)
	}
	return nil
}
