package scrape

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"beigebook/internal/reports"
)

var ledgerHeader = []string{"year", "month", "region"}

// Ledger is the append-only CSV record of keys that could not be fetched.
type Ledger struct {
	lock   sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// OpenLedger opens the ledger at `path` for appending, creating it with its
// header row if it does not exist. Existing rows are never rewritten.
func OpenLedger(path string) (*Ledger, error) {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return nil, err
	}

	_, statErr := os.Stat(path)
	needsHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	l := &Ledger{file: file, writer: csv.NewWriter(file)}
	if needsHeader {
		err = l.write(ledgerHeader)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("write ledger header: %w", err)
		}
	}
	return l, nil
}

func (l *Ledger) write(row []string) error {
	err := l.writer.Write(row)
	if err != nil {
		return err
	}
	l.writer.Flush()
	return l.writer.Error()
}

// Append records `key` as missing.
func (l *Ledger) Append(key reports.Key) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.write([]string{
		strconv.Itoa(key.Year),
		fmt.Sprintf("%02d", key.Month),
		key.Region,
	})
}

func (l *Ledger) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.writer.Flush()
	err := l.writer.Error()
	closeErr := l.file.Close()
	if err != nil {
		return err
	}
	return closeErr
}
