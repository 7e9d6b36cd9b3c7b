// Package recipients reads the recipient list of a batch from a CSV file.
package recipients

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// EmailColumn is the header name that selects the address column.
const EmailColumn = "email"

var (
	ErrNotFound = errors.New("recipient list not found")
	ErrFormat   = errors.New("recipient list is not a csv file with a header row")
)

// Recipient is a trimmed, non-blank address. Syntax is not checked; a bad
// address surfaces as a transport failure.
type Recipient string

func (r Recipient) String() string {
	return string(r)
}

// Load reads the recipients of the csv file at path, in row order. When
// path is a directory, every .csv file in it is read in file name order.
func Load(path string) ([]Recipient, error) {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return loadDir(path)
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer file.Close()

	list, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

func loadDir(dir string) ([]Recipient, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading recipient directory: %w", err)
	}

	var all []Recipient
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		list, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		all = append(all, list...)
	}
	if all == nil {
		all = []Recipient{}
	}
	return all, nil
}

// Parse reads recipients from a csv stream whose first row is the header.
// Rows without an email column, or with a blank value, are skipped.
func Parse(r io.Reader) ([]Recipient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty source", ErrFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	column := emailColumn(header)
	list := make([]Recipient, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		if column < 0 || column >= len(row) {
			continue
		}
		address := strings.TrimSpace(row[column])
		if address == "" {
			continue
		}
		list = append(list, Recipient(address))
	}
	return list, nil
}

// emailColumn returns the index of the email column. When the header repeats
// it, the last one wins, as with a header-to-field map.
func emailColumn(header []string) int {
	col := -1
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name == EmailColumn {
			col = i
		}
	}
	return col
}
