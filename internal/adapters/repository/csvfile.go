package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/okian/kitchen/internal/domain/model"
)

var csvHeader = []string{"Player", "Score"} //nolint:gochecknoglobals // fixed file header

// CSVFile persists the board as a two-column CSV file.
// Writes go to a temp file in the same directory and are renamed over the target.
type CSVFile struct {
	path string
}

// NewCSVFile returns a persister for path.
func NewCSVFile(path string) *CSVFile {
	return &CSVFile{path: path}
}

// Load reads the table. A missing file is an empty table. Names are
// normalized the way Update normalizes them; blank names and negative
// scores make the table corrupt.
func (f *CSVFile) Load(ctx context.Context) (map[string]int, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 2
	table := make(map[string]int)
	for line := 1; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptTable, err)
		}
		player := model.NormalizePlayer(rec[0])
		if line == 1 && strings.EqualFold(player, csvHeader[0]) {
			continue
		}
		if player == "" {
			return nil, fmt.Errorf("%w: line %d: blank player", ErrCorruptTable, line)
		}
		score, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptTable, line, err)
		}
		if score < 0 {
			return nil, fmt.Errorf("%w: line %d: negative score %d", ErrCorruptTable, line, score)
		}
		table[player] += score
	}
	return table, nil
}

// Save overwrites the file with entries in the given order.
func (f *CSVFile) Save(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, e := range entries {
		if err := w.Write([]string{e.Player, strconv.Itoa(e.Score)}); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
