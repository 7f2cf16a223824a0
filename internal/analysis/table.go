package analysis

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// readColumn reads one column of a whitespace-separated numeric table.
// ok is false when the file is absent or holds no rows.
func readColumn(path string, column int) (values []float64, ok bool, err error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if column >= len(fields) {
			return nil, false, fmt.Errorf("%w: %s:%d: %d columns, want column %d",
				ErrMalformedResult, path, line, len(fields), column)
		}
		v, err := strconv.ParseFloat(fields[column], 64)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %s:%d: %w", ErrMalformedResult, path, line, err)
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, false, err
	}
	return values, len(values) > 0, nil
}
