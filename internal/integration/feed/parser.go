package feed

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Record is one feed row keyed by the header columns.
type Record map[string]string

// Parse reads a pipe-delimited feed file. The first line is the
// header; rows whose column count does not match the header are
// skipped and counted rather than failing the whole file.
func Parse(r io.Reader) ([]Record, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, 0, fmt.Errorf("feed: read header: %w", err)
		}
		return nil, 0, fmt.Errorf("feed: file is empty")
	}
	header := splitRow(scanner.Text())
	if len(header) == 0 {
		return nil, 0, fmt.Errorf("feed: header has no columns")
	}

	var (
		records []Record
		skipped int
	)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitRow(line)
		if len(fields) != len(header) {
			skipped++
			continue
		}
		record := make(Record, len(header))
		for i, key := range header {
			record[key] = fields[i]
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("feed: read rows: %w", err)
	}
	return records, skipped, nil
}

func splitRow(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}
