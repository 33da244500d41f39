package batch

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	trackColumns  = []string{"track name", "track", "title", "name", "song name"}
	artistColumns = []string{"artist name(s)", "artist name", "artist", "artists", "artist(s)"}
)

// ReadCSV parses a track list exported from a streaming service or
// written by hand. Rows that cannot be turned into an item are
// reported in skipped, wrapping ErrMalformedInput.
func ReadCSV(reader io.Reader) (items []Item, skipped []error, err error) {
	buffered := bufio.NewReader(reader)
	if bom, err := buffered.Peek(3); err == nil && string(bom) == "\ufeff" {
		_, _ = buffered.Discard(3)
	}

	csvReader := csv.NewReader(buffered)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: empty file", ErrMalformedInput)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	tracks, artists := columns(header, trackColumns), columns(header, artistColumns)
	if len(tracks) == 0 {
		return nil, nil, fmt.Errorf("%w: no track column among %q", ErrMalformedInput, header)
	}

	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped = append(skipped, fmt.Errorf("%w: %w", ErrMalformedInput, err))
			continue
		}

		track, artist := field(record, tracks), field(record, artists)
		if artist == "" {
			if parts := strings.SplitN(track, " - ", 2); len(parts) == 2 {
				artist, track = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
			}
		}
		// only the primary credit is searched for
		artist = strings.TrimSpace(strings.Split(artist, ",")[0])

		switch {
		case track == "" && artist == "":
			continue
		case track == "" || artist == "":
			line, _ := csvReader.FieldPos(0)
			skipped = append(skipped, fmt.Errorf("%w: line %d: missing track or artist", ErrMalformedInput, line))
		default:
			items = append(items, Item{Track: track, Artist: artist})
		}
	}
	return items, skipped, nil
}

// columns returns the positions of the header cells matching names,
// in order of preference.
func columns(header []string, names []string) (positions []int) {
	for _, name := range names {
		for i, column := range header {
			if strings.EqualFold(strings.TrimSpace(column), name) {
				positions = append(positions, i)
				break
			}
		}
	}
	return
}

// field returns the first non-empty cell among columns.
func field(record []string, columns []int) string {
	for _, column := range columns {
		if column < len(record) {
			if value := strings.TrimSpace(record[column]); value != "" {
				return value
			}
		}
	}
	return ""
}

// ReadURLs parses one locator per line. Blank lines and lines
// starting with # are ignored.
func ReadURLs(reader io.Reader) (items []Item, skipped []error, err error) {
	scanner := bufio.NewScanner(reader)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		switch {
		case text == "" || strings.HasPrefix(text, "#"):
		case !strings.HasPrefix(text, "http"):
			skipped = append(skipped, fmt.Errorf("%w: line %d: %q is not a URL", ErrMalformedInput, line, text))
		default:
			items = append(items, Item{URL: text})
		}
	}
	return items, skipped, scanner.Err()
}
