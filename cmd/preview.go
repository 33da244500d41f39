package cmd

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/ppartarr/reel/batch"
	"github.com/ppartarr/reel/spotify"
	"github.com/ppartarr/reel/util"
)

func renderTable(headers []string, rows [][]string, numeric ...int) string {
	if len(headers) == 0 {
		return ""
	}

	writer := table.NewWriter()
	writer.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, name := range headers {
		header[i] = name
	}
	writer.AppendHeader(header)

	for _, row := range rows {
		cells := make(table.Row, len(headers))
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			} else {
				cells[i] = ""
			}
		}
		writer.AppendRow(cells)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		align := text.AlignLeft
		for _, column := range numeric {
			if column == i {
				align = text.AlignRight
			}
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	writer.SetColumnConfigs(configs)
	return writer.Render()
}

func itemsTable(items []batch.Item) string {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		var (
			track, artist = item.Track, item.Artist
			album, length string
		)
		if record := item.Record; record != nil {
			track, artist, album = record.Title, record.Artist(), record.Album
			if record.Duration > 0 {
				length = fmt.Sprintf("%d:%02d", record.Duration/60, record.Duration%60)
			}
		}
		if item.URL != "" {
			track = item.URL
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), util.Excerpt(track, 48), util.Excerpt(artist, 32), util.Excerpt(album, 32), length})
	}
	return renderTable([]string{"#", "Track", "Artist", "Album", "Length"}, rows, 0, 4)
}

func albumsTable(hits []spotify.AlbumHit) string {
	rows := make([][]string, 0, len(hits))
	for i, hit := range hits {
		artist := ""
		if len(hit.Artists) > 0 {
			artist = hit.Artists[0]
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), hit.Name, artist, hit.ReleaseDate, hit.Label()})
	}
	return renderTable([]string{"#", "Album", "Artist", "Released", "Match"}, rows, 0)
}

func settingsTable(settings [][2]string) string {
	rows := make([][]string, 0, len(settings))
	for _, setting := range settings {
		rows = append(rows, []string{setting[0], setting[1]})
	}
	return renderTable([]string{"Key", "Value"}, rows)
}
