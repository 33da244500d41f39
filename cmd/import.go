package cmd

import (
	"io"
	"os"

	"github.com/ppartarr/reel/batch"
	"github.com/ppartarr/reel/config"
	"github.com/ppartarr/reel/util"
	"github.com/spf13/cobra"
)

func init() {
	cmdRoot.AddCommand(cmdCSV(), cmdTXT())
}

type reader func(io.Reader) ([]batch.Item, []error, error)

// readFile parses path with read and reports the rows it had to skip.
func (session *Session) readFile(path string, read reader) ([]batch.Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	items, skipped, err := read(file)
	if err != nil {
		return nil, err
	}
	session.warn(skipped)
	return items, nil
}

func cmdCSV() *cobra.Command {
	return &cobra.Command{
		Use:   "csv <file>",
		Short: "Download every track listed in a CSV file",
		Long: `Download every track listed in a CSV file.

Track and artist columns are recognized by their header, e.g. "Track Name"
and "Artist Name(s)" as found in streaming service exports. Without an artist
column, tracks written as "Artist - Track" are split.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := sessionOf(cmd)
			items, err := session.readFile(args[0], batch.ReadCSV)
			if err != nil {
				return err
			}
			runner, err := session.Runner(cmd.Context(), false)
			if err != nil {
				return err
			}
			name := util.FileBaseStem(args[0])
			return session.sync(cmd.Context(), runner, collection{
				name:  name,
				dir:   session.Config.Dir(config.CSVImports, name),
				items: items,
			})
		},
	}
}

func cmdTXT() *cobra.Command {
	return &cobra.Command{
		Use:   "txt <file>",
		Short: "Download every URL listed in a text file, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := sessionOf(cmd)
			items, err := session.readFile(args[0], batch.ReadURLs)
			if err != nil {
				return err
			}
			runner, err := session.Runner(cmd.Context(), true)
			if err != nil {
				return err
			}
			name := util.FileBaseStem(args[0])
			return session.sync(cmd.Context(), runner, collection{
				name:  name,
				dir:   session.Config.Dir(config.URLImports, name),
				items: items,
			})
		},
	}
}
