package adminclient

import (
	"bufio"
	"io"
)

// CSVHeader is the first line of an export.
const CSVHeader = "email,created_at"

// ExportFilename is the default download name.
const ExportFilename = "archive-emails.csv"

// WriteCSV writes the header and one "email,created_at" line per entry in the
// given order. Fields are not quoted: captured emails cannot contain commas and
// timestamps are server formatted. The header always ends in a newline; rows are
// newline separated with none after the last, so an empty list is just the header
// line.
func WriteCSV(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(CSVHeader + "\n"); err != nil {
		return err
	}
	for i, e := range entries {
		if i > 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(e.Email + "," + e.CreatedAt); err != nil {
			return err
		}
	}
	return bw.Flush()
}
