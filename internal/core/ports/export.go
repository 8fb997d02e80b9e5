package ports

// RosterExporter turns tabular rows into a downloadable byte stream.
// The enrollment core only supplies rows; format and styling belong to
// the adapter.
type RosterExporter interface {
	Export(sheet string, headers []string, rows [][]string) ([]byte, string, error)
}
