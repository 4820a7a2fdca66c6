package feed

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"comparador/internal/model"
)

// ReadCSV lê um feed CSV. O separador é ';' quando a linha de cabeçalho tem
// mais ';' do que ','; caso contrário ','.
func ReadCSV(r io.Reader, source string) ([]model.RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return parseCSV(data, source)
}

func parseCSV(data []byte, source string) ([]model.RawRecord, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", source, err)
	}
	return mapRows(rows, source), nil
}

func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}
