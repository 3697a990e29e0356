package deal

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"fxdeals/internal/domain"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	msgEmptyFile      = "CSV file is empty."
	msgNoHeaderRow    = "CSV file must provide a header row."
	msgUnreadableFile = "Failed to read CSV file."
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CandidateRow is the decode outcome of one data row. Exactly one of Deal and
// DecodeErr is meaningful: DecodeErr is empty when Deal holds a decoded record.
type CandidateRow struct {
	RowNumber int
	Deal      domain.Deal
	DecodeErr string
}

func (r CandidateRow) Failed() bool {
	return r.DecodeErr != ""
}

// DecodeCSV reads the whole file into candidate rows in input order. Only a
// structural problem with the file (empty, no header, missing required column)
// is returned as an error; every row-level problem is kept on its row.
func DecodeCSV(r io.Reader) ([]CandidateRow, error) {
	br := bufio.NewReader(r)
	if prefix, _ := br.Peek(len(utf8BOM)); bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewInputError(msgEmptyFile, err)
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, domain.NewInputError(msgNoHeaderRow, err)
		}
		return nil, domain.NewInputError(msgUnreadableFile, err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	rows := make([]CandidateRow, 0)
	for rowNumber := 1; ; rowNumber++ {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			var parseErr *csv.ParseError
			if !errors.As(readErr, &parseErr) {
				return nil, domain.NewInputError(msgUnreadableFile, readErr)
			}
			// a record spanning several lines has lost its line boundaries,
			// so the rows it swallowed can no longer be told apart
			if parseErr.StartLine != parseErr.Line {
				return nil, domain.NewInputError(msgUnreadableFile, readErr)
			}
			rows = append(rows, CandidateRow{RowNumber: rowNumber, DecodeErr: parseErr.Err.Error()})
			continue
		}

		d, decodeErr := decodeRecord(record, columns)
		if decodeErr != nil {
			rows = append(rows, CandidateRow{RowNumber: rowNumber, DecodeErr: decodeErr.Error()})
			continue
		}
		rows = append(rows, CandidateRow{RowNumber: rowNumber, Deal: d})
	}
	return rows, nil
}

// indexColumns maps each required column to its position, matching header names case-insensitively.
func indexColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	columns := make(map[string]int, len(domain.RequiredColumns))
	for _, col := range domain.RequiredColumns {
		pos, ok := positions[col]
		if !ok {
			return nil, domain.NewInputError(
				fmt.Sprintf("CSV file must contain headers: %s.", strings.Join(domain.RequiredColumns, ", ")),
				nil,
			)
		}
		columns[col] = pos
	}
	return columns, nil
}

func decodeRecord(record []string, columns map[string]int) (domain.Deal, error) {
	values := make(map[string]string, len(columns))
	for _, col := range domain.RequiredColumns {
		pos := columns[col]
		var v string
		if pos < len(record) {
			v = strings.TrimSpace(record[pos])
		}
		if v == "" {
			return domain.Deal{}, fmt.Errorf("Missing value for '%s'", col)
		}
		values[col] = v
	}

	ts, err := time.Parse(time.RFC3339Nano, values[domain.ColumnDealTimestamp])
	if err != nil {
		return domain.Deal{}, fmt.Errorf("Invalid %s '%s': expected an instant like 2024-11-25T10:15:30Z",
			domain.ColumnDealTimestamp, values[domain.ColumnDealTimestamp])
	}

	amount, err := decimal.NewFromString(values[domain.ColumnDealAmount])
	if err != nil {
		return domain.Deal{}, fmt.Errorf("Invalid %s '%s': not a decimal number",
			domain.ColumnDealAmount, values[domain.ColumnDealAmount])
	}

	return domain.Deal{
		DealUniqueID:    values[domain.ColumnDealUniqueID],
		FromCurrencyISO: values[domain.ColumnFromCurrencyISO],
		ToCurrencyISO:   values[domain.ColumnToCurrencyISO],
		DealTimestamp:   ts.UTC(),
		DealAmount:      amount,
	}, nil
}
