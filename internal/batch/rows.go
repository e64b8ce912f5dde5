package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Row is one input record before it becomes an Item.
type Row struct {
	Type  string
	Data  string
	Label string
}

// ReadRows parses CSV input with a `type,data,label` header (label column
// optional). A CSV-level read error is batch-fatal; per-row content problems
// are not detected here, they surface as Failed items later.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("rows: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("rows: reading header: %w", err)
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	typeCol, ok := col["type"]
	if !ok {
		return nil, fmt.Errorf("rows: header has no \"type\" column")
	}
	dataCol, ok := col["data"]
	if !ok {
		return nil, fmt.Errorf("rows: header has no \"data\" column")
	}
	labelCol, hasLabel := col["label"]

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rows: row %d: %w", len(rows)+2, err)
		}

		row := Row{}
		if typeCol < len(rec) {
			row.Type = strings.TrimSpace(rec[typeCol])
		}
		if dataCol < len(rec) {
			row.Data = rec[dataCol]
		}
		if hasLabel && labelCol < len(rec) {
			row.Label = rec[labelCol]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ItemsFromRows maps rows to pending items. Unknown types and empty data are
// carried along and fail during processing, keeping the failure per-row.
func ItemsFromRows(rows []Row) []*Item {
	items := make([]*Item, len(rows))
	for i, row := range rows {
		items[i] = &Item{
			ID:       uuid.NewString(),
			Seq:      i,
			Kind:     ParseKind(row.Type),
			RawInput: row.Data,
			Label:    row.Label,
			Status:   StatusPending,
		}
	}
	return items
}

// Template is the fixed sample table users start from: one row per
// supported kind family.
const Template = `type,data,label
bitcoin,1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa,Donation
ethereum,0x742d35Cc6634C0532925a3b844Bc9e7595f1b794,Invoice 7
commissioning,"{""version"":0,""vendorId"":65521,""productId"":32769,""commissioningFlow"":0,""discoveryCapabilities"":4,""discriminator"":3840,""setupPasscode"":""20202021""}",Lab device
text,https://example.com/menu,Menu link
`
