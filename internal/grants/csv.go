package grants

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/propbooks-dev/propbooks/internal/model"
)

const (
	numFields    = 7
	colID        = 0
	colUserID    = 1
	colRole      = 2
	colStatus    = 3
	colEntities  = 4
	colProps     = 5
	colUpdatedAt = 6

	idSeparator = ";"
)

// ReadGrants reads access/grants.csv.
func ReadGrants(r io.Reader) ([]model.AccessGrant, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading grants CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var out []model.AccessGrant
	for i, rec := range records[1:] {
		g, err := UnmarshalGrant(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// WriteGrants writes access/grants.csv.
func WriteGrants(w io.Writer, grants []model.AccessGrant) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"grant_id", "user_id", "role", "status", "entity_ids", "property_ids", "updated_at"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, g := range grants {
		if err := cw.Write(MarshalGrant(g)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalGrant converts an AccessGrant to a CSV row.
func MarshalGrant(g model.AccessGrant) []string {
	row := make([]string, numFields)
	row[colID] = g.ID
	row[colUserID] = g.UserID
	row[colRole] = string(g.Role)
	row[colStatus] = string(g.Status)
	row[colEntities] = strings.Join(g.EntityIDs, idSeparator)
	row[colProps] = strings.Join(g.PropertyIDs, idSeparator)
	row[colUpdatedAt] = g.UpdatedAt.UTC().Format(time.RFC3339)
	return row
}

// UnmarshalGrant converts a CSV row to an AccessGrant.
func UnmarshalGrant(record []string) (model.AccessGrant, error) {
	if len(record) != numFields {
		return model.AccessGrant{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	role, err := model.ParseRole(record[colRole])
	if err != nil {
		return model.AccessGrant{}, fmt.Errorf("parsing role: %w", err)
	}
	status, err := model.ParseGrantStatus(record[colStatus])
	if err != nil {
		return model.AccessGrant{}, fmt.Errorf("parsing status: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, record[colUpdatedAt])
	if err != nil {
		return model.AccessGrant{}, fmt.Errorf("parsing updated_at %q: %w", record[colUpdatedAt], err)
	}

	return model.AccessGrant{
		ID:          record[colID],
		UserID:      record[colUserID],
		Role:        role,
		Status:      status,
		EntityIDs:   splitIDs(record[colEntities]),
		PropertyIDs: splitIDs(record[colProps]),
		UpdatedAt:   updatedAt,
	}, nil
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, idSeparator)
}
