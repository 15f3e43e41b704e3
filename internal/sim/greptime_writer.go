package sim

import (
	"context"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"sentinel-sim/internal/threat"
	"sentinel-sim/internal/vision"
)

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter persists contact and threat rows to GreptimeDB.
// Tables are auto-created by the ingest path on first write.
type GreptimeDBWriter struct {
	client       greptimeClient
	contactTable string
	threatTable  string
}

// NewGreptimeDBWriter connects to a GreptimeDB endpoint. Empty table
// names fall back to surveillance_contacts and threat_state.
func NewGreptimeDBWriter(endpoint, database, contactTable, threatTable string) (*GreptimeDBWriter, error) {
	cfg := greptime.NewConfig(endpoint).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if contactTable == "" {
		contactTable = "surveillance_contacts"
	}
	if threatTable == "" {
		threatTable = "threat_state"
	}
	return &GreptimeDBWriter{client: client, contactTable: contactTable, threatTable: threatTable}, nil
}

// WriteContact inserts a single contact row.
func (w *GreptimeDBWriter) WriteContact(row vision.ContactRow) error {
	return w.WriteContacts([]vision.ContactRow{row})
}

// WriteContacts inserts multiple contact rows.
func (w *GreptimeDBWriter) WriteContacts(rows []vision.ContactRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.contactTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("session_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("target_id", types.STRING); err != nil {
		return err
	}
	for _, col := range []string{"x", "y", "width", "height", "confidence"} {
		if err := tbl.AddFieldColumn(col, types.FLOAT64); err != nil {
			return err
		}
	}
	if err := tbl.AddFieldColumn("locked", types.BOOLEAN); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.SessionID, r.TargetID, r.X, r.Y, r.Width, r.Height, r.Confidence, r.Locked, r.Timestamp); err != nil {
			return err
		}
	}
	_, err = w.client.Write(context.Background(), tbl)
	return err
}

// WriteThreat inserts a single threat state row.
func (w *GreptimeDBWriter) WriteThreat(row threat.Row) error {
	return w.WriteThreats([]threat.Row{row})
}

// WriteThreats inserts multiple threat state rows.
func (w *GreptimeDBWriter) WriteThreats(rows []threat.Row) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.threatTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("session_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("threat_id", types.STRING); err != nil {
		return err
	}
	for _, col := range []string{"origin_name", "origin_country", "kind", "level"} {
		if err := tbl.AddFieldColumn(col, types.STRING); err != nil {
			return err
		}
	}
	for _, col := range []string{"progress", "distance_km", "eta_seconds", "bearing_deg"} {
		if err := tbl.AddFieldColumn(col, types.FLOAT64); err != nil {
			return err
		}
	}
	if err := tbl.AddFieldColumn("neutralized", types.BOOLEAN); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.SessionID, r.ThreatID, r.OriginName, r.OriginCountry,
			string(r.Kind), string(r.Level), r.Progress, r.DistanceKm, r.ETASeconds,
			r.BearingDeg, r.Neutralized, r.Timestamp); err != nil {
			return err
		}
	}
	_, err = w.client.Write(context.Background(), tbl)
	return err
}
