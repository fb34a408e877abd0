package sender

import (
	"context"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"devicesim/internal/telemetry"
)

// DefaultMessageTable is the GreptimeDB table messages are archived to.
const DefaultMessageTable = "device_messages"

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeSender archives transmitted messages to a GreptimeDB table. It is
// an optional secondary sink next to the HTTP transport.
type GreptimeSender struct {
	client greptimeClient
	table  string
}

// NewGreptimeSender connects to a GreptimeDB endpoint. tableName may be
// empty to use DefaultMessageTable.
func NewGreptimeSender(endpoint, database, tableName string) (*GreptimeSender, error) {
	cfg := greptime.NewConfig(endpoint).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if tableName == "" {
		tableName = DefaultMessageTable
	}
	return &GreptimeSender{client: client, table: tableName}, nil
}

// Send archives a single message.
func (s *GreptimeSender) Send(ctx context.Context, msg telemetry.Message) error {
	return s.SendBatch(ctx, []telemetry.Message{msg})
}

// SendBatch archives multiple messages in one write.
func (s *GreptimeSender) SendBatch(ctx context.Context, msgs []telemetry.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	tbl, err := table.New(s.table)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("device", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("kind", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("firmware", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("severity", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("log_message", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("reading_name", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("reading_value", types.FLOAT); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}

	for _, m := range msgs {
		severity, logText := "", ""
		if m.Log != nil {
			severity = string(m.Log.Severity)
			logText = m.Log.Message
		}
		readingName, readingValue := "", 0.0
		if len(m.Readings) > 0 {
			readingName = m.Readings[0].Name
			readingValue = m.Readings[0].Value
		}
		if err := tbl.AddRow(m.DeviceID, string(m.Kind), m.Firmware,
			severity, logText, readingName, readingValue, m.Timestamp); err != nil {
			return err
		}
	}

	_, err = s.client.Write(ctx, tbl)
	return err
}
