package compiler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/compiler/load"
	"github.com/syssam/icetype/schema"
)

// snapshotFormat is bumped whenever the snapshot layout changes.
const snapshotFormat = 1

// snapshot is the persisted form of a schema. Fields are stored as their
// canonical strings and parsed again on decode.
type snapshot struct {
	Format     int               `msgpack:"format"`
	ID         string            `msgpack:"id"`
	Name       string            `msgpack:"name"`
	Version    int               `msgpack:"version"`
	CreatedAt  time.Time         `msgpack:"created_at"`
	UpdatedAt  time.Time         `msgpack:"updated_at"`
	Fields     []snapshotField   `msgpack:"fields"`
	Directives schema.Directives `msgpack:"directives"`
}

type snapshotField struct {
	Name string `msgpack:"name"`
	Def  string `msgpack:"def"`
}

// EncodeSnapshot serializes s with msgpack.
func EncodeSnapshot(s *schema.Schema) ([]byte, error) {
	snap := snapshot{
		Format:     snapshotFormat,
		ID:         s.ID().String(),
		Name:       s.Name(),
		Version:    s.Version(),
		CreatedAt:  s.CreatedAt(),
		UpdatedAt:  s.UpdatedAt(),
		Directives: s.Directives(),
	}
	for _, f := range s.Fields() {
		snap.Fields = append(snap.Fields, snapshotField{Name: f.Name, Def: f.String()})
	}
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("icetype: encode snapshot of %s: %w", s.Name(), err)
	}
	return data, nil
}

// DecodeSnapshot restores a schema written by EncodeSnapshot. Identity,
// version and timestamps are preserved.
func DecodeSnapshot(data []byte) (*schema.Schema, error) {
	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, icetype.NewParseError(icetype.CodeInvalidSnapshot, "", err.Error())
	}
	if snap.Format != snapshotFormat {
		return nil, icetype.NewParseError(icetype.CodeInvalidSnapshot, snap.Name,
			fmt.Sprintf("unsupported snapshot format %d", snap.Format))
	}
	id, err := uuid.Parse(snap.ID)
	if err != nil {
		return nil, icetype.NewParseError(icetype.CodeInvalidSnapshot, snap.Name, "invalid schema id: "+err.Error())
	}
	entries := make([]load.FieldEntry, len(snap.Fields))
	for i, f := range snap.Fields {
		entries[i] = load.FieldEntry{Name: f.Name, Def: f.Def}
	}
	return assemble(snap.Name, entries, snap.Directives,
		schema.WithID(id),
		schema.WithVersion(snap.Version),
		schema.WithTimestamps(snap.CreatedAt, snap.UpdatedAt),
	)
}
