package bolt

import (
	"bytes"
	"time"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/hashicorp/go-msgpack/codec"
)

// record is the on-disk layout of a snapshot. Timestamps are stored as
// unix nanoseconds to keep the encoding independent of time.Time extensions.
type record struct {
	SessionID string
	Table     string
	State     string
	Steps     int
	History   []string
	UpdatedAt int64
}

func toRecord(snap *domain.Snapshot) record {
	history := make([]string, len(snap.History))
	for i, id := range snap.History {
		history[i] = string(id)
	}
	return record{
		SessionID: snap.SessionID,
		Table:     snap.Table,
		State:     string(snap.State),
		Steps:     snap.Steps,
		History:   history,
		UpdatedAt: snap.UpdatedAt.UnixNano(),
	}
}

func (r record) snapshot() *domain.Snapshot {
	var history []domain.StateID
	if len(r.History) > 0 {
		history = make([]domain.StateID, len(r.History))
		for i, id := range r.History {
			history[i] = domain.StateID(id)
		}
	}
	return &domain.Snapshot{
		SessionID: r.SessionID,
		Table:     r.Table,
		State:     domain.StateID(r.State),
		Steps:     r.Steps,
		History:   history,
		UpdatedAt: time.Unix(0, r.UpdatedAt).UTC(),
	}
}

func encodeMsgPack(in interface{}) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	hd := codec.MsgpackHandle{}
	enc := codec.NewEncoder(buf, &hd)
	err := enc.Encode(in)
	return buf.Bytes(), err
}

func decodeMsgPack(buf []byte, out interface{}) error {
	hd := codec.MsgpackHandle{}
	dec := codec.NewDecoder(bytes.NewReader(buf), &hd)
	return dec.Decode(out)
}
