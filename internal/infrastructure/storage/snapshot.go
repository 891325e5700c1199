package storage

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
)

const snapshotVersion = 1

// tableSnapshot jadval butunligicha bitta blob sifatida saqlanadi
type tableSnapshot struct {
	Version int               `msgpack:"v"`
	Table   entity.OrderTable `msgpack:"table"`
}

// encodeTable jadvalni msgpack blob ga aylantirish
func encodeTable(table entity.OrderTable) ([]byte, error) {
	data, err := msgpack.Marshal(&tableSnapshot{Version: snapshotVersion, Table: table})
	if err != nil {
		return nil, fmt.Errorf("failed to encode order table %s: %w", table.SessionID, err)
	}
	return data, nil
}

// decodeTable blob dan jadvalni tiklash
func decodeTable(data []byte) (*entity.OrderTable, error) {
	var snap tableSnapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode order table: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported order table snapshot version %d", snap.Version)
	}
	return &snap.Table, nil
}
