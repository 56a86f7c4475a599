package metrics_pack

import (
	"bytes"

	"encoding/binary"

	"os"

	"path"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"

	metrics_types "github.com/playnet/gamelb/engine/metrics/types"
)

// packRecord is the persisted shape of one metrics record in MessagePack
// format, fields matching metrics_types.Fields
type packRecord struct {
	PlayerID    string `msgpack:"player_id"`
	ServerID    string `msgpack:"server_id"`
	StartTime   string `msgpack:"start_time"`
	EndTime     string `msgpack:"end_time"`
	ProcessTime string `msgpack:"processing_time"`
}

// PackMetrics appends metrics records to a binary file in MessagePack format,
// each record prefixed with its payload length (4 bytes, little endian)
type PackMetrics struct {
	file *os.File
}

func OpenPackMetrics(filename string) (*PackMetrics, error) {
	dir, _ := path.Split(filename)
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "create metrics directory failed")
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open metrics pack file failed")
	}

	return &PackMetrics{
		file: f,
	}, nil
}

func (pm *PackMetrics) Write(m *metrics_types.PlayerMetrics) error {
	values := m.Record()
	record := packRecord{
		PlayerID:    values[0],
		ServerID:    values[1],
		StartTime:   values[2],
		EndTime:     values[3],
		ProcessTime: values[4],
	}

	buffer := bytes.Buffer{}
	encoder := msgpack.NewEncoder(&buffer)
	if err := encoder.Encode(&record); err != nil {
		return errors.Wrap(err, "pack metrics record failed")
	}

	payload := buffer.Bytes()
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := pm.file.Write(lenBuf[:]); err != nil {
		return errors.Wrap(err, "write metrics record failed")
	}
	if _, err := pm.file.Write(payload); err != nil {
		return errors.Wrap(err, "write metrics record failed")
	}
	return nil
}

func (pm *PackMetrics) Close() error {
	return pm.file.Close()
}
