package metrics_csv

import (
	"encoding/csv"

	"os"

	"path"

	"github.com/pkg/errors"
	metrics_types "github.com/playnet/gamelb/engine/metrics/types"
)

// CSVMetrics appends metrics records to a CSV file, one row per completed
// request, with the header written at open time
type CSVMetrics struct {
	file   *os.File
	writer *csv.Writer
}

func OpenCSVMetrics(filename string) (*CSVMetrics, error) {
	dir, _ := path.Split(filename)
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "create metrics directory failed")
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open metrics csv failed")
	}

	w := csv.NewWriter(f)
	if err := w.Write(metrics_types.Fields); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "write metrics csv header failed")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "write metrics csv header failed")
	}

	return &CSVMetrics{
		file:   f,
		writer: w,
	}, nil
}

func (cm *CSVMetrics) Write(m *metrics_types.PlayerMetrics) error {
	if err := cm.writer.Write(m.Record()); err != nil {
		return errors.Wrap(err, "write metrics csv row failed")
	}
	cm.writer.Flush()
	return errors.Wrap(cm.writer.Error(), "flush metrics csv failed")
}

func (cm *CSVMetrics) Close() error {
	cm.writer.Flush()
	return cm.file.Close()
}
