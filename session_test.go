package vesper

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortImuFilesByLeadingNumber(t *testing.T) {
	files := []string{"02M.BIN", "10M.BIN", "01M.BIN"}
	sorted := sortImuFiles(files)
	assert.Equal(t, []string{"01M.BIN", "02M.BIN", "10M.BIN"}, sorted)
}

func TestSortImuFilesLexicalFallback(t *testing.T) {
	files := []string{"b.bin", "a.bin"}
	sorted := sortImuFiles(files)
	assert.Equal(t, []string{"a.bin", "b.bin"}, sorted)
}

// TestAggregateImuSessionMerge is scenario S5.
func TestAggregateImuSessionMerge(t *testing.T) {
	header := SensorHeader{Device_id: 1, Sensor_name: "IMU10", Sample_rate: 50}
	t0 := time.Date(2025, 9, 29, 7, 0, 0, 0, time.UTC)

	chunk1 := ImuChunk{Header: header, Samples: make([]ImuSample, 3)}
	for i := range chunk1.Samples {
		chunk1.Samples[i].Time = t0.Add(time.Duration(i) * (time.Second / 50))
	}

	t1 := t0.Add(time.Duration(len(chunk1.Samples)) * (time.Second / 50))
	chunk2 := ImuChunk{Header: header, Samples: make([]ImuSample, 2)}
	for i := range chunk2.Samples {
		chunk2.Samples[i].Time = t1.Add(time.Duration(i) * (time.Second / 50))
	}

	session, ok := AggregateImu([]ImuChunk{chunk1, chunk2})
	require.True(t, ok)
	assert.Len(t, session.Rows, 5)

	for i := 1; i < len(session.Rows); i++ {
		assert.True(t, session.Rows[i].Time.After(session.Rows[i-1].Time))
	}
}

func TestAggregateImuDropsEmptyChunks(t *testing.T) {
	_, ok := AggregateImu([]ImuChunk{{Samples: nil}, {Samples: nil}})
	assert.False(t, ok)
}

func TestCsvSchemaColumnOrderAndNames(t *testing.T) {
	cols, err := csvSchema(ImuRow{})
	require.NoError(t, err)
	require.Len(t, cols, 15)

	assert.Equal(t, "Time", cols[0].Name)
	assert.Equal(t, "Milisecond", cols[3].Name)
	assert.Equal(t, "Bar Pressure [hPa]", cols[len(cols)-1].Name)

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	want := []string{
		"Time", "Minute", "Second", "Milisecond",
		"Acc X [mg]", "Acc Y [mg]", "Acc Z [mg]",
		"Gyro X [dps]", "Gyro Y [dps]", "Gyro Z [dps]",
		"Mag X [mGauss]", "Mag Y [mGauss]", "Mag Z [mGauss]",
		"Temperature [C]", "Bar Pressure [hPa]",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("column header mismatch (-want +got):\n%s", diff)
	}
}
