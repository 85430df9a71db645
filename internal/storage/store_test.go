package storage

import (
	"bytes"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/san-kum/bezspring/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordRun(t *testing.T, frames int) *Recorder {
	t.Helper()
	loop := sim.New(sim.DefaultOptions(800, 400))
	rec := NewRecorder()
	loop.AddObserver(rec)

	loop.PointerMove(100, 150)
	for i := 0; i < frames; i++ {
		loop.Tick(float64(i) * 1000 / 60)
	}
	return rec
}

func TestRecorder(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	rec := recordRun(t, 3)
	records := rec.Records()
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, bezier.Pt(80, 200), first.Points[sim.P0])
	assert.Equal(t, bezier.Pt(720, 200), first.Points[sim.P3])
	assert.Equal(t, bezier.Pt(100, 150), first.Target[0])
	assert.True(t, first.Active)
	assert.NotEqual(t, bezier.Point{}, first.Vel[0])

	rec.Reset()
	assert.Empty(t, rec.Records())
}

func TestRecordValuesRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	for _, r := range recordRun(t, 5).Records() {
		back, err := RecordFromValues(r.Values())
		require.NoError(t, err)
		assert.Equal(t, r, back)
	}

	_, err := RecordFromValues([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestRecordFrame(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	records := recordRun(t, 2).Records()
	meta := &RunMetadata{Width: 800, Height: 400, Params: sim.DefaultParams()}
	f := records[1].Frame(meta)

	p0, p1, p2, p3 := f.Positions()
	require.Len(t, f.Curve, bezier.DefaultSteps+1)
	assert.Equal(t, p0, f.Curve[0])
	assert.Equal(t, bezier.Evaluate(0.5, p0, p1, p2, p3), f.Curve[50])
	assert.Equal(t, 0.75, f.Influence[0])
	assert.Equal(t, records[1].Target[0], f.Points[sim.P1].Target)
}

func TestCSV(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	records := recordRun(t, 4).Records()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, back)

	_, err = ReadCSV(bytes.NewBufferString("index,timestamp\n1,2\n"))
	assert.Error(t, err)
}

func TestStores(t *testing.T) {
	for _, backend := range []string{BackendFile, BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			teardown := gotestingadapter.RedirectTracing(t)
			defer teardown()

			dir := t.TempDir()
			st, err := Open(backend, dir)
			require.NoError(t, err)
			defer st.Close()

			runs, err := st.List()
			require.NoError(t, err)
			assert.Empty(t, runs)

			records := recordRun(t, 10).Records()
			meta := &RunMetadata{
				Scenario:   "sweep",
				Width:      800,
				Height:     400,
				FPS:        60,
				Integrator: "tick",
				Params:     sim.DefaultParams(),
				Metrics:    map[string]float64{"bounces": 2},
			}
			id, err := st.Save(meta, records)
			require.NoError(t, err)
			assert.NotEmpty(t, id)
			assert.Equal(t, 10, meta.Frames)

			loaded, err := st.Load(id)
			require.NoError(t, err)
			assert.Equal(t, "sweep", loaded.Scenario)
			assert.Equal(t, 10, loaded.Frames)
			assert.Equal(t, sim.DefaultParams(), loaded.Params)
			assert.Equal(t, 2.0, loaded.Metrics["bounces"])
			assert.True(t, meta.Timestamp.Equal(loaded.Timestamp))

			frames, err := st.LoadFrames(id)
			require.NoError(t, err)
			assert.Equal(t, records, frames)

			runs, err = st.List()
			require.NoError(t, err)
			require.Len(t, runs, 1)
			assert.Equal(t, id, runs[0].ID)

			_, err = st.Load("missing")
			assert.ErrorIs(t, err, ErrRunNotFound)
			_, err = st.LoadFrames("missing")
			assert.ErrorIs(t, err, ErrRunNotFound)

			require.NoError(t, st.Close())
			require.NoError(t, st.Close())

			reopened, err := Open(backend, dir)
			require.NoError(t, err)
			defer reopened.Close()
			runs, err = reopened.List()
			require.NoError(t, err)
			require.Len(t, runs, 1, "runs survive closing the store")
			assert.Equal(t, id, runs[0].ID)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("postgres", t.TempDir())
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
