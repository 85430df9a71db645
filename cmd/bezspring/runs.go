package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bezspring/internal/export"
	"github.com/san-kum/bezspring/internal/sim"
	"github.com/san-kum/bezspring/internal/storage"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tFRAMES\tFPS\tVIEWPORT\tINTEG")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.0fx%.0f\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.FPS,
			run.Width, run.Height,
			run.Integrator,
		)
	}
	return w.Flush()
}

func loadRun(cmd *cobra.Command, runID string) (*storage.RunMetadata, []storage.FrameRecord, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	records, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, records, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("frames: %d\n\n", len(records))

	p1y := make([]float64, len(records))
	p2y := make([]float64, len(records))
	speed := make([]float64, len(records))
	pointer := make([]float64, len(records))
	for i, r := range records {
		p1y[i] = r.Points[sim.P1].Y
		p2y[i] = r.Points[sim.P2].Y
		speed[i] = math.Max(r.Vel[0].Len(), r.Vel[1].Len())
		if r.Active {
			pointer[i] = r.Pointer.X
		}
	}

	fmt.Println(asciigraph.PlotMany([][]float64{p1y, p2y},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Purple),
		asciigraph.SeriesLegends("P1", "P2"),
		asciigraph.Caption("control point y"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(speed,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("max control point speed"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(pointer,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("pointer x (0 when away)"),
	))

	if len(meta.Metrics) > 0 {
		printMetrics(os.Stdout, meta.Metrics)
	}
	return nil
}

// printMetrics writes metrics sorted by name.
func printMetrics(w io.Writer, metrics map[string]float64) {
	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range slices.Sorted(maps.Keys(metrics)) {
		fmt.Fprintf(w, "  %s: %.6f\n", name, metrics[name])
	}
}

func exportRun(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, records, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, records)
}

type runExport struct {
	Metadata *storage.RunMetadata `json:"metadata"`
	Columns  []string             `json:"columns"`
	Frames   [][]float64          `json:"frames"`
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	out := runExport{Metadata: meta, Columns: storage.Columns, Frames: make([][]float64, len(records))}
	for i, r := range records {
		out.Frames[i] = r.Values()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("run %s has no frames", meta.ID)
	}

	idx := frameIdx
	if idx < 0 {
		idx += len(records)
	}
	if idx < 0 || idx >= len(records) {
		return fmt.Errorf("frame %d out of range [0, %d)", frameIdx, len(records))
	}

	var svg string
	if trail {
		frames := make([]*sim.Frame, idx+1)
		for i, r := range records[:idx+1] {
			frames[i] = r.Frame(meta)
		}
		svg = export.TrajectoryToSVG(frames)
	} else {
		svg = export.FrameToSVG(records[idx].Frame(meta))
	}

	if outFile == "" {
		_, err := fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote frame %d of %s to %s\n", idx, meta.ID, outFile)
	return nil
}
