package viz

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/YuminosukeSato/treeviz/pkg/errors"
)

var eventTableHeader = []string{"Step", "Event", "Node", "Depth", "Samples", "Impurity", "Split", "Gain", "Prediction", "Queue"}

// WriteEventTable renders rows as the event log of a build. Split conditions
// use featureNames when given.
func WriteEventTable(w io.Writer, rows []Row, featureNames ...string) (err error) {
	defer errors.Recover(&err, "WriteEventTable")

	table := tablewriter.NewWriter(w)
	table.SetHeader(eventTableHeader)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Step),
			string(r.Event),
			"-",
			strconv.Itoa(r.Depth),
			strconv.Itoa(r.Samples),
			FormatNumber(r.Impurity),
			"-",
			"-",
			r.Prediction,
			strconv.Itoa(r.Pending),
		}
		if r.NodeID > 0 {
			record[2] = strconv.Itoa(r.NodeID)
		}
		if r.Feature >= 0 {
			record[6] = splitLabel(r.Feature, r.Threshold, featureNames)
			record[7] = FormatNumber(r.Gain)
		}
		if record[8] == "" {
			record[8] = "-"
		}
		table.Append(record)
	}
	table.Render()
	return nil
}
