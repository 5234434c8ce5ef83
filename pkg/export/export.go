// Package export writes job tables in machine readable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/fleetsim/core/model"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{"id", "name", "status", "progress", "processing_time", "processing_time_completed", "profit", "deadline", "flexibility", "profit_to_time_ratio"}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteCSV writes the job table to w in CSV format.
func WriteCSV(w io.Writer, views []model.JobView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, v := range views {
		rec := []string{
			v.ID,
			v.Name,
			string(v.Status),
			formatFloat(v.Progress),
			formatFloat(v.ProcessingTime),
			formatFloat(v.ProcessingTimeCompleted),
			formatFloat(v.Profit),
			formatFloat(v.Deadline),
			string(v.Flexibility),
			formatFloat(v.ProfitToTimeRatio),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
