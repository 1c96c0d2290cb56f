package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/phasebal/core/model"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{"circuit_number", "name", "phase", "load_contribution_a", "locked"}

// WriteJSON writes the circuit allocation to w in JSON format.
func WriteJSON(w io.Writer, allocs []model.CircuitAllocation) error {
	enc := json.NewEncoder(w)
	return enc.Encode(allocs)
}

// WriteCSV writes the circuit allocation to w in CSV format, one row per
// circuit in allocation order.
func WriteCSV(w io.Writer, allocs []model.CircuitAllocation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, a := range allocs {
		rec := []string{
			strconv.Itoa(a.CircuitNumber),
			a.Name,
			a.Phase.String(),
			strconv.FormatFloat(a.LoadContribution, 'f', -1, 64),
			strconv.FormatBool(a.Locked),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
