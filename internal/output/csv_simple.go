package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/taxpro/internal/domain"
)

// CSVFormatter writes one row per line item: stage, label and the amount
// signed as it affects the running total
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Stage", "Step", "Label", "Amount"}); err != nil {
		return nil, err
	}
	for _, stage := range LineItems(report) {
		for _, item := range stage.Items {
			row := []string{
				stage.Title,
				strconv.Itoa(stage.Number),
				item.Label,
				item.Signed().StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
