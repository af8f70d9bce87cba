package objects

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	serrors "github.com/user/serpent_analyzer_go/internal/errors"
)

// ParseFloatRows converts whitespace-separated numeric text lines into a
// dense matrix, one row per non-blank line. When expectCols is zero the
// column count is taken from the first data row; every row must then match
// it. A non-numeric token is a malformed-input error.
func ParseFloatRows(lines []string, expectCols int) (*mat.Dense, error) {
	rows := make([][]float64, 0, len(lines))
	cols := expectCols
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if cols == 0 {
			cols = len(fields)
		}
		if len(fields) != cols {
			return nil, serrors.Newf(serrors.TypeMalformedInput,
				"data row has %d columns, expected %d", len(fields), cols)
		}
		row := make([]float64, cols)
		for i, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, serrors.Newf(serrors.TypeMalformedInput,
					"non-numeric token %q in data row", tok)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, serrors.New(serrors.TypeMalformedInput, "data block has no numeric rows")
	}

	out := mat.NewDense(len(rows), cols, nil)
	for r, row := range rows {
		out.SetRow(r, row)
	}
	return out, nil
}
