package payroll

import (
	"encoding/json"
	"math"
	"strconv"
)

// Amount is a currency figure in the output. Misconfigured employees produce
// NaN or infinite amounts, which plain encoding/json refuses to marshal, so
// non-finite values are written as the strings "NaN", "Infinity" and
// "-Infinity".
type Amount float64

func (a Amount) Float() float64 {
	return float64(a)
}

func (a Amount) IsFinite() bool {
	f := float64(a)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (a Amount) String() string {
	f := float64(a)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.IsFinite() {
		return json.Marshal(a.String())
	}
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		parsed, err := parseAmount(text)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// MarshalCSV lets gocsv write amounts without exponent notation.
func (a Amount) MarshalCSV() (string, error) {
	return a.String(), nil
}

func parseAmount(text string) (Amount, error) {
	switch text {
	case "NaN":
		return Amount(math.NaN()), nil
	case "Infinity":
		return Amount(math.Inf(1)), nil
	case "-Infinity":
		return Amount(math.Inf(-1)), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	return Amount(f), nil
}
