package receipts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// decimal value that models sometimes emit as a string ("12.50") or null
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
		if s == "" {
			*a = 0
			return nil
		}

		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("amount %q is not a number", s)
		}

		*a = Amount(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("amount %s is not a number", string(b))
	}

	*a = Amount(f)
	return nil
}
