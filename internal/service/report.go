package service

import (
	"fmt"
	"io"
	"strings"
)

// Report writes the line-oriented result consumed by CI scripts:
// USER_ID=<id> and PRODUCT_ID=<id> on success, a single "Error: <message>" line otherwise.
func Report(w io.Writer, result *SeedResult, err error) error {
	if err == nil && result == nil {
		err = fmt.Errorf("no seed result")
	}

	if err != nil {
		msg := strings.Join(strings.Fields(err.Error()), " ")
		_, werr := fmt.Fprintf(w, "Error: %s\n", msg)
		return werr
	}

	_, werr := fmt.Fprintf(w, "USER_ID=%d\nPRODUCT_ID=%d\n", result.UserID, result.ProductID)
	return werr
}
